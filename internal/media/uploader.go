// Package media uploads files to the media host and returns their public URLs.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/learnhub-service/internal/config"
)

type Kind string

const (
	KindProfile   Kind = "profile"
	KindThumbnail Kind = "thumbnail"
	KindDocument  Kind = "document"
)

var imageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// allowed content types per kind
var allowed = map[Kind][]string{
	KindProfile:   imageTypes,
	KindThumbnail: imageTypes,
	KindDocument:  {"application/pdf"},
}

var folders = map[Kind]string{
	KindProfile:   "profiles",
	KindThumbnail: "thumbnails",
	KindDocument:  "documents",
}

var (
	ErrUnknownKind     = errors.New("unknown upload kind")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrEmptyFile       = errors.New("empty file")
	ErrUploadFailed    = errors.New("upload failed")
)

func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(s))
	if _, ok := allowed[kind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return kind, nil
}

// File is one file to upload. The content type is detected from the bytes;
// the declared ContentType is only logged when it disagrees.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Uploader posts files to the media host in one request. There is no
// chunking or resume.
type Uploader struct {
	endpoint   string
	preset     string
	maxBytes   int64
	httpClient *http.Client
	logger     *slog.Logger
}

func NewUploader(cfg config.MediaConfig, logger *slog.Logger) *Uploader {
	return &Uploader{
		endpoint:   cfg.Endpoint,
		preset:     cfg.UploadPreset,
		maxBytes:   cfg.MaxBytes,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload stores file under kind's folder and returns its public URL
func (u *Uploader) Upload(ctx context.Context, kind Kind, file File) (string, error) {
	types, ok := allowed[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	data, err := io.ReadAll(io.LimitReader(file.Body, u.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if int64(len(data)) > u.maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, u.maxBytes)
	}

	detected := mimetype.Detect(data)
	if !slices.ContainsFunc(types, detected.Is) {
		return "", fmt.Errorf("%w: %s is not allowed for %s", ErrUnsupportedType, detected.String(), kind)
	}
	if file.ContentType != "" && !detected.Is(file.ContentType) {
		u.logger.Warn("Declared content type differs from detected",
			"declared", file.ContentType, "detected", detected.String())
	}

	body, contentType, err := u.form(kind, file.Name, detected, data)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: unreadable response (status %d)", ErrUploadFailed, resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, parsed.Error.Message)
	}

	url := parsed.SecureURL
	if url == "" {
		url = parsed.URL
	}
	if url == "" {
		return "", fmt.Errorf("%w: response has no url", ErrUploadFailed)
	}

	u.logger.Info("Uploaded file", "kind", kind, "type", detected.String(), "bytes", len(data))
	return url, nil
}

func (u *Uploader) form(kind Kind, name string, detected *mimetype.MIME, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if name == "" {
		name = uuid.NewString() + detected.Extension()
	}
	part, err := w.CreateFormFile("file", path.Base(name))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}
	if u.preset != "" {
		if err := w.WriteField("upload_preset", u.preset); err != nil {
			return nil, "", fmt.Errorf("failed to write form field: %w", err)
		}
	}
	if err := w.WriteField("folder", folders[kind]); err != nil {
		return nil, "", fmt.Errorf("failed to write form field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
