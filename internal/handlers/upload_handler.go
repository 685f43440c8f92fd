package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learnhub-service/internal/media"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
)

// Uploader stores a file and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, kind media.Kind, file media.File) (string, error)
}

type UploadHandler struct {
	BaseHandler
	uploader Uploader
}

func NewUploadHandler(uploader Uploader, logger utils.Logger) *UploadHandler {
	return &UploadHandler{
		BaseHandler: NewBaseHandler(logger),
		uploader:    uploader,
	}
}

// Upload stores the multipart "file" field under kind
// @Summary Upload file
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param kind path string true "profile, thumbnail or document"
// @Param file formData file true "File"
// @Success 201 {object} map[string]string
// @Failure 400 {object} ErrorResponse "Invalid upload"
// @Failure 413 {object} ErrorResponse "File too large"
// @Router /uploads/{kind} [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	kind, err := media.ParseKind(c.Param("kind"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file",
			Details: err.Error(),
		})
		return
	}
	body, err := header.Open()
	if err != nil {
		h.LogError(c, err, "Failed to open uploaded file")
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Unreadable file"})
		return
	}
	defer body.Close()

	url, err := h.uploader.Upload(c.Request.Context(), kind, media.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        body,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "File uploaded", "user_id", actor.ID, "kind", kind)
	c.JSON(http.StatusCreated, gin.H{"url": url, "kind": kind})
}
