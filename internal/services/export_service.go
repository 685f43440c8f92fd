package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
)

const (
	ExportUsers  = "users"
	ExportVideos = "videos"

	exportTimeLayout = "2006-01-02 15:04"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) Export(ctx context.Context, entity string, w io.Writer) error {
	var (
		header []any
		rows   [][]any
		err    error
	)
	switch entity {
	case ExportUsers:
		header, rows, err = s.userRows(ctx)
	case ExportVideos:
		header, rows, err = s.videoRows(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close workbook", "error", err)
		}
	}()

	sheet := entity
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	s.logger.Info("Exported list", "entity", entity, "rows", len(rows))
	return nil
}

func (s *exportService) userRows(ctx context.Context) ([]any, [][]any, error) {
	users, err := s.repo.User().List(ctx, repositories.UserFilters{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}
	header := []any{"ID", "Name", "Email", "Role", "Phone", "Address", "Joined"}
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, []any{u.ID, u.Name, u.Email, string(u.Role), u.Phone, u.Address, u.JoinedAt.UTC().Format(exportTimeLayout)})
	}
	return header, rows, nil
}

func (s *exportService) videoRows(ctx context.Context) ([]any, [][]any, error) {
	videos, err := s.repo.Video().List(ctx, repositories.VideoFilters{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list videos: %w", err)
	}
	header := []any{"ID", "Title", "Category", "Uploader", "Views", "Likes", "Comments", "Reports", "Average rating", "Uploaded"}
	rows := make([][]any, 0, len(videos))
	for _, v := range videos {
		rows = append(rows, []any{
			v.ID, v.Title, v.CategoryID, v.UploaderID,
			v.Views, v.LikeCount, v.CommentsCount, v.ReportsCount,
			roundFloat(v.AverageRating, averagePrecision),
			v.UploadedAt.UTC().Format(exportTimeLayout),
		})
	}
	return header, rows, nil
}
