package services

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/learnhub-service/internal/models"
)

func TestExportWritesWorkbook(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	category := seedCategory(t, repo, "Go")
	videos := newVideoService(repo, false)
	video := seedVideo(t, videos, teacher, category.ID, "Modules")
	require.NoError(t, videos.IncrementViews(ctx, video.ID))
	require.NoError(t, repo.User().Create(ctx, &models.User{ID: "u1", Name: "Ada", Email: "ada@learnhub.dev", Role: models.RoleTeacher}))

	svc := NewExportService(repo, slog.Default())

	tests := []struct {
		entity     string
		wantHeader []string
		wantRow    []string
	}{
		{
			entity:     ExportVideos,
			wantHeader: []string{"ID", "Title", "Category", "Uploader", "Views", "Likes", "Comments", "Reports", "Average rating"},
			wantRow:    []string{video.ID, "Modules", category.ID, teacher.ID, "1", "0", "0", "0", "0"},
		},
		{
			entity:     ExportUsers,
			wantHeader: []string{"ID", "Name", "Email", "Role"},
			wantRow:    []string{"u1", "Ada", "ada@learnhub.dev", "teacher"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.entity, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, svc.Export(ctx, tt.entity, &buf))

			f, err := excelize.OpenReader(&buf)
			require.NoError(t, err)
			defer f.Close()

			rows, err := f.GetRows(tt.entity)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, tt.wantHeader, rows[0][:len(tt.wantHeader)])
			assert.Equal(t, tt.wantRow, rows[1][:len(tt.wantRow)])
		})
	}

	var buf bytes.Buffer
	assert.ErrorIs(t, svc.Export(ctx, "grades", &buf), ErrUnknownEntity)
	assert.Zero(t, buf.Len())
}
