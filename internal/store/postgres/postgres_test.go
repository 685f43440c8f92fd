package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/SAP-F-2025/learnhub-service/internal/store"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "permission denied",
			err:  &pgconn.PgError{Code: "42501", Message: "permission denied for table documents"},
			want: store.ErrPermission,
		},
		{
			name: "other postgres error",
			err:  &pgconn.PgError{Code: "57P01", Message: "terminating connection"},
			want: store.ErrUnavailable,
		},
		{
			name: "connection error",
			err:  errors.New("dial tcp: connection refused"),
			want: store.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err)
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestDocumentRowDocument(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	row := DocumentRow{
		Collection: store.Path("videos", "v1", "comments"),
		ID:         "c1",
		Data:       datatypes.JSONMap{"text": "nice"},
		CreatedAt:  created,
		UpdatedAt:  created.Add(time.Hour),
	}

	doc := row.document()

	assert.Equal(t, "c1", doc.ID)
	assert.Equal(t, row.Collection, doc.Collection)
	assert.Equal(t, "nice", doc.Data["text"])
	assert.Equal(t, created, doc.CreateTime)
	assert.Equal(t, created.Add(time.Hour), doc.UpdateTime)
	assert.Equal(t, "documents", DocumentRow{}.TableName())
}
