package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/learnhub-service/internal/ai"
	"github.com/SAP-F-2025/learnhub-service/internal/auth"
	"github.com/SAP-F-2025/learnhub-service/internal/media"
	"github.com/SAP-F-2025/learnhub-service/internal/services"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
	"github.com/SAP-F-2025/learnhub-service/internal/viewstate"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", validator.ValidationErrors{{Field: "title", Message: "is required"}}, http.StatusBadRequest},
		{"permission", services.NewPermissionError("u1", "v1", "video", "update", "not the uploader"), http.StatusForbidden},
		{"business rule", services.NewBusinessRuleError("one_rating", "already rated"), http.StatusUnprocessableEntity},
		{"wrapped not found", fmt.Errorf("load: %w", services.ErrVideoNotFound), http.StatusNotFound},
		{"store not found", store.ErrNotFound, http.StatusNotFound},
		{"page not found", services.ErrPageNotFound, http.StatusNotFound},
		{"unknown entity", fmt.Errorf("%w: grades", services.ErrUnknownEntity), http.StatusBadRequest},
		{"unknown sort key", viewstate.ErrUnknownSortKey, http.StatusBadRequest},
		{"busy", services.ErrBusy, http.StatusConflict},
		{"unauthenticated", auth.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"ai failure", &ai.Error{Title: "AI request failed", Status: http.StatusInternalServerError}, http.StatusBadGateway},
		{"ai timeout", &ai.Error{Title: "AI timed out", Status: http.StatusGatewayTimeout}, http.StatusGatewayTimeout},
		{"unknown upload kind", media.ErrUnknownKind, http.StatusBadRequest},
		{"file too large", media.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{"upload failed", media.ErrUploadFailed, http.StatusBadGateway},
		{"store unavailable", store.ErrUnavailable, http.StatusServiceUnavailable},
		{"anything else", errBoom, http.StatusInternalServerError},
	}

	h := NewBaseHandler(utils.NewSlogLogger(slog.Default()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.handleServiceError(c, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestViewFilters(t *testing.T) {
	h := NewBaseHandler(utils.NewSlogLogger(slog.Default()))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?search=go&sort=views&desc=true&category_id=c1&role=", nil)

	assert.Equal(t, viewstate.Filters{
		Search:   "go",
		SortKey:  "views",
		SortDesc: true,
		Match:    map[string]string{"category_id": "c1"},
	}, h.viewFilters(c))
}
