package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware("https://learnhub.example.com/", "http://localhost:5173"))
	router.GET("/api/v1/videos", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantCookies bool
	}{
		{
			name:        "allowed origin is echoed with credentials",
			method:      http.MethodGet,
			origin:      "https://learnhub.example.com",
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://learnhub.example.com",
			wantCookies: true,
		},
		{
			name:        "allowed preflight",
			method:      http.MethodOptions,
			origin:      "http://localhost:5173",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "http://localhost:5173",
			wantCookies: true,
		},
		{
			name:       "unknown origin gets no cors headers",
			method:     http.MethodGet,
			origin:     "https://evil.example.net",
			wantStatus: http.StatusOK,
		},
		{
			name:       "same-origin request",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/videos", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.NotEqual(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantCookies {
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
			}
			assert.Equal(t, "Origin", w.Header().Get("Vary"))
		})
	}
}
