package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(checks map[string]Check) *gin.Engine {
	h := NewHealthHandler(checks)
	r := gin.New()
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)
	return r
}

func ok(context.Context) error { return nil }

func TestHealth(t *testing.T) {
	t.Parallel()

	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name           string
		method         string
		checks         map[string]Check
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "GET without checks",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
		{
			name:           "GET all checks pass",
			method:         http.MethodGet,
			checks:         map[string]Check{"database": ok, "redis": ok},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok","checks":{"database":"ok","redis":"ok"}}`,
		},
		{
			name:           "GET one check fails",
			method:         http.MethodGet,
			checks:         map[string]Check{"database": ok, "redis": down},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"unavailable","checks":{"database":"ok","redis":"connection refused"}}`,
		},
		{
			name:           "HEAD reflects check failure without body",
			method:         http.MethodHead,
			checks:         map[string]Check{"database": down},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "HEAD healthy",
			method:         http.MethodHead,
			checks:         map[string]Check{"database": ok},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "OPTIONS skips checks",
			method:         http.MethodOptions,
			checks:         map[string]Check{"database": down},
			expectedStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/healthz", nil)
			setupRouter(tt.checks).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			} else {
				assert.Zero(t, w.Body.Len())
			}
		})
	}
}

func TestHealth_CheckReceivesDeadline(t *testing.T) {
	t.Parallel()

	var hasDeadline bool
	checks := map[string]Check{"database": func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}}

	w := httptest.NewRecorder()
	setupRouter(checks).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, hasDeadline)
}
