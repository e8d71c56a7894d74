package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevishq/genforge/internal/api/middleware"
	"github.com/nevishq/genforge/internal/api/shared"
	"github.com/nevishq/genforge/internal/platform/logger"
)

func TestTraceMiddleware(t *testing.T) {
	base := slog.New(slog.NewTextHandler(io.Discard, nil))

	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	var seenTraceID string
	var seenLogger *slog.Logger
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		seenLogger = logger.FromContextOrDefault(r.Context(), fallback)
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.NewTraceMiddleware(base)(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, seenTraceID, shared.TraceIDLength*2)
	assert.NotSame(t, fallback, seenLogger,
		"request context should carry the trace-annotated logger, not the fallback")
}

func TestTraceMiddlewareAssignsDistinctIDs(t *testing.T) {
	base := slog.New(slog.NewTextHandler(io.Discard, nil))

	var ids []string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, shared.GetTraceID(r.Context()))
	})

	handler := middleware.NewTraceMiddleware(base)(inner)
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}
