package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevishq/genforge/internal/api"
	"github.com/nevishq/genforge/internal/api/shared"
	"github.com/nevishq/genforge/internal/config"
)

// newTestRouter builds a full application on the in-memory ledger and
// returns its configured router.
func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	app, err := newApplication(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	return app.setupRouter()
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Tiers)
	assert.Equal(t, []string{"gemini"}, resp.Providers)
}

func TestRouterMetrics(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# HELP")
}

func TestRouterGenerateRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "Invalid request format", errResp.Error)

	// The trace middleware tags every response with a request trace ID.
	assert.Len(t, errResp.TraceID, 32)
}

func TestRouterCreditsForSeededBrand(t *testing.T) {
	accountID := uuid.New()
	cfg := testConfig()
	cfg.Brands = []config.BrandConfig{
		{
			AccountID:      accountID.String(),
			BusinessName:   "Harbor Lane Coffee",
			BusinessType:   "restaurant",
			InitialCredits: 12.5,
		},
	}

	router := newTestRouter(t, cfg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/credits/"+accountID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.CreditsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, accountID.String(), resp.AccountID)
	assert.Equal(t, 12.5, resp.Balance)
}

func TestRouterCreditsUnknownAccount(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/credits/"+uuid.NewString(), nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var errResp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "Account not found", errResp.Error)
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
