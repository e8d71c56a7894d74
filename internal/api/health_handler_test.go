package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevishq/genforge/internal/api"
	"github.com/nevishq/genforge/internal/domain"
	"github.com/nevishq/genforge/internal/provider"
	"github.com/nevishq/genforge/internal/registry"
)

type noopClient struct{}

func (noopClient) GenerateText(context.Context, provider.TextRequest) (provider.TextResult, error) {
	return provider.TextResult{}, nil
}

func (noopClient) GenerateImage(context.Context, provider.ImageRequest) (provider.ImageResult, error) {
	return provider.ImageResult{}, nil
}

func TestHealth(t *testing.T) {
	tiers, err := registry.New([]domain.ModelTier{{
		ID:            "standard",
		DisplayName:   "Standard",
		CreditCost:    8,
		ProviderOrder: []domain.ProviderRef{domain.ProviderGemini},
		Models: map[domain.ProviderRef]domain.TierModels{
			domain.ProviderGemini: {Text: "gemini-2.5-flash", Image: "gemini-2.5-flash-image"},
		},
		MaxImageVariants: 4,
	}})
	require.NoError(t, err)

	clients, err := provider.NewDirectory(map[domain.ProviderRef]provider.Client{
		domain.ProviderGemini:     noopClient{},
		domain.ProviderOpenRouter: noopClient{},
	})
	require.NoError(t, err)

	h := api.NewHealthHandler(tiers, clients)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"gemini", "openrouter"}, resp.Providers)
	require.Len(t, resp.Tiers, 1)
	assert.Equal(t, "standard", resp.Tiers[0].ID)
	assert.Equal(t, 8.0, resp.Tiers[0].CreditCost)
	assert.Equal(t, 4, resp.Tiers[0].MaxImageVariants)
}
