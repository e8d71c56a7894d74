package api

import (
	"net/http"

	"github.com/nevishq/genforge/internal/api/shared"
	"github.com/nevishq/genforge/internal/provider"
	"github.com/nevishq/genforge/internal/registry"
)

// TierSummary describes one configured tier in the health response.
type TierSummary struct {
	ID               string  `json:"id"`
	DisplayName      string  `json:"display_name,omitempty"`
	CreditCost       float64 `json:"credit_cost"`
	MaxImageVariants int     `json:"max_image_variants"`
}

// HealthResponse reports service status plus the tiers and providers the
// engine was configured with.
type HealthResponse struct {
	Status    string        `json:"status"`
	Tiers     []TierSummary `json:"tiers"`
	Providers []string      `json:"providers"`
}

// HealthHandler reports readiness and the engine's configured surface.
type HealthHandler struct {
	tiers     *registry.Registry
	providers *provider.Directory
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(tiers *registry.Registry, providers *provider.Directory) *HealthHandler {
	return &HealthHandler{tiers: tiers, providers: providers}
}

// Health handles GET /healthz requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	tiers := h.tiers.Tiers()
	summaries := make([]TierSummary, 0, len(tiers))
	for _, t := range tiers {
		summaries = append(summaries, TierSummary{
			ID:               t.ID,
			DisplayName:      t.DisplayName,
			CreditCost:       t.CreditCost,
			MaxImageVariants: t.MaxImageVariants,
		})
	}

	refs := h.providers.Refs()
	providers := make([]string, 0, len(refs))
	for _, ref := range refs {
		providers = append(providers, string(ref))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "ok",
		Tiers:     summaries,
		Providers: providers,
	})
}
