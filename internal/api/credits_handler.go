package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nevishq/genforge/internal/api/shared"
	"github.com/nevishq/genforge/internal/credit"
	"github.com/nevishq/genforge/internal/platform/logger"
)

// CreditBalancer reads account credit balances.
type CreditBalancer interface {
	Balance(ctx context.Context, accountID uuid.UUID) (float64, error)
}

var _ CreditBalancer = (*credit.Service)(nil)

// CreditsResponse represents the response data for an account's credits.
type CreditsResponse struct {
	AccountID string  `json:"account_id"`
	Balance   float64 `json:"balance"`
}

// CreditsHandler handles credit balance HTTP requests.
type CreditsHandler struct {
	credits CreditBalancer
	logger  *slog.Logger
}

// NewCreditsHandler creates a new CreditsHandler.
func NewCreditsHandler(credits CreditBalancer, logger *slog.Logger) *CreditsHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CreditsHandler")
	}

	return &CreditsHandler{
		credits: credits,
		logger:  logger.With(slog.String("component", "credits_handler")),
	}
}

// GetBalance handles GET /api/credits/{accountID} requests.
func (h *CreditsHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathAccountID := chi.URLParam(r, "accountID")
	if pathAccountID == "" {
		log.Warn("account ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Account ID is required")
		return
	}

	accountID, err := uuid.Parse(pathAccountID)
	if err != nil {
		log.Warn("invalid account ID format", slog.String("account_id", pathAccountID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	balance, err := h.credits.Balance(r.Context(), accountID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("retrieved balance", slog.String("account_id", accountID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, CreditsResponse{
		AccountID: accountID.String(),
		Balance:   balance,
	})
}
