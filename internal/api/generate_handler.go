package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/nevishq/genforge/internal/api/shared"
	"github.com/nevishq/genforge/internal/brand"
	"github.com/nevishq/genforge/internal/domain"
	"github.com/nevishq/genforge/internal/orchestrator"
	"github.com/nevishq/genforge/internal/platform/logger"
	"github.com/nevishq/genforge/internal/redact"
)

// GenerationService runs one generation request through the pipeline.
type GenerationService interface {
	Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error)
}

// Ensure the orchestrator satisfies the handler's service contract
var _ GenerationService = (*orchestrator.Orchestrator)(nil)

// GenerateRequest represents the request body for a generation. Brand is
// optional: when omitted, the account's stored brand profile is used.
type GenerateRequest struct {
	RequestID string               `json:"request_id" validate:"required,uuid"`
	AccountID string               `json:"account_id" validate:"required,uuid"`
	TierID    string               `json:"tier_id"    validate:"required"`
	Content   ContentRequest       `json:"content"`
	Brand     *domain.BrandContext `json:"brand,omitempty"`
	Variants  []VariantRequest     `json:"variants,omitempty"  validate:"dive"`
}

// ContentRequest names what the generation should produce.
type ContentRequest struct {
	Topic        string `json:"topic" validate:"required"`
	CallToAction string `json:"call_to_action"`
	ImageText    string `json:"image_text"`
}

// VariantRequest asks for one platform creative. AspectRatio is optional;
// when empty the platform's default ratio is used.
type VariantRequest struct {
	Platform    string `json:"platform" validate:"required"`
	AspectRatio string `json:"aspect_ratio"`
}

// GenerateResponse represents the response data for a finished generation.
type GenerateResponse struct {
	RequestID      string                  `json:"request_id"`
	State          string                  `json:"state"`
	Content        domain.GeneratedContent `json:"content"`
	Variants       []VariantResponse       `json:"variants,omitempty"`
	TextProvider   string                  `json:"text_provider,omitempty"`
	TextModel      string                  `json:"text_model,omitempty"`
	CreditsCharged float64                 `json:"credits_charged"`
	Partial        bool                    `json:"partial"`
	QualityIssues  []string                `json:"quality_issues,omitempty"`
}

// VariantResponse is the outcome of one platform variant. Error carries a
// sanitized message when the variant failed while its siblings succeeded.
type VariantResponse struct {
	Platform    string              `json:"platform"`
	AspectRatio string              `json:"aspect_ratio"`
	Provider    string              `json:"provider,omitempty"`
	ImageURL    string              `json:"image_url,omitempty"`
	Overlay     *domain.OverlayPlan `json:"overlay,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// GenerateHandler handles content generation HTTP requests.
type GenerateHandler struct {
	service GenerationService
	brands  brand.Source
	logger  *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(
	service GenerationService,
	brands brand.Source,
	logger *slog.Logger,
) *GenerateHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerateHandler")
	}

	return &GenerateHandler{
		service: service,
		brands:  brands,
		logger:  logger.With(slog.String("component", "generate_handler")),
	}
}

// Generate handles POST /api/generate requests. The call is synchronous:
// the response carries the finished result, including per-variant errors
// for partial completions. Failures are reported as error responses with
// a sanitized message; the full error stays in the logs.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request ID format")
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid account ID format")
		return
	}

	var brandCtx domain.BrandContext
	if req.Brand != nil {
		brandCtx = *req.Brand
	} else {
		brandCtx, err = h.brands.BrandContext(r.Context(), accountID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
	}

	variants := make([]domain.PlatformVariant, 0, len(req.Variants))
	for _, v := range req.Variants {
		platform := domain.Platform(v.Platform)
		ratio := domain.AspectRatio(v.AspectRatio)
		if v.AspectRatio == "" {
			ratio = domain.DefaultAspectRatio(platform)
		}
		variants = append(variants, domain.PlatformVariant{Platform: platform, AspectRatio: ratio})
	}

	genReq, err := domain.NewGenerationRequest(
		requestID,
		accountID,
		req.TierID,
		brandCtx,
		domain.ContentSpec{
			Topic:        req.Content.Topic,
			CallToAction: req.Content.CallToAction,
			ImageText:    req.Content.ImageText,
		},
		variants,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("starting generation",
		slog.String("request_id", requestID.String()),
		slog.String("tier_id", req.TierID),
		slog.Int("variant_count", len(variants)))

	result, err := h.service.Generate(r.Context(), genReq)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("generation finished",
		slog.String("request_id", requestID.String()),
		slog.String("state", string(result.State)))
	shared.RespondWithJSON(w, r, http.StatusOK, resultToResponse(result))
}

// resultToResponse converts a domain.GenerationResult to a GenerateResponse.
func resultToResponse(result *domain.GenerationResult) GenerateResponse {
	variants := make([]VariantResponse, 0, len(result.Variants))
	for _, v := range result.Variants {
		vr := VariantResponse{
			Platform:    string(v.Platform),
			AspectRatio: string(v.AspectRatio),
			Provider:    string(v.Provider),
			ImageURL:    v.ImageURL,
			Overlay:     v.Overlay,
		}
		if v.Failed() {
			vr.Error = GetSafeErrorMessage(v.Err)
		}
		variants = append(variants, vr)
	}

	return GenerateResponse{
		RequestID:      result.RequestID.String(),
		State:          string(result.State),
		Content:        result.Content,
		Variants:       variants,
		TextProvider:   string(result.TextProvider),
		TextModel:      result.TextModel,
		CreditsCharged: result.CreditsCharged,
		Partial:        result.Partial,
		QualityIssues:  result.QualityIssues,
	}
}
