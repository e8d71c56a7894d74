package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nevishq/genforge/internal/domain"
	"github.com/nevishq/genforge/internal/metrics"
	"github.com/nevishq/genforge/internal/overlay"
	"github.com/nevishq/genforge/internal/platform/logger"
	"github.com/nevishq/genforge/internal/prompt"
	"github.com/nevishq/genforge/internal/provider"
	"github.com/nevishq/genforge/internal/validation"
)

// Generate runs one request through the full pipeline and returns its
// terminal result. The result is never nil for a non-nil request: a
// failed run returns a result in the Failed state together with the
// error that ended it.
//
// Ledger guarantee: once the reservation is taken, every path out of
// this method reaches Commit or Refund, including cancellation. The
// reconciliation calls run on a context detached from the caller's, so
// a canceled request cannot strand its own reservation.
func (o *Orchestrator) Generate(
	ctx context.Context,
	req *domain.GenerationRequest,
) (*domain.GenerationResult, error) {
	if req == nil {
		return nil, errors.New("generation request cannot be nil")
	}

	if o.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RequestTimeout)
		defer cancel()
	}

	// Stamp the context so dependencies logging through the context
	// handler carry the request ID without a per-request logger.
	ctx = logger.WithRequestID(ctx, req.RequestID.String())

	log := logger.FromContextOrDefault(ctx, o.logger).With(
		slog.String("request_id", req.RequestID.String()),
		slog.String("account_id", req.AccountID.String()),
	)

	start := time.Now()
	result := &domain.GenerationResult{
		RequestID: req.RequestID,
		State:     domain.GenerationStatePending,
	}

	defer func() {
		metrics.GenerationsTotal.WithLabelValues(string(result.State)).Inc()
		metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	}()

	log.Info("starting generation",
		slog.String("tier_id", req.TierID),
		slog.Int("variant_count", req.VariantCount()))

	// Pre-flight. Nothing here moves credits or calls a provider, so
	// failures return with zero side effects.
	if err := req.Validate(); err != nil {
		return o.fail(log, result, fmt.Errorf("invalid generation request: %w", err))
	}

	tier, err := o.tiers.Lookup(req.TierID)
	if err != nil {
		return o.fail(log, result, err)
	}

	if tier.MaxImageVariants > 0 && req.VariantCount() > tier.MaxImageVariants {
		return o.fail(log, result, fmt.Errorf("%w: tier %q allows %d, requested %d",
			ErrTooManyVariants, tier.ID, tier.MaxImageVariants, req.VariantCount()))
	}

	cost := o.credits.Cost(tier, req.VariantCount())
	if err := o.credits.Reserve(ctx, req.AccountID, req.RequestID, cost); err != nil {
		return o.fail(log, result, err)
	}
	o.setState(log, result, domain.GenerationStateReserved)

	// A reservation now exists. Every return below this point goes
	// through finalize or refundAndFail.

	o.setState(log, result, domain.GenerationStateTextGenerating)

	textPlatform := domain.Platform("")
	if len(req.Variants) > 0 {
		textPlatform = req.Variants[0].Platform
	}

	textPrompt, err := prompt.ComposeText(req.Brand, tier, textPlatform, req.Content)
	if err != nil {
		return o.refundAndFail(ctx, log, result, req.RequestID,
			fmt.Errorf("failed to compose text prompt: %w", err))
	}

	text, textRef, err := o.generateText(ctx, req.RequestID, tier, textPrompt)
	if err != nil {
		return o.refundAndFail(ctx, log, result, req.RequestID, err)
	}
	result.TextProvider = textRef
	result.TextModel = text.Model

	o.setState(log, result, domain.GenerationStateTextValidating)

	verdict := validateBundle(text.Content)
	if verdict.corrupted {
		// One bounded regeneration. A second garbled answer, or a failed
		// regeneration call, falls back to the cleaned text with its
		// issues on record instead of burning more provider quota.
		log.Warn("generated text looks corrupted, regenerating once",
			slog.String("issues", strings.Join(verdict.issues, "; ")))

		retry, retryRef, rerr := o.generateText(ctx, req.RequestID, tier, textPrompt)
		if rerr != nil {
			log.Warn("text regeneration failed, keeping cleaned text",
				slog.String("error", rerr.Error()))
		} else {
			verdict = validateBundle(retry.Content)
			result.TextProvider = retryRef
			result.TextModel = retry.Model
		}
	}
	result.Content = verdict.content
	result.QualityIssues = verdict.issues

	if len(verdict.issues) > 0 {
		log.Warn("text accepted with quality issues",
			slog.String("issues", strings.Join(verdict.issues, "; ")))
	}

	o.setState(log, result, domain.GenerationStateImagesGenerating)
	result.Variants = o.generateVariants(ctx, log, req, tier, result.Content.ImageText)

	o.setState(log, result, domain.GenerationStateFinalizing)
	return o.finalize(ctx, log, result, req, cost)
}

// generateText runs one text call through the failover executor. The
// bundle arrives parsed; adapters own the response contract.
func (o *Orchestrator) generateText(
	ctx context.Context,
	requestID uuid.UUID,
	tier domain.ModelTier,
	textPrompt string,
) (provider.TextResult, domain.ProviderRef, error) {
	var res provider.TextResult

	ref, err := o.executor.Call(ctx, requestID, tier.ProviderOrder,
		func(ctx context.Context, ref domain.ProviderRef) error {
			client, err := o.clients.Client(ref)
			if err != nil {
				return err
			}

			models, ok := tier.ModelsFor(ref)
			if !ok {
				return fmt.Errorf("tier %q has no models for provider %q", tier.ID, ref)
			}

			out, err := client.GenerateText(ctx, provider.TextRequest{
				Model:  models.Text,
				Prompt: textPrompt,
			})
			if err != nil {
				return err
			}

			res = out
			return nil
		})
	if err != nil {
		return provider.TextResult{}, "", fmt.Errorf("text generation failed: %w", err)
	}

	return res, ref, nil
}

// bundleVerdict is the validation outcome for one text bundle: the
// cleaned content, flagged issues in "field: kind" form, and whether any
// field tripped the corruption detector.
type bundleVerdict struct {
	content   domain.GeneratedContent
	issues    []string
	corrupted bool
}

// validateBundle checks each text field against its own constraints.
// Headline and caption are always checked; subheadline and image text
// are legitimate to omit, so empty ones pass untouched. Image text is
// held to the headline bound because both render onto the creative.
func validateBundle(raw domain.GeneratedContent) bundleVerdict {
	verdict := bundleVerdict{content: raw}

	check := func(field, text string, c validation.Constraints) string {
		out := validation.Validate(text, c)
		for _, issue := range out.Issues {
			verdict.issues = append(verdict.issues, fmt.Sprintf("%s: %s", field, issue))
			metrics.ValidationIssues.WithLabelValues(string(issue)).Inc()
			if issue == validation.IssueCorruptedPattern {
				verdict.corrupted = true
			}
		}
		return out.CleanedText
	}

	verdict.content.Headline = check("headline", raw.Headline, validation.HeadlineConstraints())
	verdict.content.Caption = check("caption", raw.Caption, validation.CaptionConstraints())

	if raw.Subheadline != "" {
		verdict.content.Subheadline = check(
			"subheadline", raw.Subheadline, validation.SubheadlineConstraints())
	}

	if raw.ImageText != "" {
		verdict.content.ImageText = check(
			"image_text", raw.ImageText, validation.HeadlineConstraints())
	}

	return verdict
}

// generateVariants fans one image call out per requested variant and
// waits for all of them to settle. Results land in request order no
// matter which finishes first; each goroutine owns exactly one slot.
func (o *Orchestrator) generateVariants(
	ctx context.Context,
	log *slog.Logger,
	req *domain.GenerationRequest,
	tier domain.ModelTier,
	imageText string,
) []domain.VariantResult {
	if len(req.Variants) == 0 {
		return nil
	}

	results := make([]domain.VariantResult, len(req.Variants))

	var wg sync.WaitGroup
	for i, v := range req.Variants {
		wg.Add(1)
		go func(i int, v domain.PlatformVariant) {
			defer wg.Done()
			results[i] = o.generateVariant(ctx, log, req, tier, v, imageText)
		}(i, v)
	}
	wg.Wait()

	return results
}

// generateVariant produces one platform creative. Failure is recorded on
// the variant and isolated from its siblings.
func (o *Orchestrator) generateVariant(
	ctx context.Context,
	log *slog.Logger,
	req *domain.GenerationRequest,
	tier domain.ModelTier,
	v domain.PlatformVariant,
	imageText string,
) domain.VariantResult {
	out := domain.VariantResult{Platform: v.Platform, AspectRatio: v.AspectRatio}

	if o.cfg.VariantDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.VariantDeadline)
		defer cancel()
	}

	imagePrompt, err := prompt.ComposeImage(req.Brand, tier, v, req.Content, imageText)
	if err != nil {
		return o.failVariant(log, out, fmt.Errorf("failed to compose image prompt: %w", err))
	}

	var res provider.ImageResult
	ref, err := o.executor.Call(ctx, req.RequestID, tier.ProviderOrder,
		func(ctx context.Context, ref domain.ProviderRef) error {
			client, err := o.clients.Client(ref)
			if err != nil {
				return err
			}

			models, ok := tier.ModelsFor(ref)
			if !ok {
				return fmt.Errorf("tier %q has no models for provider %q", tier.ID, ref)
			}

			img, err := client.GenerateImage(ctx, provider.ImageRequest{
				Model:       models.Image,
				Prompt:      imagePrompt,
				AspectRatio: string(v.AspectRatio),
			})
			if err != nil {
				return err
			}

			res = img
			return nil
		})
	if err != nil {
		return o.failVariant(log, out, err)
	}

	out.Provider = ref
	out.ImageURL = res.ImageURL

	if imageText != "" {
		plan, err := overlay.PlanForVariant(imageText, v.AspectRatio, overlay.Options{})
		if err != nil {
			// The creative exists, so the variant still counts as
			// succeeded without a plan.
			log.Warn("failed to plan text overlay",
				slog.String("platform", string(v.Platform)),
				slog.String("error", err.Error()))
		} else {
			out.Overlay = plan
		}
	}

	metrics.VariantOutcomes.WithLabelValues(string(v.Platform), "succeeded").Inc()
	return out
}

// failVariant records one variant failure.
func (o *Orchestrator) failVariant(
	log *slog.Logger,
	v domain.VariantResult,
	err error,
) domain.VariantResult {
	log.Warn("image variant failed",
		slog.String("platform", string(v.Platform)),
		slog.String("aspect_ratio", string(v.AspectRatio)),
		slog.String("error", err.Error()))

	metrics.VariantOutcomes.WithLabelValues(string(v.Platform), "failed").Inc()
	v.Err = err
	return v
}

// finalize settles the reservation and the terminal state. One usable
// variant is enough to commit the full reserved amount: pricing is per
// generation, not per delivered creative. Zero usable variants refund.
// Text-only requests commit on the strength of the text alone.
func (o *Orchestrator) finalize(
	ctx context.Context,
	log *slog.Logger,
	result *domain.GenerationResult,
	req *domain.GenerationRequest,
	cost float64,
) (*domain.GenerationResult, error) {
	succeeded := result.SucceededVariants()
	failed := len(result.Variants) - succeeded

	if len(result.Variants) > 0 && succeeded == 0 {
		var firstErr error
		for _, v := range result.Variants {
			if v.Err != nil {
				firstErr = v.Err
				break
			}
		}
		return o.refundAndFail(ctx, log, result, req.RequestID,
			fmt.Errorf("all %d image variants failed: %w", len(result.Variants), firstErr))
	}

	if err := o.credits.Commit(context.WithoutCancel(ctx), req.RequestID); err != nil {
		// The entry stays reserved; a retried request with the same ID
		// replays the reservation and commits then.
		log.Error("failed to commit reservation",
			slog.String("error", err.Error()))

		result.State = domain.GenerationStateFailed
		result.FailureReason = FailureReason(err)
		return result, fmt.Errorf("failed to commit credit reservation: %w", err)
	}
	result.CreditsCharged = cost

	result.Partial = failed > 0
	if result.Partial {
		o.setState(log, result, domain.GenerationStatePartiallyCompleted)
	} else {
		o.setState(log, result, domain.GenerationStateCompleted)
	}

	log.Info("generation finished",
		slog.String("state", string(result.State)),
		slog.Int("variants_succeeded", succeeded),
		slog.Int("variants_failed", failed),
		slog.Float64("credits_charged", result.CreditsCharged))

	return result, nil
}

// fail settles a failure that happened before any reservation existed.
func (o *Orchestrator) fail(
	log *slog.Logger,
	result *domain.GenerationResult,
	err error,
) (*domain.GenerationResult, error) {
	result.State = domain.GenerationStateFailed
	result.FailureReason = FailureReason(err)

	log.Warn("generation failed",
		slog.String("reason", result.FailureReason),
		slog.String("error", err.Error()))

	return result, err
}

// refundAndFail settles a failure after the reservation was taken. The
// refund runs on a detached context: cancellation lands here too and
// must not strand the reservation.
func (o *Orchestrator) refundAndFail(
	ctx context.Context,
	log *slog.Logger,
	result *domain.GenerationResult,
	requestID uuid.UUID,
	err error,
) (*domain.GenerationResult, error) {
	if rerr := o.credits.Refund(context.WithoutCancel(ctx), requestID); rerr != nil {
		log.Error("failed to refund reservation, entry left reserved",
			slog.String("refund_error", rerr.Error()))
	}

	return o.fail(log, result, err)
}

// setState advances the pipeline state on the result.
func (o *Orchestrator) setState(
	log *slog.Logger,
	result *domain.GenerationResult,
	next domain.GenerationState,
) {
	log.Debug("generation state advanced",
		slog.String("from", string(result.State)),
		slog.String("to", string(next)))

	result.State = next
}
