// Package registry resolves tier IDs to model tier definitions. The
// registry is built once at startup and immutable afterwards, so lookups
// are safe from any goroutine without locking.
package registry

import (
	"errors"
	"fmt"

	"github.com/nevishq/genforge/internal/domain"
)

// Common registry errors.
var (
	// ErrUnknownTier is returned when a lookup names a tier the registry
	// was not built with. Tier IDs arrive from callers, so this is a
	// pre-flight validation failure, never a server fault.
	ErrUnknownTier = errors.New("unknown model tier")

	// ErrDuplicateTier is returned when the registry is built with two
	// tiers sharing an ID.
	ErrDuplicateTier = errors.New("duplicate model tier")
)

// Registry holds the model tiers the engine can generate with.
type Registry struct {
	tiers map[string]domain.ModelTier
	order []string
}

// New builds a Registry from the given tiers. Every tier is validated
// and IDs must be unique; a bad table fails construction rather than
// surfacing later as a per-request error.
func New(tiers []domain.ModelTier) (*Registry, error) {
	if len(tiers) == 0 {
		return nil, errors.New("registry requires at least one tier")
	}

	r := &Registry{
		tiers: make(map[string]domain.ModelTier, len(tiers)),
		order: make([]string, 0, len(tiers)),
	}

	for _, tier := range tiers {
		if err := tier.Validate(); err != nil {
			return nil, fmt.Errorf("invalid tier %q: %w", tier.ID, err)
		}
		if _, exists := r.tiers[tier.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTier, tier.ID)
		}
		r.tiers[tier.ID] = tier
		r.order = append(r.order, tier.ID)
	}

	return r, nil
}

// Lookup returns the tier with the given ID, or ErrUnknownTier.
func (r *Registry) Lookup(tierID string) (domain.ModelTier, error) {
	tier, ok := r.tiers[tierID]
	if !ok {
		return domain.ModelTier{}, fmt.Errorf("%w: %q", ErrUnknownTier, tierID)
	}
	return tier, nil
}

// Tiers returns the registered tiers in registration order.
func (r *Registry) Tiers() []domain.ModelTier {
	out := make([]domain.ModelTier, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tiers[id])
	}
	return out
}
