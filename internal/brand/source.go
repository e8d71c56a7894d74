package brand

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nevishq/genforge/internal/config"
	"github.com/nevishq/genforge/internal/domain"
)

// ErrProfileNotFound is returned when an account has no stored brand
// profile.
var ErrProfileNotFound = errors.New("brand profile not found")

// Source resolves the stored brand profile for an account.
type Source interface {
	// BrandContext returns the profile for accountID, or
	// ErrProfileNotFound.
	BrandContext(ctx context.Context, accountID uuid.UUID) (domain.BrandContext, error)
}

// StaticSource serves brand profiles from an in-memory table seeded at
// startup. Safe for concurrent use.
type StaticSource struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]domain.BrandContext
}

// NewStaticSource creates an empty StaticSource.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		profiles: make(map[uuid.UUID]domain.BrandContext),
	}
}

// Ensure StaticSource implements the Source interface
var _ Source = (*StaticSource)(nil)

// Put stores a profile for an account, replacing any existing one.
// The profile is validated first so a bad seed fails at startup rather
// than at generation time.
func (s *StaticSource) Put(accountID uuid.UUID, profile domain.BrandContext) error {
	if accountID == uuid.Nil {
		return errors.New("account ID cannot be empty")
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[accountID] = profile
	return nil
}

// BrandContext implements Source.BrandContext
func (s *StaticSource) BrandContext(_ context.Context, accountID uuid.UUID) (domain.BrandContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[accountID]
	if !ok {
		return domain.BrandContext{}, fmt.Errorf("%w: account %s", ErrProfileNotFound, accountID)
	}
	return profile, nil
}

// FromConfig seeds a StaticSource from configured brand profiles. A
// malformed entry fails with the brand named so operators can find it.
func FromConfig(brands []config.BrandConfig) (*StaticSource, error) {
	src := NewStaticSource()

	for _, b := range brands {
		accountID, err := uuid.Parse(b.AccountID)
		if err != nil {
			return nil, fmt.Errorf("brand %q: invalid account ID %q: %w", b.BusinessName, b.AccountID, err)
		}
		if err := src.Put(accountID, profileFromConfig(b)); err != nil {
			return nil, fmt.Errorf("brand %q: %w", b.BusinessName, err)
		}
	}

	return src, nil
}

// profileFromConfig maps one config entry onto a BrandContext. The
// consistency toggles come from field presence: a configured voice,
// palette, or contact block is one the brand wants honored.
func profileFromConfig(b config.BrandConfig) domain.BrandContext {
	return domain.BrandContext{
		BusinessName:   b.BusinessName,
		BusinessType:   domain.BusinessType(b.BusinessType),
		Location:       b.Location,
		TargetAudience: b.TargetAudience,
		Voice:          b.Voice,
		Colors: domain.BrandColors{
			Primary:   b.PrimaryColor,
			Secondary: b.SecondaryColor,
			Accent:    b.AccentColor,
		},
		Contact: domain.ContactInfo{
			Phone:   b.Phone,
			Email:   b.Email,
			Website: b.Website,
		},
		Consistency: domain.BrandConsistency{
			Voice:   b.Voice != "",
			Colors:  b.PrimaryColor != "",
			Contact: b.Phone != "" || b.Email != "" || b.Website != "",
		},
		LogoRef: b.LogoURL,
	}
}
