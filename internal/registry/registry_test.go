package registry

import (
	"errors"
	"testing"

	"github.com/nevishq/genforge/internal/domain"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	r := Default()

	tier, err := r.Lookup("revo-1.5")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tier.DisplayName != "Revo 1.5" {
		t.Errorf("Expected Revo 1.5, got %q", tier.DisplayName)
	}
	if tier.CreditCost != 1.5 {
		t.Errorf("Expected fractional credit cost 1.5, got %v", tier.CreditCost)
	}
}

func TestLookupUnknownTier(t *testing.T) {
	t.Parallel()

	r := Default()

	for _, id := range []string{"revo-3.0", "", "REVO-1.0"} {
		_, err := r.Lookup(id)
		if !errors.Is(err, ErrUnknownTier) {
			t.Errorf("Lookup(%q): expected ErrUnknownTier, got %v", id, err)
		}
	}
}

func TestNewRejectsBadTables(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Error("Expected an error for an empty table")
	}

	invalid := DefaultTiers()
	invalid[0].CreditCost = 0
	if _, err := New(invalid); !errors.Is(err, domain.ErrNonPositiveCost) {
		t.Errorf("Expected ErrNonPositiveCost, got %v", err)
	}

	dupes := append(DefaultTiers(), DefaultTiers()[0])
	if _, err := New(dupes); !errors.Is(err, ErrDuplicateTier) {
		t.Errorf("Expected ErrDuplicateTier, got %v", err)
	}
}

func TestTiersPreservesOrder(t *testing.T) {
	t.Parallel()

	r := Default()
	tiers := r.Tiers()

	want := []string{"revo-1.0", "revo-1.5", "revo-2.0"}
	if len(tiers) != len(want) {
		t.Fatalf("Expected %d tiers, got %d", len(want), len(tiers))
	}
	for i, id := range want {
		if tiers[i].ID != id {
			t.Errorf("Tier %d: expected %q, got %q", i, id, tiers[i].ID)
		}
	}
}

func TestDefaultTiersAreValid(t *testing.T) {
	t.Parallel()

	for _, tier := range DefaultTiers() {
		if err := tier.Validate(); err != nil {
			t.Errorf("Tier %q failed validation: %v", tier.ID, err)
		}
		// Every tier must be able to fail over.
		if len(tier.ProviderOrder) < 2 {
			t.Errorf("Tier %q has no fallback provider", tier.ID)
		}
	}
}
