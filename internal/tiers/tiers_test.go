package tiers

import (
	"testing"

	"coinvault/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestLookup(t *testing.T) {
	t.Run("known_tiers", func(t *testing.T) {
		cases := []struct {
			name    Name
			minimum int64
			rate    int64
		}{
			{Bronze, 1000, 15},
			{Silver, 5000, 30},
			{Gold, 10000, 45},
		}

		for _, tc := range cases {
			tier, err := Lookup(tc.name)
			testutil.AssertNoError(t, err)

			if !tier.MinimumAmount.Equal(decimal.NewFromInt(tc.minimum)) {
				t.Errorf("%s: expected minimum %d, got %s", tc.name, tc.minimum, tier.MinimumAmount)
			}
			if !tier.AnnualRatePercent.Equal(decimal.NewFromInt(tc.rate)) {
				t.Errorf("%s: expected rate %d, got %s", tc.name, tc.rate, tier.AnnualRatePercent)
			}
		}
	})

	t.Run("unknown_tier", func(t *testing.T) {
		_, err := Lookup("platinum")
		testutil.AssertAppError(t, err, "UNKNOWN_TIER")
	})

	t.Run("empty_name", func(t *testing.T) {
		_, err := Lookup("")
		testutil.AssertAppError(t, err, "UNKNOWN_TIER")
	})
}

func TestIsValid(t *testing.T) {
	for _, name := range []Name{Bronze, Silver, Gold} {
		if !IsValid(name) {
			t.Errorf("expected %s to be valid", name)
		}
	}
	if IsValid("diamond") {
		t.Error("expected diamond to be invalid")
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(all))
	}

	// Ordered by minimum amount, lowest first
	for i := 1; i < len(all); i++ {
		if !all[i].MinimumAmount.GreaterThan(all[i-1].MinimumAmount) {
			t.Errorf("expected tiers ordered by minimum, got %s before %s",
				all[i-1].Name, all[i].Name)
		}
	}
}
