package accrual

import (
	"testing"

	"coinvault/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestSimple(t *testing.T) {
	t.Run("zero_days_zero_interest", func(t *testing.T) {
		interest, err := Simple(decimal.NewFromInt(5000), decimal.NewFromInt(30), 0)
		testutil.AssertNoError(t, err)

		if !interest.IsZero() {
			t.Errorf("expected zero interest for zero days, got %s", interest)
		}
	})

	t.Run("zero_rate_zero_interest", func(t *testing.T) {
		interest, err := Simple(decimal.NewFromInt(5000), decimal.Zero, 90)
		testutil.AssertNoError(t, err)

		if !interest.IsZero() {
			t.Errorf("expected zero interest for zero rate, got %s", interest)
		}
	})

	t.Run("silver_scenario", func(t *testing.T) {
		// $5000 at 30% APR for 90 days: 5000 * (0.30/365) * 90 = 369.86
		total, err := SimpleTotal(decimal.NewFromInt(5000), decimal.NewFromInt(30), 90)
		testutil.AssertNoError(t, err)

		if got := total.Round(2).String(); got != "5369.86" {
			t.Errorf("expected total 5369.86, got %s", got)
		}
	})

	t.Run("monotonically_non_decreasing_in_days", func(t *testing.T) {
		principal := decimal.NewFromInt(2500)
		rate := decimal.NewFromInt(15)

		prev := decimal.Zero
		for days := 0; days <= 365; days += 7 {
			interest, err := Simple(principal, rate, days)
			testutil.AssertNoError(t, err)

			if interest.LessThan(prev) {
				t.Fatalf("interest decreased from %s to %s at %d days", prev, interest, days)
			}
			prev = interest
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := Simple(decimal.NewFromFloat(1234.56789), decimal.NewFromInt(45), 180)
		testutil.AssertNoError(t, err)
		b, err := Simple(decimal.NewFromFloat(1234.56789), decimal.NewFromInt(45), 180)
		testutil.AssertNoError(t, err)

		if !a.Equal(b) {
			t.Errorf("expected identical results, got %s and %s", a, b)
		}
	})

	t.Run("negative_principal", func(t *testing.T) {
		_, err := Simple(decimal.NewFromInt(-1), decimal.NewFromInt(30), 90)
		testutil.AssertAppError(t, err, "INVALID_ACCRUAL_INPUT")
	})

	t.Run("negative_rate", func(t *testing.T) {
		_, err := Simple(decimal.NewFromInt(5000), decimal.NewFromInt(-30), 90)
		testutil.AssertAppError(t, err, "INVALID_ACCRUAL_INPUT")
	})

	t.Run("negative_days", func(t *testing.T) {
		_, err := Simple(decimal.NewFromInt(5000), decimal.NewFromInt(30), -1)
		testutil.AssertAppError(t, err, "INVALID_ACCRUAL_INPUT")
	})
}

func TestCompoundSeries(t *testing.T) {
	t.Run("series_shape", func(t *testing.T) {
		series, err := CompoundSeries(decimal.NewFromInt(1000), decimal.NewFromInt(15), 30)
		testutil.AssertNoError(t, err)

		if len(series) != 31 {
			t.Fatalf("expected 31 snapshots, got %d", len(series))
		}
		if series[0].Day != 0 || !series[0].Value.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected day 0 to equal principal, got day %d value %s", series[0].Day, series[0].Value)
		}
	})

	t.Run("strictly_increasing_with_positive_rate", func(t *testing.T) {
		series, err := CompoundSeries(decimal.NewFromInt(1000), decimal.NewFromInt(45), 90)
		testutil.AssertNoError(t, err)

		for i := 1; i < len(series); i++ {
			if !series[i].Value.GreaterThan(series[i-1].Value) {
				t.Fatalf("value did not increase from day %d to day %d", series[i-1].Day, series[i].Day)
			}
		}
	})

	t.Run("compound_exceeds_simple", func(t *testing.T) {
		principal := decimal.NewFromInt(5000)
		rate := decimal.NewFromInt(30)

		series, err := CompoundSeries(principal, rate, 90)
		testutil.AssertNoError(t, err)
		simpleTotal, err := SimpleTotal(principal, rate, 90)
		testutil.AssertNoError(t, err)

		final := series[len(series)-1].Value
		if !final.GreaterThan(simpleTotal) {
			t.Errorf("expected compound total %s to exceed simple total %s", final, simpleTotal)
		}
	})

	t.Run("zero_days", func(t *testing.T) {
		series, err := CompoundSeries(decimal.NewFromInt(1000), decimal.NewFromInt(15), 0)
		testutil.AssertNoError(t, err)

		if len(series) != 1 {
			t.Fatalf("expected a single snapshot, got %d", len(series))
		}
	})

	t.Run("negative_input", func(t *testing.T) {
		_, err := CompoundSeries(decimal.NewFromInt(-1000), decimal.NewFromInt(15), 30)
		testutil.AssertAppError(t, err, "INVALID_ACCRUAL_INPUT")
	})
}
