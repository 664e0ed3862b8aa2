// Package accrual is the single source of truth for interest math. Both the
// preview endpoint and the settlement path call into it, so displayed
// estimates and credited amounts can never drift apart.
package accrual

import (
	apperrors "coinvault/internal/errors"

	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places amounts are rounded to when
// credited to the ledger. Matches the NUMERIC(30,8) balance columns.
const Precision = 8

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// DailyRate returns annualRatePercent / 100 / 365.
func DailyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(hundred).Div(daysPerYear)
}

// Simple computes simple (non-compounding) interest earned over elapsedDays:
// principal * dailyRate * elapsedDays. It is deterministic and reproducible
// from its inputs alone, and returns zero for elapsedDays = 0.
func Simple(principal, annualRatePercent decimal.Decimal, elapsedDays int) (decimal.Decimal, error) {
	if err := validate(principal, annualRatePercent, elapsedDays); err != nil {
		return decimal.Zero, err
	}
	interest := principal.Mul(DailyRate(annualRatePercent)).Mul(decimal.NewFromInt(int64(elapsedDays)))
	return interest, nil
}

// SimpleTotal computes principal plus simple interest over elapsedDays.
func SimpleTotal(principal, annualRatePercent decimal.Decimal, elapsedDays int) (decimal.Decimal, error) {
	interest, err := Simple(principal, annualRatePercent, elapsedDays)
	if err != nil {
		return decimal.Zero, err
	}
	return principal.Add(interest), nil
}

// Snapshot is one day's value in a daily-compounding growth series.
type Snapshot struct {
	Day   int             `json:"day"`
	Value decimal.Decimal `json:"value"`
}

// CompoundSeries computes a daily-compounding growth series for chart
// display: day 0 is the principal, each subsequent day applies
// value += value * dailyRate. The series has days+1 entries.
func CompoundSeries(principal, annualRatePercent decimal.Decimal, days int) ([]Snapshot, error) {
	if err := validate(principal, annualRatePercent, days); err != nil {
		return nil, err
	}

	rate := DailyRate(annualRatePercent)
	series := make([]Snapshot, 0, days+1)
	current := principal
	series = append(series, Snapshot{Day: 0, Value: current})
	for day := 1; day <= days; day++ {
		current = current.Add(current.Mul(rate)).Round(Precision)
		series = append(series, Snapshot{Day: day, Value: current})
	}
	return series, nil
}

func validate(principal, annualRatePercent decimal.Decimal, elapsedDays int) error {
	if principal.IsNegative() || annualRatePercent.IsNegative() || elapsedDays < 0 {
		return apperrors.ErrInvalidAccrualInput
	}
	return nil
}
