// Package tiers defines the investment tier policy: the closed set of tier
// names with their minimum principal and annual rate. Rates are policy
// constants; changing them has no effect on already-open positions because
// the APR is snapshotted onto the investment record at open time.
package tiers

import (
	apperrors "coinvault/internal/errors"

	"github.com/shopspring/decimal"
)

// Name identifies an investment tier.
type Name string

const (
	Bronze Name = "bronze"
	Silver Name = "silver"
	Gold   Name = "gold"
)

// Tier holds the policy constants for one tier.
type Tier struct {
	Name              Name            `json:"name"`
	MinimumAmount     decimal.Decimal `json:"minimum_amount"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
}

var table = map[Name]Tier{
	Bronze: {Name: Bronze, MinimumAmount: decimal.NewFromInt(1000), AnnualRatePercent: decimal.NewFromInt(15)},
	Silver: {Name: Silver, MinimumAmount: decimal.NewFromInt(5000), AnnualRatePercent: decimal.NewFromInt(30)},
	Gold:   {Name: Gold, MinimumAmount: decimal.NewFromInt(10000), AnnualRatePercent: decimal.NewFromInt(45)},
}

// order fixes the listing order from lowest to highest minimum.
var order = []Name{Bronze, Silver, Gold}

// Lookup returns the tier definition for the given name, or ErrUnknownTier
// for any name outside the closed enum.
func Lookup(name Name) (Tier, error) {
	tier, ok := table[name]
	if !ok {
		return Tier{}, apperrors.WithMessage(apperrors.ErrUnknownTier, "Unknown investment tier: "+string(name))
	}
	return tier, nil
}

// IsValid reports whether name is a known tier.
func IsValid(name Name) bool {
	_, ok := table[name]
	return ok
}

// All returns every tier definition, ordered by minimum amount.
func All() []Tier {
	result := make([]Tier, 0, len(order))
	for _, name := range order {
		result = append(result, table[name])
	}
	return result
}
