package models

import "github.com/shopspring/decimal"

// Asset identifies a supported crypto asset.
type Asset string

const (
	AssetBitcoin  Asset = "bitcoin"
	AssetEthereum Asset = "ethereum"
	AssetSolana   Asset = "solana"
)

// Assets lists every supported asset.
var Assets = []Asset{AssetBitcoin, AssetEthereum, AssetSolana}

// IsValidAsset reports whether a is one of the supported assets.
func IsValidAsset(a Asset) bool {
	switch a {
	case AssetBitcoin, AssetEthereum, AssetSolana:
		return true
	}
	return false
}

// AssetBalance holds a user's per-asset quantities. There is exactly one row
// per user, created lazily on first use. TotalBalance is always recomputed
// from the per-asset columns in the same write; it is never updated on its own.
// Version supports conditional updates so concurrent mutations serialize.
type AssetBalance struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Bitcoin      decimal.Decimal `gorm:"type:numeric(30,8);not null;default:0" json:"bitcoin"`
	Ethereum     decimal.Decimal `gorm:"type:numeric(30,8);not null;default:0" json:"ethereum"`
	Solana       decimal.Decimal `gorm:"type:numeric(30,8);not null;default:0" json:"solana"`
	TotalBalance decimal.Decimal `gorm:"type:numeric(30,8);not null;default:0" json:"total_balance"`
	Version      int64           `gorm:"not null;default:0" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// AssetAmount returns the quantity held for the given asset.
func (b *AssetBalance) AssetAmount(asset Asset) decimal.Decimal {
	switch asset {
	case AssetBitcoin:
		return b.Bitcoin
	case AssetEthereum:
		return b.Ethereum
	case AssetSolana:
		return b.Solana
	}
	return decimal.Zero
}

// SetAssetAmount sets the quantity held for the given asset.
func (b *AssetBalance) SetAssetAmount(asset Asset, amount decimal.Decimal) {
	switch asset {
	case AssetBitcoin:
		b.Bitcoin = amount
	case AssetEthereum:
		b.Ethereum = amount
	case AssetSolana:
		b.Solana = amount
	}
}

// Sum returns the total across all per-asset quantities.
func (b *AssetBalance) Sum() decimal.Decimal {
	return b.Bitcoin.Add(b.Ethereum).Add(b.Solana)
}

// AssetColumn maps an asset to its database column name.
func AssetColumn(asset Asset) string {
	return string(asset)
}
