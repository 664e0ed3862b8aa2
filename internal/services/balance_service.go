package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "coinvault/internal/errors"
	"coinvault/internal/models"
)

// maxVersionRetries bounds how often a balance mutation retries after losing
// a version race to a concurrent writer.
const maxVersionRetries = 3

// balanceService implements the per-user asset ledger. Mutations never use a
// read-then-separate-write pattern: each write is a single conditional UPDATE
// guarded by the row's version column, so two concurrent debits on the same
// user cannot interleave into an overdraft.
type balanceService struct {
	db *gorm.DB
}

// NewBalanceService creates a new BalanceServicer.
func NewBalanceService(db *gorm.DB) BalanceServicer {
	return &balanceService{db: db}
}

// Get returns the user's balance record, creating an empty one on first use.
func (s *balanceService) Get(userID string) (*models.AssetBalance, error) {
	return s.getOrCreate(s.db, userID)
}

// Credit adds amount to the user's holding of the given asset.
func (s *balanceService) Credit(userID string, asset models.Asset, amount decimal.Decimal) (*models.AssetBalance, error) {
	if err := validateMutation(asset, amount); err != nil {
		return nil, err
	}
	return s.mutate(s.db, userID, asset, amount)
}

// Debit removes amount from the user's holding of the given asset. Fails with
// ErrInsufficientBalance and leaves the record unchanged when the resulting
// balance would go negative.
func (s *balanceService) Debit(userID string, asset models.Asset, amount decimal.Decimal) (*models.AssetBalance, error) {
	if err := validateMutation(asset, amount); err != nil {
		return nil, err
	}
	return s.mutate(s.db, userID, asset, amount.Neg())
}

// CreditTx is Credit running inside an existing database transaction.
func (s *balanceService) CreditTx(tx *gorm.DB, userID string, asset models.Asset, amount decimal.Decimal) error {
	if err := validateMutation(asset, amount); err != nil {
		return err
	}
	_, err := s.mutate(tx, userID, asset, amount)
	return err
}

// DebitTx is Debit running inside an existing database transaction.
func (s *balanceService) DebitTx(tx *gorm.DB, userID string, asset models.Asset, amount decimal.Decimal) error {
	if err := validateMutation(asset, amount); err != nil {
		return err
	}
	_, err := s.mutate(tx, userID, asset, amount.Neg())
	return err
}

func validateMutation(asset models.Asset, amount decimal.Decimal) error {
	if !models.IsValidAsset(asset) {
		return apperrors.WithMessage(apperrors.ErrInvalidAsset, "Unsupported asset: "+string(asset))
	}
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be greater than zero")
	}
	return nil
}

// getOrCreate loads the user's balance row, creating an empty one if absent.
func (s *balanceService) getOrCreate(db *gorm.DB, userID string) (*models.AssetBalance, error) {
	var balance models.AssetBalance
	err := db.Where("user_id = ?", userID).First(&balance).Error
	if err == nil {
		return &balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balance = models.AssetBalance{
		UserID:       userID,
		Bitcoin:      decimal.Zero,
		Ethereum:     decimal.Zero,
		Solana:       decimal.Zero,
		TotalBalance: decimal.Zero,
	}
	if err := db.Create(&balance).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &balance, nil
}

// mutate applies delta to the asset quantity and recomputes TotalBalance in a
// single conditional update on (id, version). On a version conflict the row
// is reloaded and the mutation retried.
func (s *balanceService) mutate(db *gorm.DB, userID string, asset models.Asset, delta decimal.Decimal) (*models.AssetBalance, error) {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		balance, err := s.getOrCreate(db, userID)
		if err != nil {
			return nil, err
		}

		current := balance.AssetAmount(asset)
		next := current.Add(delta)
		if next.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInsufficientBalance,
				fmt.Sprintf("Insufficient %s balance: available %s, required %s", asset, current, delta.Neg()))
		}

		balance.SetAssetAmount(asset, next)
		total := balance.Sum()

		result := db.Model(&models.AssetBalance{}).
			Where("id = ? AND version = ?", balance.ID, balance.Version).
			Updates(map[string]interface{}{
				models.AssetColumn(asset): next,
				"total_balance":           total,
				"version":                 balance.Version + 1,
			})
		if result.Error != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 1 {
			balance.TotalBalance = total
			balance.Version++
			return balance, nil
		}
		// Lost the version race to a concurrent writer; reload and retry.
	}

	return nil, apperrors.WithMessage(apperrors.ErrInternalServer, "Balance update contention, please retry")
}
