package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"coinvault/internal/accrual"
	apperrors "coinvault/internal/errors"
	"coinvault/internal/models"
	"coinvault/internal/pagination"
	"coinvault/internal/tiers"
)

// maxPeriodDays caps the lock-up period of a single position at ten years.
const maxPeriodDays = 3650

// investmentService handles the investment lifecycle. Maturity is computed
// lazily on read (progress and earned fields); there is no background
// scheduler, matured positions stay active until an admin completes them and
// the accrual clamp at the period guarantees a late completion never overpays.
type investmentService struct {
	db             *gorm.DB
	balanceService BalanceServicer
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB, balanceService BalanceServicer) InvestmentServicer {
	return &investmentService{db: db, balanceService: balanceService}
}

// Preview estimates the simple-interest outcome for a prospective position
// without touching any state. It uses the same accrual math as settlement.
func (s *investmentService) Preview(tierName tiers.Name, amount decimal.Decimal, periodDays int) (*InvestmentPreview, error) {
	tier, err := tiers.Lookup(tierName)
	if err != nil {
		return nil, err
	}
	if err := validatePosition(tier, amount, periodDays); err != nil {
		return nil, err
	}

	interest, err := accrual.Simple(amount, tier.AnnualRatePercent, periodDays)
	if err != nil {
		return nil, err
	}
	interest = interest.Round(accrual.Precision)

	return &InvestmentPreview{
		Tier:       tier,
		Amount:     amount,
		PeriodDays: periodDays,
		Interest:   interest,
		Total:      amount.Add(interest),
	}, nil
}

// Open creates a new active position: it validates the amount against the
// tier minimum, debits the user's balance, and creates the investment record
// with the tier rate snapshotted as APR, all in one database transaction.
func (s *investmentService) Open(userID string, tierName tiers.Name, asset models.Asset, amount decimal.Decimal, periodDays int) (*models.Investment, error) {
	tier, err := tiers.Lookup(tierName)
	if err != nil {
		return nil, err
	}
	if !models.IsValidAsset(asset) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAsset, "Unsupported asset: "+string(asset))
	}
	if err := validatePosition(tier, amount, periodDays); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	investment := &models.Investment{
		UserID:     userID,
		Tier:       string(tier.Name),
		Asset:      asset,
		Amount:     amount,
		APR:        tier.AnnualRatePercent,
		PeriodDays: periodDays,
		StartDate:  now,
		EndDate:    now.AddDate(0, 0, periodDays),
		Status:     models.InvestmentStatusActive,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := s.balanceService.DebitTx(tx, userID, asset, amount); txErr != nil {
			return txErr
		}
		if txErr := tx.Create(investment).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return investment, nil
}

// GetUserInvestments returns the caller's positions, newest first.
func (s *investmentService) GetUserInvestments(userID string, page pagination.PageRequest) (*pagination.PageResponse[InvestmentPosition], error) {
	page.Defaults()

	base := s.db.Model(&models.Investment{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := base.Scopes(pagination.NewestFirst(), pagination.Paginate(page)).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	positions, err := s.toPositions(investments)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(positions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetInvestmentByID retrieves one of the caller's positions with its
// lazily computed progress and earned-so-far.
func (s *investmentService) GetInvestmentByID(userID, investmentID string) (*InvestmentPosition, error) {
	var investment models.Investment
	if err := s.db.Where("id = ? AND user_id = ?", investmentID, userID).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	position, err := s.toPosition(investment)
	if err != nil {
		return nil, err
	}
	return &position, nil
}

// GrowthSeries returns the daily-compounding value series for a position's
// full period, for chart display.
func (s *investmentService) GrowthSeries(userID, investmentID string) ([]accrual.Snapshot, error) {
	var investment models.Investment
	if err := s.db.Where("id = ? AND user_id = ?", investmentID, userID).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return accrual.CompoundSeries(investment.Amount, investment.APR, investment.PeriodDays)
}

// ListInvestments returns positions across all users, optionally filtered by
// status, newest first. Admin use.
func (s *investmentService) ListInvestments(status *models.InvestmentStatus, page pagination.PageRequest) (*pagination.PageResponse[InvestmentPosition], error) {
	page.Defaults()

	base := s.db.Model(&models.Investment{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := base.Scopes(pagination.NewestFirst(), pagination.Paginate(page)).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	positions, err := s.toPositions(investments)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(positions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Complete settles an active position: accrued interest is computed for the
// elapsed days (clamped to the period) and principal plus interest is
// credited back to the user's balance. Only active positions can complete;
// re-invoking on a terminal position fails with ErrInvalidStateTransition.
func (s *investmentService) Complete(investmentID string) (*models.Investment, error) {
	investment, err := s.loadByID(investmentID)
	if err != nil {
		return nil, err
	}
	if investment.IsTerminal() {
		return nil, apperrors.ErrInvalidStateTransition
	}

	now := time.Now().UTC()
	elapsed := investment.ElapsedDays(now)
	interest, err := accrual.Simple(investment.Amount, investment.APR, elapsed)
	if err != nil {
		return nil, err
	}
	payout := investment.Amount.Add(interest.Round(accrual.Precision))

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Conditional transition guards against a concurrent complete/cancel.
		result := tx.Model(&models.Investment{}).
			Where("id = ? AND status = ?", investment.ID, models.InvestmentStatusActive).
			Updates(map[string]interface{}{
				"status":       models.InvestmentStatusCompleted,
				"completed_at": now,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrInvalidStateTransition
		}

		return s.balanceService.CreditTx(tx, investment.UserID, investment.Asset, payout)
	})
	if err != nil {
		return nil, err
	}

	investment.Status = models.InvestmentStatusCompleted
	investment.CompletedAt = &now
	return investment, nil
}

// Cancel terminates an active position before maturity. Only the principal is
// credited back; accrued interest is forfeited.
func (s *investmentService) Cancel(investmentID, reason string) (*models.Investment, error) {
	investment, err := s.loadByID(investmentID)
	if err != nil {
		return nil, err
	}
	if investment.IsTerminal() {
		return nil, apperrors.ErrInvalidStateTransition
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Investment{}).
			Where("id = ? AND status = ?", investment.ID, models.InvestmentStatusActive).
			Updates(map[string]interface{}{
				"status":        models.InvestmentStatusCancelled,
				"cancel_reason": reason,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrInvalidStateTransition
		}

		return s.balanceService.CreditTx(tx, investment.UserID, investment.Asset, investment.Amount)
	})
	if err != nil {
		return nil, err
	}

	investment.Status = models.InvestmentStatusCancelled
	investment.CancelReason = reason
	return investment, nil
}

// loadByID fetches an investment regardless of owner. Admin use.
func (s *investmentService) loadByID(investmentID string) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.Where("id = ?", investmentID).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

// toPosition computes the display fields for one investment. For active
// positions progress and earned advance with the clock; a completed position
// reports its settled interest and a cancelled one reports zero earned.
func (s *investmentService) toPosition(investment models.Investment) (InvestmentPosition, error) {
	position := InvestmentPosition{Investment: investment, Earned: decimal.Zero}

	var reference time.Time
	switch investment.Status {
	case models.InvestmentStatusActive:
		reference = time.Now().UTC()
	case models.InvestmentStatusCompleted:
		reference = investment.UpdatedAt
		if investment.CompletedAt != nil {
			reference = *investment.CompletedAt
		}
	case models.InvestmentStatusCancelled:
		// Interest was forfeited; show how far the position got.
		reference = investment.UpdatedAt
	}

	elapsed := investment.ElapsedDays(reference)
	if investment.PeriodDays > 0 {
		progress := float64(elapsed) / float64(investment.PeriodDays) * 100
		if progress > 100 {
			progress = 100
		}
		position.Progress = progress
	}

	if investment.Status != models.InvestmentStatusCancelled {
		earned, err := accrual.Simple(investment.Amount, investment.APR, elapsed)
		if err != nil {
			return InvestmentPosition{}, err
		}
		position.Earned = earned.Round(accrual.Precision)
	}

	return position, nil
}

func (s *investmentService) toPositions(investments []models.Investment) ([]InvestmentPosition, error) {
	positions := make([]InvestmentPosition, 0, len(investments))
	for _, investment := range investments {
		position, err := s.toPosition(investment)
		if err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}
	return positions, nil
}

// validatePosition checks amount and period against tier policy.
func validatePosition(tier tiers.Tier, amount decimal.Decimal, periodDays int) error {
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be greater than zero")
	}
	if periodDays <= 0 || periodDays > maxPeriodDays {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("Period must be between 1 and %d days", maxPeriodDays))
	}
	if amount.LessThan(tier.MinimumAmount) {
		return apperrors.WithMessage(apperrors.ErrBelowMinimum,
			fmt.Sprintf("Tier %s requires at least %s, got %s", tier.Name, tier.MinimumAmount, amount))
	}
	return nil
}
