package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "coinvault/internal/errors"
	"coinvault/internal/models"
	"coinvault/internal/pagination"
)

// withdrawalService handles withdrawal requests and admin review. Funds are
// reserved by debiting the ledger at submission, so a completed withdrawal
// can never fail on balance; a rejection refunds the debit.
type withdrawalService struct {
	db             *gorm.DB
	balanceService BalanceServicer
	kycService     KYCServicer
}

// NewWithdrawalService creates a new WithdrawalServicer.
func NewWithdrawalService(db *gorm.DB, balanceService BalanceServicer, kycService KYCServicer) WithdrawalServicer {
	return &withdrawalService{db: db, balanceService: balanceService, kycService: kycService}
}

// Submit creates a pending withdrawal after re-checking KYC status against
// the persisted records and debiting the requested amount.
func (s *withdrawalService) Submit(userID string, asset models.Asset, amount decimal.Decimal, address string) (*models.WithdrawalRequest, error) {
	if !models.IsValidAsset(asset) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAsset, "Unsupported asset: "+string(asset))
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be greater than zero")
	}
	if address == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Destination address is required")
	}

	verified, err := s.kycService.IsVerified(userID)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, apperrors.ErrKYCRequired
	}

	request := &models.WithdrawalRequest{
		UserID:  userID,
		Asset:   asset,
		Amount:  amount,
		Address: address,
		Status:  models.WithdrawalStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := s.balanceService.DebitTx(tx, userID, asset, amount); txErr != nil {
			return txErr
		}
		if txErr := tx.Create(request).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// GetUserWithdrawals returns the caller's withdrawal requests, newest first.
func (s *withdrawalService) GetUserWithdrawals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.WithdrawalRequest], error) {
	page.Defaults()

	base := s.db.Model(&models.WithdrawalRequest{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var requests []models.WithdrawalRequest
	if err := base.Scopes(pagination.NewestFirst(), pagination.Paginate(page)).Find(&requests).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(requests, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListRequests returns withdrawal requests across all users, optionally
// filtered by status, newest first. Admin use.
func (s *withdrawalService) ListRequests(status *models.WithdrawalStatus, page pagination.PageRequest) (*pagination.PageResponse[models.WithdrawalRequest], error) {
	page.Defaults()

	base := s.db.Model(&models.WithdrawalRequest{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var requests []models.WithdrawalRequest
	if err := base.Scopes(pagination.NewestFirst(), pagination.Paginate(page)).Find(&requests).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(requests, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Complete marks a pending withdrawal as paid out. The funds were already
// debited at submission, so this is a status-only transition.
func (s *withdrawalService) Complete(requestID, reviewerID string) (*models.WithdrawalRequest, error) {
	request, err := s.loadByID(requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := s.db.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", request.ID, models.WithdrawalStatusPending).
		Updates(map[string]interface{}{
			"status":      models.WithdrawalStatusCompleted,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrInvalidStateTransition
	}

	request.Status = models.WithdrawalStatusCompleted
	request.ReviewedBy = reviewerID
	request.ReviewedAt = &now
	return request, nil
}

// Reject refuses a pending withdrawal and refunds the reserved amount in the
// same transaction as the status flip.
func (s *withdrawalService) Reject(requestID, reviewerID, reason string) (*models.WithdrawalRequest, error) {
	request, err := s.loadByID(requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.WithdrawalRequest{}).
			Where("id = ? AND status = ?", request.ID, models.WithdrawalStatusPending).
			Updates(map[string]interface{}{
				"status":        models.WithdrawalStatusRejected,
				"reject_reason": reason,
				"reviewed_by":   reviewerID,
				"reviewed_at":   now,
			})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrInvalidStateTransition
		}

		return s.balanceService.CreditTx(tx, request.UserID, request.Asset, request.Amount)
	})
	if err != nil {
		return nil, err
	}

	request.Status = models.WithdrawalStatusRejected
	request.RejectReason = reason
	request.ReviewedBy = reviewerID
	request.ReviewedAt = &now
	return request, nil
}

func (s *withdrawalService) loadByID(requestID string) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	if err := s.db.Where("id = ?", requestID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWithdrawalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &request, nil
}
