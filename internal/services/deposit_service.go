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

// depositService handles deposit requests and admin review.
type depositService struct {
	db             *gorm.DB
	balanceService BalanceServicer
}

// NewDepositService creates a new DepositServicer.
func NewDepositService(db *gorm.DB, balanceService BalanceServicer) DepositServicer {
	return &depositService{db: db, balanceService: balanceService}
}

// Submit records a pending deposit claim. The ledger is only credited when an
// admin approves the request.
func (s *depositService) Submit(userID string, asset models.Asset, amount decimal.Decimal, txHash string) (*models.DepositRequest, error) {
	if !models.IsValidAsset(asset) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAsset, "Unsupported asset: "+string(asset))
	}
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Amount must be greater than zero")
	}

	request := &models.DepositRequest{
		UserID: userID,
		Asset:  asset,
		Amount: amount,
		TxHash: txHash,
		Status: models.DepositStatusPending,
	}
	if err := s.db.Create(request).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return request, nil
}

// GetUserDeposits returns the caller's deposit requests, newest first.
func (s *depositService) GetUserDeposits(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.DepositRequest], error) {
	page.Defaults()

	base := s.db.Model(&models.DepositRequest{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var requests []models.DepositRequest
	if err := base.Scopes(pagination.NewestFirst(), pagination.Paginate(page)).Find(&requests).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(requests, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListRequests returns deposit requests across all users, optionally filtered
// by status, newest first. Admin use.
func (s *depositService) ListRequests(status *models.DepositStatus, page pagination.PageRequest) (*pagination.PageResponse[models.DepositRequest], error) {
	page.Defaults()

	base := s.db.Model(&models.DepositRequest{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var requests []models.DepositRequest
	if err := base.Scopes(pagination.NewestFirst(), pagination.Paginate(page)).Find(&requests).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(requests, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Approve credits the user's balance and marks the request approved in one
// transaction. Deciding an already-terminal request fails with
// ErrInvalidStateTransition.
func (s *depositService) Approve(requestID, reviewerID string) (*models.DepositRequest, error) {
	request, err := s.loadByID(requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.DepositRequest{}).
			Where("id = ? AND status = ?", request.ID, models.DepositStatusPending).
			Updates(map[string]interface{}{
				"status":      models.DepositStatusApproved,
				"reviewed_by": reviewerID,
				"reviewed_at": now,
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

	request.Status = models.DepositStatusApproved
	request.ReviewedBy = reviewerID
	request.ReviewedAt = &now
	return request, nil
}

// Reject marks a pending request rejected with a reason. The ledger is
// untouched because nothing was credited at submission.
func (s *depositService) Reject(requestID, reviewerID, reason string) (*models.DepositRequest, error) {
	request, err := s.loadByID(requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := s.db.Model(&models.DepositRequest{}).
		Where("id = ? AND status = ?", request.ID, models.DepositStatusPending).
		Updates(map[string]interface{}{
			"status":        models.DepositStatusRejected,
			"reject_reason": reason,
			"reviewed_by":   reviewerID,
			"reviewed_at":   now,
		})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrInvalidStateTransition
	}

	request.Status = models.DepositStatusRejected
	request.RejectReason = reason
	request.ReviewedBy = reviewerID
	request.ReviewedAt = &now
	return request, nil
}

func (s *depositService) loadByID(requestID string) (*models.DepositRequest, error) {
	var request models.DepositRequest
	if err := s.db.Where("id = ?", requestID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDepositNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &request, nil
}
