package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "coinvault/internal/errors"
	"coinvault/internal/models"
	"coinvault/internal/pagination"
)

// kycService handles KYC submissions and admin review. Verification status is
// always derived from the persisted records; nothing is ever trusted from
// client-supplied state.
type kycService struct {
	db *gorm.DB
}

// NewKYCService creates a new KYCServicer.
func NewKYCService(db *gorm.DB) KYCServicer {
	return &kycService{db: db}
}

// Submit creates a pending KYC request. A user may hold at most one
// non-rejected request at a time: a pending request must be decided and a
// verified user has nothing left to submit.
func (s *kycService) Submit(userID string, submission KYCSubmission) (*models.KYCRequest, error) {
	if submission.FullName == "" || submission.DocumentType == "" || submission.DocumentNumber == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "full name, document type, and document number are required")
	}

	var count int64
	if err := s.db.Model(&models.KYCRequest{}).
		Where("user_id = ? AND status IN ?", userID, []models.KYCStatus{models.KYCStatusPending, models.KYCStatusVerified}).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrKYCPendingExists
	}

	request := &models.KYCRequest{
		UserID:         userID,
		FullName:       submission.FullName,
		DateOfBirth:    submission.DateOfBirth,
		Country:        submission.Country,
		DocumentType:   submission.DocumentType,
		DocumentNumber: submission.DocumentNumber,
		Status:         models.KYCStatusPending,
	}
	if err := s.db.Create(request).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return request, nil
}

// GetLatest returns the user's most recent KYC request.
func (s *kycService) GetLatest(userID string) (*models.KYCRequest, error) {
	var request models.KYCRequest
	if err := s.db.Where("user_id = ?", userID).
		Scopes(pagination.NewestFirst()).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrKYCRequestNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &request, nil
}

// IsVerified reports whether the user has a verified KYC record. Withdrawal
// eligibility is re-derived through this on every request.
func (s *kycService) IsVerified(userID string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.KYCRequest{}).
		Where("user_id = ? AND status = ?", userID, models.KYCStatusVerified).
		Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// ListRequests returns KYC requests across all users, optionally filtered by
// status, newest first. Admin use.
func (s *kycService) ListRequests(status *models.KYCStatus, page pagination.PageRequest) (*pagination.PageResponse[models.KYCRequest], error) {
	page.Defaults()

	base := s.db.Model(&models.KYCRequest{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var requests []models.KYCRequest
	if err := base.Scopes(pagination.NewestFirst(), pagination.Paginate(page)).Find(&requests).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(requests, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Verify marks a pending request verified. The transition is conditional on
// the current status, so deciding an already-terminal request fails with
// ErrInvalidStateTransition.
func (s *kycService) Verify(requestID, reviewerID string) (*models.KYCRequest, error) {
	return s.decide(requestID, reviewerID, models.KYCStatusVerified, "")
}

// Reject marks a pending request rejected with a reason.
func (s *kycService) Reject(requestID, reviewerID, reason string) (*models.KYCRequest, error) {
	return s.decide(requestID, reviewerID, models.KYCStatusRejected, reason)
}

func (s *kycService) decide(requestID, reviewerID string, status models.KYCStatus, reason string) (*models.KYCRequest, error) {
	var request models.KYCRequest
	if err := s.db.Where("id = ?", requestID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrKYCRequestNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now().UTC()
	result := s.db.Model(&models.KYCRequest{}).
		Where("id = ? AND status = ?", requestID, models.KYCStatusPending).
		Updates(map[string]interface{}{
			"status":        status,
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

	request.Status = status
	request.RejectReason = reason
	request.ReviewedBy = reviewerID
	request.ReviewedAt = &now
	return &request, nil
}
