package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"coinvault/internal/accrual"
	"coinvault/internal/models"
	"coinvault/internal/pagination"
	"coinvault/internal/tiers"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// BalanceServicer defines the contract for the per-user asset ledger.
// Every mutation recomputes TotalBalance in the same conditional write, so
// the TotalBalance == sum-of-assets invariant holds after every operation
// and concurrent mutations on the same user serialize.
type BalanceServicer interface {
	Get(userID string) (*models.AssetBalance, error)
	Credit(userID string, asset models.Asset, amount decimal.Decimal) (*models.AssetBalance, error)
	Debit(userID string, asset models.Asset, amount decimal.Decimal) (*models.AssetBalance, error)
	// Tx variants compose inside another service's database transaction.
	CreditTx(tx *gorm.DB, userID string, asset models.Asset, amount decimal.Decimal) error
	DebitTx(tx *gorm.DB, userID string, asset models.Asset, amount decimal.Decimal) error
}

// InvestmentPosition is the read model for a single position: the stored
// record plus progress and earned-so-far, both computed lazily on read.
type InvestmentPosition struct {
	models.Investment
	Progress float64         `json:"progress"`
	Earned   decimal.Decimal `json:"earned"`
}

// InvestmentPreview is the estimated outcome for a prospective position.
type InvestmentPreview struct {
	Tier       tiers.Tier      `json:"tier"`
	Amount     decimal.Decimal `json:"amount"`
	PeriodDays int             `json:"period_days"`
	Interest   decimal.Decimal `json:"interest"`
	Total      decimal.Decimal `json:"total"`
}

// InvestmentServicer defines the contract for the investment lifecycle.
type InvestmentServicer interface {
	Preview(tier tiers.Name, amount decimal.Decimal, periodDays int) (*InvestmentPreview, error)
	Open(userID string, tier tiers.Name, asset models.Asset, amount decimal.Decimal, periodDays int) (*models.Investment, error)
	GetUserInvestments(userID string, page pagination.PageRequest) (*pagination.PageResponse[InvestmentPosition], error)
	GetInvestmentByID(userID, investmentID string) (*InvestmentPosition, error)
	GrowthSeries(userID, investmentID string) ([]accrual.Snapshot, error)
	// Admin operations. Complete credits principal plus accrued interest;
	// Cancel credits principal only.
	ListInvestments(status *models.InvestmentStatus, page pagination.PageRequest) (*pagination.PageResponse[InvestmentPosition], error)
	Complete(investmentID string) (*models.Investment, error)
	Cancel(investmentID, reason string) (*models.Investment, error)
}

// KYCSubmission holds the fields of a user's identity submission.
type KYCSubmission struct {
	FullName       string
	DateOfBirth    time.Time
	Country        string
	DocumentType   string
	DocumentNumber string
}

// KYCServicer defines the contract for KYC submissions and review.
type KYCServicer interface {
	Submit(userID string, submission KYCSubmission) (*models.KYCRequest, error)
	GetLatest(userID string) (*models.KYCRequest, error)
	IsVerified(userID string) (bool, error)
	ListRequests(status *models.KYCStatus, page pagination.PageRequest) (*pagination.PageResponse[models.KYCRequest], error)
	Verify(requestID, reviewerID string) (*models.KYCRequest, error)
	Reject(requestID, reviewerID, reason string) (*models.KYCRequest, error)
}

// DepositServicer defines the contract for deposit requests and review.
type DepositServicer interface {
	Submit(userID string, asset models.Asset, amount decimal.Decimal, txHash string) (*models.DepositRequest, error)
	GetUserDeposits(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.DepositRequest], error)
	ListRequests(status *models.DepositStatus, page pagination.PageRequest) (*pagination.PageResponse[models.DepositRequest], error)
	Approve(requestID, reviewerID string) (*models.DepositRequest, error)
	Reject(requestID, reviewerID, reason string) (*models.DepositRequest, error)
}

// WithdrawalServicer defines the contract for withdrawal requests and review.
type WithdrawalServicer interface {
	Submit(userID string, asset models.Asset, amount decimal.Decimal, address string) (*models.WithdrawalRequest, error)
	GetUserWithdrawals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.WithdrawalRequest], error)
	ListRequests(status *models.WithdrawalStatus, page pagination.PageRequest) (*pagination.PageResponse[models.WithdrawalRequest], error)
	Complete(requestID, reviewerID string) (*models.WithdrawalRequest, error)
	Reject(requestID, reviewerID, reason string) (*models.WithdrawalRequest, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
