package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus represents the review state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
)

// WithdrawalRequest records a user's request to withdraw funds. Submission
// requires a verified KYC record and debits the ledger up front, so an
// approved withdrawal can never fail on balance. Rejection refunds the debit.
type WithdrawalRequest struct {
	Base
	UserID       string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Asset        Asset            `gorm:"not null" json:"asset"`
	Amount       decimal.Decimal  `gorm:"type:numeric(30,8);not null" json:"amount"`
	Address      string           `gorm:"not null" json:"address"`
	Status       WithdrawalStatus `gorm:"not null;default:'pending';index" json:"status"`
	RejectReason string           `json:"reject_reason,omitempty"`
	ReviewedBy   string           `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time       `json:"reviewed_at,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
