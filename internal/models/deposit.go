package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositStatus represents the review state of a deposit request.
type DepositStatus string

const (
	DepositStatusPending  DepositStatus = "pending"
	DepositStatusApproved DepositStatus = "approved"
	DepositStatusRejected DepositStatus = "rejected"
)

// DepositRequest records a user's claim of an incoming transfer. The ledger
// is credited only when an admin approves the request; the credit and the
// status flip happen in the same database transaction.
type DepositRequest struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Asset        Asset           `gorm:"not null" json:"asset"`
	Amount       decimal.Decimal `gorm:"type:numeric(30,8);not null" json:"amount"`
	TxHash       string          `json:"tx_hash,omitempty"`
	Status       DepositStatus   `gorm:"not null;default:'pending';index" json:"status"`
	RejectReason string          `json:"reject_reason,omitempty"`
	ReviewedBy   string          `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time      `json:"reviewed_at,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
