package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus represents the lifecycle state of an investment position.
// Transitions are one-directional: active -> completed or active -> cancelled.
type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "active"
	InvestmentStatusCompleted InvestmentStatus = "completed"
	InvestmentStatusCancelled InvestmentStatus = "cancelled"
)

// Investment represents one locked position. Amount and APR are fixed at
// creation; APR is a snapshot of the tier rate at open time, so later tier
// policy changes never affect open positions.
type Investment struct {
	Base
	UserID       string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Tier         string           `gorm:"not null" json:"tier"`
	Asset        Asset            `gorm:"not null" json:"asset"`
	Amount       decimal.Decimal  `gorm:"type:numeric(30,8);not null" json:"amount"`
	APR          decimal.Decimal  `gorm:"type:numeric(10,4);not null" json:"apr"`
	PeriodDays   int              `gorm:"not null" json:"period_days"`
	StartDate    time.Time        `gorm:"not null" json:"start_date"`
	EndDate      time.Time        `gorm:"not null" json:"end_date"`
	Status       InvestmentStatus `gorm:"not null;default:'active';index" json:"status"`
	CancelReason string           `json:"cancel_reason,omitempty"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// IsTerminal reports whether the investment has reached a terminal status.
func (i *Investment) IsTerminal() bool {
	return i.Status == InvestmentStatusCompleted || i.Status == InvestmentStatusCancelled
}

// ElapsedDays returns the number of whole days elapsed since the start date,
// clamped to [0, PeriodDays].
func (i *Investment) ElapsedDays(now time.Time) int {
	if now.Before(i.StartDate) {
		return 0
	}
	days := int(now.Sub(i.StartDate).Hours() / 24)
	if days > i.PeriodDays {
		return i.PeriodDays
	}
	return days
}

// IsMature reports whether the full period has elapsed.
func (i *Investment) IsMature(now time.Time) bool {
	return !now.Before(i.EndDate)
}
