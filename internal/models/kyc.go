package models

import "time"

// KYCStatus represents the review state of a KYC submission.
type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusVerified KYCStatus = "verified"
	KYCStatusRejected KYCStatus = "rejected"
)

// KYCRequest is an append-only identity verification submission. A user may
// have at most one non-rejected request at a time; only an admin decision
// moves it to a terminal status, and records are never deleted.
type KYCRequest struct {
	Base
	UserID         string     `gorm:"type:uuid;not null;index" json:"user_id"`
	FullName       string     `gorm:"not null" json:"full_name"`
	DateOfBirth    time.Time  `json:"date_of_birth"`
	Country        string     `gorm:"size:2" json:"country"`
	DocumentType   string     `gorm:"not null" json:"document_type"`
	DocumentNumber string     `gorm:"not null" json:"document_number"`
	Status         KYCStatus  `gorm:"not null;default:'pending';index" json:"status"`
	RejectReason   string     `json:"reject_reason,omitempty"`
	ReviewedBy     string     `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
