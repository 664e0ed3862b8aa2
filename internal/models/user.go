package models

import "time"

// Role represents a user's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents the user model in the database
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Role                Role       `gorm:"not null;default:'user'" json:"role"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Investments        []Investment        `gorm:"foreignKey:UserID" json:"investments,omitempty"`
	KYCRequests        []KYCRequest        `gorm:"foreignKey:UserID" json:"kyc_requests,omitempty"`
	DepositRequests    []DepositRequest    `gorm:"foreignKey:UserID" json:"deposit_requests,omitempty"`
	WithdrawalRequests []WithdrawalRequest `gorm:"foreignKey:UserID" json:"withdrawal_requests,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
