package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"coinvault/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdmin creates a user with the admin role.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote test admin: %v", err)
	}
	user.Role = models.RoleAdmin
	return user
}

// CreateTestBalance creates a balance record holding the given amount of the
// given asset, with TotalBalance consistent.
func CreateTestBalance(t *testing.T, db *gorm.DB, userID string, asset models.Asset, amount decimal.Decimal) *models.AssetBalance {
	t.Helper()

	balance := &models.AssetBalance{
		UserID:       userID,
		Bitcoin:      decimal.Zero,
		Ethereum:     decimal.Zero,
		Solana:       decimal.Zero,
		TotalBalance: amount,
	}
	balance.SetAssetAmount(asset, amount)
	if err := db.Create(balance).Error; err != nil {
		t.Fatalf("failed to create test balance: %v", err)
	}
	return balance
}

// CreateTestInvestment creates an active investment position.
func CreateTestInvestment(t *testing.T, db *gorm.DB, userID string, amount decimal.Decimal, periodDays int) *models.Investment {
	t.Helper()

	now := time.Now().UTC()
	investment := &models.Investment{
		UserID:     userID,
		Tier:       "bronze",
		Asset:      models.AssetBitcoin,
		Amount:     amount,
		APR:        decimal.NewFromInt(15),
		PeriodDays: periodDays,
		StartDate:  now,
		EndDate:    now.AddDate(0, 0, periodDays),
		Status:     models.InvestmentStatusActive,
	}
	if err := db.Create(investment).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return investment
}

// BackdateInvestment shifts an investment's start and end dates into the past
// so a test can observe elapsed-time behavior without waiting.
func BackdateInvestment(t *testing.T, db *gorm.DB, investment *models.Investment, days int) {
	t.Helper()

	start := investment.StartDate.AddDate(0, 0, -days)
	end := investment.EndDate.AddDate(0, 0, -days)
	if err := db.Model(investment).Updates(map[string]interface{}{
		"start_date": start,
		"end_date":   end,
	}).Error; err != nil {
		t.Fatalf("failed to backdate test investment: %v", err)
	}
	investment.StartDate = start
	investment.EndDate = end
}

// CreateTestKYCRequest creates a KYC request with the given status.
func CreateTestKYCRequest(t *testing.T, db *gorm.DB, userID string, status models.KYCStatus) *models.KYCRequest {
	t.Helper()

	request := &models.KYCRequest{
		UserID:         userID,
		FullName:       fmt.Sprintf("Test User %d", nextID()),
		Country:        "US",
		DocumentType:   "passport",
		DocumentNumber: fmt.Sprintf("P%08d", nextID()),
		Status:         status,
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("failed to create test KYC request: %v", err)
	}
	return request
}

// CreateTestDepositRequest creates a pending deposit request.
func CreateTestDepositRequest(t *testing.T, db *gorm.DB, userID string, asset models.Asset, amount decimal.Decimal) *models.DepositRequest {
	t.Helper()

	request := &models.DepositRequest{
		UserID: userID,
		Asset:  asset,
		Amount: amount,
		TxHash: fmt.Sprintf("0xdeadbeef%d", nextID()),
		Status: models.DepositStatusPending,
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("failed to create test deposit request: %v", err)
	}
	return request
}
