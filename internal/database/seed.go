package database

import (
	"errors"
	"fmt"
	"strings"

	"coinvault/internal/config"
	"coinvault/internal/logger"
	"coinvault/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the admin user from configuration if it does not exist.
// It is a no-op when ADMIN_EMAIL or ADMIN_PASSWORD are unset, and idempotent
// when the user already exists, so it is safe to run on every startup.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Get().Debug("Admin bootstrap skipped: ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return nil
	}

	email := strings.ToLower(cfg.AdminEmail)

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return fmt.Errorf("user %s exists but does not hold the admin role", email)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Get().Infow("Admin user seeded", "email", email)
	return nil
}
