// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("asset", validateAsset)
		_ = v.RegisterValidation("tier", validateTier)
		_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
		_ = v.RegisterValidation("document_type", validateDocumentType)
	}
}

func validateAsset(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "bitcoin", "ethereum", "solana":
		return true
	}
	return false
}

func validateTier(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "bronze", "silver", "gold":
		return true
	}
	return false
}

// validatePositiveAmount accepts decimal strings strictly greater than zero.
func validatePositiveAmount(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return amount.IsPositive()
}

func validateDocumentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "passport", "national_id", "drivers_license":
		return true
	}
	return false
}
