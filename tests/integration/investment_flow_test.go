package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"coinvault/internal/models"
)

// roundString parses a decimal JSON value and renders it rounded to cents,
// so assertions can use the human-readable figures from the tier table.
func roundString(t *testing.T, v interface{}) string {
	t.Helper()
	s, ok := v.(string)
	if !ok {
		t.Fatalf("expected decimal string, got %T (%v)", v, v)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("failed to parse decimal %q: %v", s, err)
	}
	return d.Round(2).String()
}

// backdate shifts an investment's start and end dates into the past so that
// interest accrues without waiting.
func (app *testApp) backdate(t *testing.T, investmentID string, days int) {
	t.Helper()
	var inv models.Investment
	if err := app.DB.First(&inv, "id = ?", investmentID).Error; err != nil {
		t.Fatalf("failed to load investment: %v", err)
	}
	shift := time.Duration(days) * 24 * time.Hour
	err := app.DB.Model(&models.Investment{}).Where("id = ?", investmentID).Updates(map[string]interface{}{
		"start_date": inv.StartDate.Add(-shift),
		"end_date":   inv.EndDate.Add(-shift),
	}).Error
	if err != nil {
		t.Fatalf("failed to backdate investment: %v", err)
	}
}

func TestInvestmentFlow(t *testing.T) {
	app := setupApp(t)
	adminToken, _ := app.registerAdmin(t, "admin@example.com", "admin-password-1")
	userToken, _, _ := app.registerUser(t, "frank@example.com", "password123")
	app.fundUser(t, userToken, adminToken, "bitcoin", "6000")

	// Preview shows the projected payout without touching the balance.
	rec := app.request("POST", "/api/v1/investments/preview",
		`{"tier":"silver","amount":"5000","period_days":90}`, userToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview failed: %d %s", rec.Code, rec.Body.String())
	}
	preview := parseJSON(t, rec)["preview"].(map[string]interface{})
	if got := roundString(t, preview["interest"]); got != "369.86" {
		t.Errorf("expected interest 369.86, got %s", got)
	}
	if got := roundString(t, preview["total"]); got != "5369.86" {
		t.Errorf("expected total 5369.86, got %s", got)
	}

	// Opening the position locks the principal.
	rec = app.request("POST", "/api/v1/investments",
		`{"tier":"silver","asset":"bitcoin","amount":"5000","period_days":90}`, userToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open failed: %d %s", rec.Code, rec.Body.String())
	}
	investment := parseJSON(t, rec)["investment"].(map[string]interface{})
	investmentID := investment["id"].(string)
	if investment["status"] != "active" {
		t.Fatalf("expected active position, got %v", investment["status"])
	}

	balance := app.getBalance(t, userToken)
	if balance["bitcoin"] != "1000" {
		t.Fatalf("expected 1000 left after locking principal, got %v", balance["bitcoin"])
	}

	// The position is visible with progress and a growth series.
	rec = app.request("GET", "/api/v1/investments/"+investmentID, "", userToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("position fetch failed: %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/investments/"+investmentID+"/growth", "", userToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("growth fetch failed: %d", rec.Code)
	}
	series := parseJSON(t, rec)["series"].([]interface{})
	if len(series) != 91 {
		t.Errorf("expected 91 snapshots for a 90-day term, got %d", len(series))
	}

	// Mature the position, then complete it as admin.
	app.backdate(t, investmentID, 90)

	rec = app.request("PUT", "/api/v1/admin/investments/"+investmentID+"/complete", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete failed: %d %s", rec.Code, rec.Body.String())
	}

	// Principal plus full-term interest comes back: 1000 + 5369.86.
	balance = app.getBalance(t, userToken)
	if got := roundString(t, balance["bitcoin"]); got != "6369.86" {
		t.Errorf("expected 6369.86 after completion, got %s", got)
	}

	// Completing twice must not pay twice.
	rec = app.request("PUT", "/api/v1/admin/investments/"+investmentID+"/complete", "", adminToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double completion, got %d", rec.Code)
	}
	balance = app.getBalance(t, userToken)
	if got := roundString(t, balance["bitcoin"]); got != "6369.86" {
		t.Errorf("double completion changed balance: %s", got)
	}
}

func TestInvestmentBelowMinimum(t *testing.T) {
	app := setupApp(t)
	adminToken, _ := app.registerAdmin(t, "admin@example.com", "admin-password-1")
	userToken, _, _ := app.registerUser(t, "grace@example.com", "password123")
	app.fundUser(t, userToken, adminToken, "bitcoin", "5000")

	rec := app.request("POST", "/api/v1/investments",
		`{"tier":"gold","asset":"bitcoin","amount":"5000","period_days":30}`, userToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 below gold minimum, got %d: %s", rec.Code, rec.Body.String())
	}

	// The failed open left the balance untouched.
	balance := app.getBalance(t, userToken)
	if balance["bitcoin"] != "5000" {
		t.Errorf("failed open moved funds: %v", balance["bitcoin"])
	}
}

func TestInvestmentCancellation(t *testing.T) {
	app := setupApp(t)
	adminToken, _ := app.registerAdmin(t, "admin@example.com", "admin-password-1")
	userToken, _, _ := app.registerUser(t, "heidi@example.com", "password123")
	app.fundUser(t, userToken, adminToken, "ethereum", "2000")

	rec := app.request("POST", "/api/v1/investments",
		`{"tier":"bronze","asset":"ethereum","amount":"1500","period_days":180}`, userToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open failed: %d %s", rec.Code, rec.Body.String())
	}
	investmentID := parseJSON(t, rec)["investment"].(map[string]interface{})["id"].(string)

	app.backdate(t, investmentID, 30)

	// Cancellation refunds the principal only, regardless of elapsed time.
	rec = app.request("PUT", "/api/v1/admin/investments/"+investmentID+"/cancel",
		`{"reason":"customer request"}`, adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel failed: %d %s", rec.Code, rec.Body.String())
	}
	investment := parseJSON(t, rec)["investment"].(map[string]interface{})
	if investment["status"] != "cancelled" {
		t.Errorf("expected cancelled status, got %v", investment["status"])
	}

	balance := app.getBalance(t, userToken)
	if balance["ethereum"] != "2000" {
		t.Errorf("expected principal-only refund back to 2000, got %v", balance["ethereum"])
	}
}
