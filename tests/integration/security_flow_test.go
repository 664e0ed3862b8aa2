package integration

import (
	"net/http"
	"testing"
)

func TestAuthenticationRequired(t *testing.T) {
	app := setupApp(t)

	protectedPaths := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/profile"},
		{"GET", "/api/v1/balance"},
		{"POST", "/api/v1/deposits"},
		{"POST", "/api/v1/withdrawals"},
		{"POST", "/api/v1/investments"},
		{"POST", "/api/v1/kyc"},
		{"GET", "/api/v1/admin/deposits"},
	}

	for _, p := range protectedPaths {
		rec := app.request(p.method, p.path, "{}", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}

	// A tampered token is as good as none.
	rec := app.request("GET", "/api/v1/profile", "", "not.a.jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("tampered token: expected 401, got %d", rec.Code)
	}

	// The tier table stays public.
	rec = app.request("GET", "/api/v1/tiers", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("tiers without token: expected 200, got %d", rec.Code)
	}
}

func TestAdminRoutesForbiddenForUsers(t *testing.T) {
	app := setupApp(t)
	userToken, _, _ := app.registerUser(t, "mallory@example.com", "password123")

	adminPaths := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/admin/kyc"},
		{"GET", "/api/v1/admin/deposits"},
		{"GET", "/api/v1/admin/withdrawals"},
		{"GET", "/api/v1/admin/investments"},
		{"PUT", "/api/v1/admin/deposits/01890a5d-ac96-774b-bcce-b302099a6001/approve"},
	}

	for _, p := range adminPaths {
		rec := app.request(p.method, p.path, "", userToken)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s as plain user: expected 403, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestAdminRoleReadFromDatabase(t *testing.T) {
	app := setupApp(t)
	adminToken, adminID := app.registerAdmin(t, "admin@example.com", "admin-password-1")

	rec := app.request("GET", "/api/v1/admin/deposits", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list failed: %d", rec.Code)
	}

	// Demote the admin directly; the same token must stop working because the
	// role is re-read from the database on every request.
	if err := app.DB.Table("users").Where("id = ?", adminID).Update("role", "user").Error; err != nil {
		t.Fatalf("failed to demote admin: %v", err)
	}

	rec = app.request("GET", "/api/v1/admin/deposits", "", adminToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after demotion, got %d", rec.Code)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	app := setupApp(t)
	adminToken, _ := app.registerAdmin(t, "admin@example.com", "admin-password-1")
	aliceToken, _, _ := app.registerUser(t, "alice@example.com", "password123")
	bobToken, _, _ := app.registerUser(t, "bob@example.com", "password123")
	app.fundUser(t, aliceToken, adminToken, "bitcoin", "2000")

	rec := app.request("POST", "/api/v1/investments",
		`{"tier":"bronze","asset":"bitcoin","amount":"1500","period_days":30}`, aliceToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open failed: %d %s", rec.Code, rec.Body.String())
	}
	investmentID := parseJSON(t, rec)["investment"].(map[string]interface{})["id"].(string)

	// Bob cannot see Alice's position; existence is not revealed.
	rec = app.request("GET", "/api/v1/investments/"+investmentID, "", bobToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign position, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/investments/"+investmentID+"/growth", "", bobToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign growth series, got %d", rec.Code)
	}

	// Bob's own lists stay empty.
	rec = app.request("GET", "/api/v1/investments", "", bobToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d", rec.Code)
	}
	if parseJSON(t, rec)["total_items"] != float64(0) {
		t.Error("expected empty investment list for bob")
	}

	rec = app.request("GET", "/api/v1/deposits", "", bobToken)
	if parseJSON(t, rec)["total_items"] != float64(0) {
		t.Error("expected empty deposit list for bob")
	}
}
