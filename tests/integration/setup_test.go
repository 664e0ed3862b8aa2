package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"coinvault/internal/logger"
	"coinvault/internal/models"
	"coinvault/internal/server"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

// Note: no test-side validator registration here. The router comes from
// server.New, the same constructor the production binary uses, so these tests
// exercise the real wiring including custom binding-tag registration.
func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.AssetBalance{},
		&models.Investment{},
		&models.KYCRequest{},
		&models.DepositRequest{},
		&models.WithdrawalRequest{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates the production application stack backed by an isolated
// in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	return &testApp{DB: db, Router: server.New(db)}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// registerAdmin registers a user and promotes them to the admin role directly
// in the database, the same effect the startup seeder has in production.
func (app *testApp) registerAdmin(t *testing.T, email, password string) (accessToken, userID string) {
	t.Helper()
	token, _, id := app.registerUser(t, email, password)
	if err := app.DB.Model(&models.User{}).Where("id = ?", id).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote admin: %v", err)
	}
	return token, id
}

// fundUser pushes a deposit through the full flow: user submits, admin approves.
func (app *testApp) fundUser(t *testing.T, userToken, adminToken, asset, amount string) {
	t.Helper()
	body := fmt.Sprintf(`{"asset":%q,"amount":%q,"tx_hash":"0xfund"}`, asset, amount)
	rec := app.request("POST", "/api/v1/deposits", body, userToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("deposit submit failed: %d %s", rec.Code, rec.Body.String())
	}
	deposit := parseJSON(t, rec)["deposit"].(map[string]interface{})
	depositID := deposit["id"].(string)

	rec = app.request("PUT", "/api/v1/admin/deposits/"+depositID+"/approve", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("deposit approve failed: %d %s", rec.Code, rec.Body.String())
	}
}

// getBalance fetches the caller's balance map.
func (app *testApp) getBalance(t *testing.T, token string) map[string]interface{} {
	t.Helper()
	rec := app.request("GET", "/api/v1/balance", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance fetch failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["balance"].(map[string]interface{})
}
