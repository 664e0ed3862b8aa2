package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"coinvault/internal/accrual"
	apperrors "coinvault/internal/errors"
	"coinvault/internal/models"
	"coinvault/internal/pagination"
	"coinvault/internal/services"
	"coinvault/internal/tiers"
)

type mockInvestmentService struct {
	previewFn            func(tier tiers.Name, amount decimal.Decimal, periodDays int) (*services.InvestmentPreview, error)
	openFn               func(userID string, tier tiers.Name, asset models.Asset, amount decimal.Decimal, periodDays int) (*models.Investment, error)
	getUserInvestmentsFn func(userID string, page pagination.PageRequest) (*pagination.PageResponse[services.InvestmentPosition], error)
	getInvestmentByIDFn  func(userID, investmentID string) (*services.InvestmentPosition, error)
	growthSeriesFn       func(userID, investmentID string) ([]accrual.Snapshot, error)
	listInvestmentsFn    func(status *models.InvestmentStatus, page pagination.PageRequest) (*pagination.PageResponse[services.InvestmentPosition], error)
	completeFn           func(investmentID string) (*models.Investment, error)
	cancelFn             func(investmentID, reason string) (*models.Investment, error)
}

func (m *mockInvestmentService) Preview(tier tiers.Name, amount decimal.Decimal, periodDays int) (*services.InvestmentPreview, error) {
	if m.previewFn != nil {
		return m.previewFn(tier, amount, periodDays)
	}
	return &services.InvestmentPreview{}, nil
}

func (m *mockInvestmentService) Open(userID string, tier tiers.Name, asset models.Asset, amount decimal.Decimal, periodDays int) (*models.Investment, error) {
	if m.openFn != nil {
		return m.openFn(userID, tier, asset, amount, periodDays)
	}
	return &models.Investment{}, nil
}

func (m *mockInvestmentService) GetUserInvestments(userID string, page pagination.PageRequest) (*pagination.PageResponse[services.InvestmentPosition], error) {
	if m.getUserInvestmentsFn != nil {
		return m.getUserInvestmentsFn(userID, page)
	}
	result := pagination.NewPageResponse([]services.InvestmentPosition{}, 1, 20, 0)
	return &result, nil
}

func (m *mockInvestmentService) GetInvestmentByID(userID, investmentID string) (*services.InvestmentPosition, error) {
	if m.getInvestmentByIDFn != nil {
		return m.getInvestmentByIDFn(userID, investmentID)
	}
	return &services.InvestmentPosition{}, nil
}

func (m *mockInvestmentService) GrowthSeries(userID, investmentID string) ([]accrual.Snapshot, error) {
	if m.growthSeriesFn != nil {
		return m.growthSeriesFn(userID, investmentID)
	}
	return nil, nil
}

func (m *mockInvestmentService) ListInvestments(status *models.InvestmentStatus, page pagination.PageRequest) (*pagination.PageResponse[services.InvestmentPosition], error) {
	if m.listInvestmentsFn != nil {
		return m.listInvestmentsFn(status, page)
	}
	result := pagination.NewPageResponse([]services.InvestmentPosition{}, 1, 20, 0)
	return &result, nil
}

func (m *mockInvestmentService) Complete(investmentID string) (*models.Investment, error) {
	if m.completeFn != nil {
		return m.completeFn(investmentID)
	}
	return &models.Investment{}, nil
}

func (m *mockInvestmentService) Cancel(investmentID, reason string) (*models.Investment, error) {
	if m.cancelFn != nil {
		return m.cancelFn(investmentID, reason)
	}
	return &models.Investment{}, nil
}

const testInvestmentID = "01890a5d-ac96-774b-bcce-b302099a9001"

func setupInvestmentRouter(handler *InvestmentHandler) *gin.Engine {
	r := gin.New()
	r.GET("/tiers", handler.GetTiers)
	auth := r.Group("/", injectUserID(testUserID))
	auth.POST("/investments/preview", handler.Preview)
	auth.POST("/investments", handler.Open)
	auth.GET("/investments", handler.GetUserInvestments)
	auth.GET("/investments/:id", handler.GetInvestmentByID)
	auth.GET("/investments/:id/growth", handler.GetGrowthSeries)
	auth.GET("/admin/investments", handler.ListInvestments)
	auth.PUT("/admin/investments/:id/complete", handler.Complete)
	auth.PUT("/admin/investments/:id/cancel", handler.Cancel)
	return r
}

func TestInvestmentHandler_GetTiers(t *testing.T) {
	t.Run("lists all tiers in order", func(t *testing.T) {
		handler := NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "GET", "/tiers", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		tierList := result["tiers"].([]interface{})
		if len(tierList) != 3 {
			t.Fatalf("expected 3 tiers, got %d", len(tierList))
		}
		first := tierList[0].(map[string]interface{})
		if first["name"] != "bronze" {
			t.Errorf("expected bronze first, got %v", first["name"])
		}
	})
}

func TestInvestmentHandler_Preview(t *testing.T) {
	t.Run("returns 200 with estimate", func(t *testing.T) {
		svc := &mockInvestmentService{
			previewFn: func(tier tiers.Name, amount decimal.Decimal, periodDays int) (*services.InvestmentPreview, error) {
				def, _ := tiers.Lookup(tier)
				return &services.InvestmentPreview{
					Tier:       def,
					Amount:     amount,
					PeriodDays: periodDays,
					Interest:   decimal.RequireFromString("369.86"),
					Total:      decimal.RequireFromString("5369.86"),
				}, nil
			},
		}
		handler := NewInvestmentHandler(svc, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "POST", "/investments/preview",
			`{"tier":"silver","amount":"5000","period_days":90}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		preview := result["preview"].(map[string]interface{})
		if preview["total"] != "5369.86" {
			t.Errorf("expected total 5369.86, got %v", preview["total"])
		}
	})

	t.Run("returns 400 on unknown tier", func(t *testing.T) {
		handler := NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "POST", "/investments/preview",
			`{"tier":"platinum","amount":"5000","period_days":90}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on negative amount", func(t *testing.T) {
		handler := NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "POST", "/investments/preview",
			`{"tier":"silver","amount":"-5000","period_days":90}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestInvestmentHandler_Open(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotUserID string
		svc := &mockInvestmentService{
			openFn: func(userID string, tier tiers.Name, asset models.Asset, amount decimal.Decimal, periodDays int) (*models.Investment, error) {
				gotUserID = userID
				return &models.Investment{
					Base:       models.Base{ID: testInvestmentID},
					UserID:     userID,
					Tier:       string(tier),
					Asset:      asset,
					Amount:     amount,
					PeriodDays: periodDays,
					Status:     models.InvestmentStatusActive,
				}, nil
			},
		}
		handler := NewInvestmentHandler(svc, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "POST", "/investments",
			`{"tier":"bronze","asset":"bitcoin","amount":"1000","period_days":30}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUserID != testUserID {
			t.Errorf("expected user ID from context, got %q", gotUserID)
		}
		result := parseJSON(t, rec)
		investment := result["investment"].(map[string]interface{})
		if investment["status"] != "active" {
			t.Errorf("expected active status, got %v", investment["status"])
		}
	})

	t.Run("returns 400 when below minimum", func(t *testing.T) {
		svc := &mockInvestmentService{
			openFn: func(_ string, _ tiers.Name, _ models.Asset, _ decimal.Decimal, _ int) (*models.Investment, error) {
				return nil, apperrors.ErrBelowMinimum
			},
		}
		handler := NewInvestmentHandler(svc, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "POST", "/investments",
			`{"tier":"bronze","asset":"bitcoin","amount":"999","period_days":30}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BELOW_MINIMUM")
	})

	t.Run("returns 400 on insufficient balance", func(t *testing.T) {
		svc := &mockInvestmentService{
			openFn: func(_ string, _ tiers.Name, _ models.Asset, _ decimal.Decimal, _ int) (*models.Investment, error) {
				return nil, apperrors.ErrInsufficientBalance
			},
		}
		handler := NewInvestmentHandler(svc, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "POST", "/investments",
			`{"tier":"bronze","asset":"bitcoin","amount":"1000","period_days":30}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unsupported asset", func(t *testing.T) {
		handler := NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "POST", "/investments",
			`{"tier":"bronze","asset":"dogecoin","amount":"1000","period_days":30}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on zero period", func(t *testing.T) {
		handler := NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "POST", "/investments",
			`{"tier":"bronze","asset":"bitcoin","amount":"1000","period_days":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestInvestmentHandler_GetInvestmentByID(t *testing.T) {
	t.Run("returns 200 with position", func(t *testing.T) {
		svc := &mockInvestmentService{
			getInvestmentByIDFn: func(userID, investmentID string) (*services.InvestmentPosition, error) {
				return &services.InvestmentPosition{
					Investment: models.Investment{
						Base:   models.Base{ID: investmentID},
						UserID: userID,
						Status: models.InvestmentStatusActive,
					},
					Progress: 50,
					Earned:   decimal.RequireFromString("20.55"),
				}, nil
			},
		}
		handler := NewInvestmentHandler(svc, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "GET", "/investments/"+testInvestmentID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		investment := result["investment"].(map[string]interface{})
		if investment["progress"] != float64(50) {
			t.Errorf("expected progress 50, got %v", investment["progress"])
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "GET", "/investments/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockInvestmentService{
			getInvestmentByIDFn: func(_, _ string) (*services.InvestmentPosition, error) {
				return nil, apperrors.ErrInvestmentNotFound
			},
		}
		handler := NewInvestmentHandler(svc, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "GET", "/investments/"+testInvestmentID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestInvestmentHandler_GetGrowthSeries(t *testing.T) {
	t.Run("returns 200 with series", func(t *testing.T) {
		svc := &mockInvestmentService{
			growthSeriesFn: func(_, _ string) ([]accrual.Snapshot, error) {
				return []accrual.Snapshot{
					{Day: 0, Value: decimal.NewFromInt(1000)},
					{Day: 1, Value: decimal.RequireFromString("1000.41")},
				}, nil
			},
		}
		handler := NewInvestmentHandler(svc, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "GET", "/investments/"+testInvestmentID+"/growth", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		series := result["series"].([]interface{})
		if len(series) != 2 {
			t.Fatalf("expected 2 snapshots, got %d", len(series))
		}
	})
}

func TestInvestmentHandler_Complete(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockInvestmentService{
			completeFn: func(investmentID string) (*models.Investment, error) {
				return &models.Investment{
					Base:   models.Base{ID: investmentID},
					Status: models.InvestmentStatusCompleted,
				}, nil
			},
		}
		handler := NewInvestmentHandler(svc, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "PUT", "/admin/investments/"+testInvestmentID+"/complete", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 409 on terminal position", func(t *testing.T) {
		svc := &mockInvestmentService{
			completeFn: func(_ string) (*models.Investment, error) {
				return nil, apperrors.ErrInvalidStateTransition
			},
		}
		handler := NewInvestmentHandler(svc, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "PUT", "/admin/investments/"+testInvestmentID+"/complete", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_STATE_TRANSITION")
	})
}

func TestInvestmentHandler_Cancel(t *testing.T) {
	t.Run("returns 200 and passes reason through", func(t *testing.T) {
		var gotReason string
		svc := &mockInvestmentService{
			cancelFn: func(investmentID, reason string) (*models.Investment, error) {
				gotReason = reason
				return &models.Investment{
					Base:         models.Base{ID: investmentID},
					Status:       models.InvestmentStatusCancelled,
					CancelReason: reason,
				}, nil
			},
		}
		handler := NewInvestmentHandler(svc, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "PUT", "/admin/investments/"+testInvestmentID+"/cancel",
			`{"reason":"customer request"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotReason != "customer request" {
			t.Errorf("expected reason to be passed through, got %q", gotReason)
		}
	})

	t.Run("returns 400 without a reason", func(t *testing.T) {
		handler := NewInvestmentHandler(&mockInvestmentService{}, &mockAuditService{})
		r := setupInvestmentRouter(handler)

		rec := doRequest(r, "PUT", "/admin/investments/"+testInvestmentID+"/cancel", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
