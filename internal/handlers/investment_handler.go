package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "coinvault/internal/errors"
	"coinvault/internal/models"
	"coinvault/internal/pagination"
	"coinvault/internal/services"
	"coinvault/internal/tiers"
)

// InvestmentHandler handles investment-related requests.
type InvestmentHandler struct {
	investmentService services.InvestmentServicer
	auditService      services.AuditServicer
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(investmentService services.InvestmentServicer, auditService services.AuditServicer) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService, auditService: auditService}
}

// OpenInvestmentRequest represents the payload for opening a position.
type OpenInvestmentRequest struct {
	Tier       string `json:"tier" binding:"required,tier"`
	Asset      string `json:"asset" binding:"required,asset"`
	Amount     string `json:"amount" binding:"required,positive_amount"`
	PeriodDays int    `json:"period_days" binding:"required,gt=0,lte=3650"`
}

// PreviewRequest represents the payload for previewing returns.
type PreviewRequest struct {
	Tier       string `json:"tier" binding:"required,tier"`
	Amount     string `json:"amount" binding:"required,positive_amount"`
	PeriodDays int    `json:"period_days" binding:"required,gt=0,lte=3650"`
}

// CancelInvestmentRequest represents the admin cancellation payload.
type CancelInvestmentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// GetTiers lists the tier policy table.
// @Summary     List investment tiers
// @Description List tier names with their minimum amounts and annual rates
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} tiers.Tier "Tiers"
// @Router      /tiers [get]
func (h *InvestmentHandler) GetTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tiers": tiers.All()})
}

// Preview estimates the outcome of a prospective position.
// @Summary     Preview investment returns
// @Description Estimate simple-interest returns for a tier, amount, and period
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PreviewRequest true "Preview parameters"
// @Success     200 {object} services.InvestmentPreview "Estimated returns"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /investments/preview [post]
func (h *InvestmentHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid amount"))
		return
	}

	preview, err := h.investmentService.Preview(tiers.Name(req.Tier), amount, req.PeriodDays)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preview": preview})
}

// Open creates a new investment position.
// @Summary     Open investment
// @Description Lock an amount into a tiered position; the balance is debited immediately
// @Tags        investments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body OpenInvestmentRequest true "Position details"
// @Success     201 {object} models.Investment "Investment created"
// @Failure     400 {object} ErrorResponse "Below tier minimum or insufficient balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /investments [post]
func (h *InvestmentHandler) Open(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req OpenInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid amount"))
		return
	}

	investment, err := h.investmentService.Open(userID, tiers.Name(req.Tier), models.Asset(req.Asset), amount, req.PeriodDays)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "investment_opened", "investment", investment.ID, c.ClientIP(),
		map[string]interface{}{"tier": req.Tier, "asset": req.Asset, "amount": req.Amount, "period_days": req.PeriodDays})

	c.JSON(http.StatusCreated, gin.H{"investment": investment})
}

// GetUserInvestments returns the caller's positions, newest first.
// @Summary     List own investments
// @Description List the caller's positions with lazily computed progress and earnings
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} pagination.PageResponse[services.InvestmentPosition] "Investments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /investments [get]
func (h *InvestmentHandler) GetUserInvestments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.investmentService.GetUserInvestments(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvestmentByID returns one of the caller's positions.
// @Summary     Get investment
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {object} services.InvestmentPosition "Investment"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /investments/{id} [get]
func (h *InvestmentHandler) GetInvestmentByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	position, err := h.investmentService.GetInvestmentByID(userID, investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment": position})
}

// GetGrowthSeries returns the daily-compounding chart series for a position.
// @Summary     Get growth series
// @Description Daily-compounding value series over the position's full period
// @Tags        investments
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {array} accrual.Snapshot "Growth series"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /investments/{id}/growth [get]
func (h *InvestmentHandler) GetGrowthSeries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	series, err := h.investmentService.GrowthSeries(userID, investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": series})
}

// ListInvestments returns positions across all users. Admin only.
// @Summary     List all investments (admin)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       status query string false "Filter by status"
// @Success     200 {object} pagination.PageResponse[services.InvestmentPosition] "Investments"
// @Router      /admin/investments [get]
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.InvestmentStatus
	if raw := c.Query("status"); raw != "" {
		s := models.InvestmentStatus(raw)
		status = &s
	}

	result, err := h.investmentService.ListInvestments(status, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Complete settles an active position, crediting principal plus accrued
// interest. Admin only.
// @Summary     Complete investment (admin)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Success     200 {object} models.Investment "Completed investment"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Already terminal"
// @Router      /admin/investments/{id}/complete [put]
func (h *InvestmentHandler) Complete(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	investment, err := h.investmentService.Complete(investmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "investment_completed", "investment", investment.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}

// Cancel terminates an active position, crediting principal only. Admin only.
// @Summary     Cancel investment (admin)
// @Description Cancel an active position; accrued interest is forfeited
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Investment ID"
// @Param       request body CancelInvestmentRequest true "Cancellation reason"
// @Success     200 {object} models.Investment "Cancelled investment"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Already terminal"
// @Router      /admin/investments/{id}/cancel [put]
func (h *InvestmentHandler) Cancel(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	investmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CancelInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	investment, err := h.investmentService.Cancel(investmentID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "investment_cancelled", "investment", investment.ID, c.ClientIP(),
		map[string]interface{}{"reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"investment": investment})
}
