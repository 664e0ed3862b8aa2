package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "coinvault/internal/errors"
	"coinvault/internal/models"
	"coinvault/internal/pagination"
	"coinvault/internal/services"
)

// BalanceHandler handles balance queries and deposit/withdrawal requests.
type BalanceHandler struct {
	balanceService    services.BalanceServicer
	depositService    services.DepositServicer
	withdrawalService services.WithdrawalServicer
	auditService      services.AuditServicer
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(
	balanceService services.BalanceServicer,
	depositService services.DepositServicer,
	withdrawalService services.WithdrawalServicer,
	auditService services.AuditServicer,
) *BalanceHandler {
	return &BalanceHandler{
		balanceService:    balanceService,
		depositService:    depositService,
		withdrawalService: withdrawalService,
		auditService:      auditService,
	}
}

// DepositRequestPayload represents the deposit submission payload. Amounts
// travel as decimal strings to avoid float rounding on the wire.
type DepositRequestPayload struct {
	Asset  string `json:"asset" binding:"required,asset"`
	Amount string `json:"amount" binding:"required,positive_amount"`
	TxHash string `json:"tx_hash" binding:"max=128"`
}

// WithdrawRequestPayload represents the withdrawal submission payload.
type WithdrawRequestPayload struct {
	Asset   string `json:"asset" binding:"required,asset"`
	Amount  string `json:"amount" binding:"required,positive_amount"`
	Address string `json:"address" binding:"required,min=16,max=128"`
}

// GetBalance returns the caller's asset balance.
// @Summary     Get balance
// @Description Get the authenticated user's per-asset balances and total
// @Tags        balances
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.AssetBalance "Balance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /balance [get]
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.balanceService.Get(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// SubmitDeposit creates a pending deposit request for admin review.
// @Summary     Submit deposit request
// @Description Record an incoming transfer for admin review; the balance is credited on approval
// @Tags        balances
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body DepositRequestPayload true "Deposit details"
// @Success     201 {object} models.DepositRequest "Deposit request created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /deposits [post]
func (h *BalanceHandler) SubmitDeposit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DepositRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid amount"))
		return
	}

	request, err := h.depositService.Submit(userID, models.Asset(req.Asset), amount, req.TxHash)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"deposit": request})
}

// SubmitWithdrawal creates a pending withdrawal request. Requires a verified
// KYC record; the amount is reserved immediately.
// @Summary     Submit withdrawal request
// @Description Request a withdrawal; requires verified KYC, funds are reserved until review
// @Tags        balances
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body WithdrawRequestPayload true "Withdrawal details"
// @Success     201 {object} models.WithdrawalRequest "Withdrawal request created"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient balance"
// @Failure     403 {object} ErrorResponse "KYC required"
// @Router      /withdrawals [post]
func (h *BalanceHandler) SubmitWithdrawal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req WithdrawRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid amount"))
		return
	}

	request, err := h.withdrawalService.Submit(userID, models.Asset(req.Asset), amount, req.Address)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "withdrawal_requested", "withdrawal_request", request.ID, c.ClientIP(),
		map[string]interface{}{"asset": req.Asset, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"withdrawal": request})
}

// GetDeposits returns the caller's deposit requests, newest first.
// @Summary     List own deposit requests
// @Tags        balances
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} pagination.PageResponse[models.DepositRequest] "Deposit requests"
// @Router      /deposits [get]
func (h *BalanceHandler) GetDeposits(c *gin.Context) {
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

	result, err := h.depositService.GetUserDeposits(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetWithdrawals returns the caller's withdrawal requests, newest first.
// @Summary     List own withdrawal requests
// @Tags        balances
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} pagination.PageResponse[models.WithdrawalRequest] "Withdrawal requests"
// @Router      /withdrawals [get]
func (h *BalanceHandler) GetWithdrawals(c *gin.Context) {
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

	result, err := h.withdrawalService.GetUserWithdrawals(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
