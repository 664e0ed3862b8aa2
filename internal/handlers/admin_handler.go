package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "coinvault/internal/errors"
	"coinvault/internal/models"
	"coinvault/internal/pagination"
	"coinvault/internal/services"
)

// AdminHandler handles admin review of deposit and withdrawal requests.
type AdminHandler struct {
	depositService    services.DepositServicer
	withdrawalService services.WithdrawalServicer
	auditService      services.AuditServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(depositService services.DepositServicer, withdrawalService services.WithdrawalServicer, auditService services.AuditServicer) *AdminHandler {
	return &AdminHandler{
		depositService:    depositService,
		withdrawalService: withdrawalService,
		auditService:      auditService,
	}
}

// ListDeposits returns deposit requests across all users.
// @Summary     List deposit requests (admin)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       status query string false "Filter by status"
// @Success     200 {object} pagination.PageResponse[models.DepositRequest] "Deposit requests"
// @Router      /admin/deposits [get]
func (h *AdminHandler) ListDeposits(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.DepositStatus
	if raw := c.Query("status"); raw != "" {
		s := models.DepositStatus(raw)
		status = &s
	}

	result, err := h.depositService.ListRequests(status, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ApproveDeposit approves a pending deposit and credits the user's balance.
// @Summary     Approve deposit (admin)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deposit request ID"
// @Success     200 {object} models.DepositRequest "Approved deposit"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Already decided"
// @Router      /admin/deposits/{id}/approve [put]
func (h *AdminHandler) ApproveDeposit(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deposit, err := h.depositService.Approve(requestID, adminID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "deposit_approved", "deposit_request", deposit.ID, c.ClientIP(),
		map[string]interface{}{"asset": deposit.Asset, "amount": deposit.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"deposit": deposit})
}

// RejectDeposit rejects a pending deposit. No balance change.
// @Summary     Reject deposit (admin)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deposit request ID"
// @Param       request body RejectRequest true "Rejection reason"
// @Success     200 {object} models.DepositRequest "Rejected deposit"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Already decided"
// @Router      /admin/deposits/{id}/reject [put]
func (h *AdminHandler) RejectDeposit(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deposit, err := h.depositService.Reject(requestID, adminID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "deposit_rejected", "deposit_request", deposit.ID, c.ClientIP(),
		map[string]interface{}{"reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"deposit": deposit})
}

// ListWithdrawals returns withdrawal requests across all users.
// @Summary     List withdrawal requests (admin)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       status query string false "Filter by status"
// @Success     200 {object} pagination.PageResponse[models.WithdrawalRequest] "Withdrawal requests"
// @Router      /admin/withdrawals [get]
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.WithdrawalStatus
	if raw := c.Query("status"); raw != "" {
		s := models.WithdrawalStatus(raw)
		status = &s
	}

	result, err := h.withdrawalService.ListRequests(status, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CompleteWithdrawal marks a pending withdrawal as paid out. The amount was
// already debited at submission, so this is a status change only.
// @Summary     Complete withdrawal (admin)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Withdrawal request ID"
// @Success     200 {object} models.WithdrawalRequest "Completed withdrawal"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Already decided"
// @Router      /admin/withdrawals/{id}/complete [put]
func (h *AdminHandler) CompleteWithdrawal(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	withdrawal, err := h.withdrawalService.Complete(requestID, adminID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "withdrawal_completed", "withdrawal_request", withdrawal.ID, c.ClientIP(),
		map[string]interface{}{"asset": withdrawal.Asset, "amount": withdrawal.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"withdrawal": withdrawal})
}

// RejectWithdrawal rejects a pending withdrawal and refunds the reserved amount.
// @Summary     Reject withdrawal (admin)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Withdrawal request ID"
// @Param       request body RejectRequest true "Rejection reason"
// @Success     200 {object} models.WithdrawalRequest "Rejected withdrawal"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Already decided"
// @Router      /admin/withdrawals/{id}/reject [put]
func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	adminID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requestID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	withdrawal, err := h.withdrawalService.Reject(requestID, adminID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "withdrawal_rejected", "withdrawal_request", withdrawal.ID, c.ClientIP(),
		map[string]interface{}{"reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"withdrawal": withdrawal})
}
