package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "coinvault/internal/errors"
	"coinvault/internal/models"
	"coinvault/internal/pagination"
	"coinvault/internal/services"
)

// KYCHandler handles KYC submissions and admin review.
type KYCHandler struct {
	kycService   services.KYCServicer
	auditService services.AuditServicer
}

// NewKYCHandler creates a new KYCHandler.
func NewKYCHandler(kycService services.KYCServicer, auditService services.AuditServicer) *KYCHandler {
	return &KYCHandler{kycService: kycService, auditService: auditService}
}

// SubmitKYCRequest represents the KYC submission payload.
type SubmitKYCRequest struct {
	FullName       string     `json:"full_name" binding:"required,min=2,max=200"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Country        string     `json:"country" binding:"required,len=2"`
	DocumentType   string     `json:"document_type" binding:"required,document_type"`
	DocumentNumber string     `json:"document_number" binding:"required,min=4,max=64"`
}

// RejectRequest represents an admin rejection payload.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// Submit creates a pending KYC request for the caller.
// @Summary     Submit KYC
// @Description Submit identity documents for verification
// @Tags        kyc
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SubmitKYCRequest true "Identity details"
// @Success     201 {object} models.KYCRequest "KYC request created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Open request already exists"
// @Router      /kyc [post]
func (h *KYCHandler) Submit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SubmitKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	submission := services.KYCSubmission{
		FullName:       req.FullName,
		Country:        req.Country,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
	}
	if req.DateOfBirth != nil {
		submission.DateOfBirth = *req.DateOfBirth
	}

	request, err := h.kycService.Submit(userID, submission)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"kyc_request": request})
}

// GetStatus returns the caller's most recent KYC request.
// @Summary     Get KYC status
// @Tags        kyc
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.KYCRequest "Latest KYC request"
// @Failure     404 {object} ErrorResponse "No submission yet"
// @Router      /kyc [get]
func (h *KYCHandler) GetStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.kycService.GetLatest(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"kyc_request": request})
}

// ListRequests returns KYC requests across all users. Admin only.
// @Summary     List KYC requests (admin)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       status query string false "Filter by status"
// @Success     200 {object} pagination.PageResponse[models.KYCRequest] "KYC requests"
// @Router      /admin/kyc [get]
func (h *KYCHandler) ListRequests(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.KYCStatus
	if raw := c.Query("status"); raw != "" {
		s := models.KYCStatus(raw)
		status = &s
	}

	result, err := h.kycService.ListRequests(status, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Verify approves a pending KYC request. Admin only.
// @Summary     Verify KYC request (admin)
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "KYC request ID"
// @Success     200 {object} models.KYCRequest "Verified request"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Already decided"
// @Router      /admin/kyc/{id}/verify [put]
func (h *KYCHandler) Verify(c *gin.Context) {
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

	request, err := h.kycService.Verify(requestID, adminID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "kyc_verified", "kyc_request", request.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"kyc_request": request})
}

// Reject refuses a pending KYC request. Admin only.
// @Summary     Reject KYC request (admin)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "KYC request ID"
// @Param       request body RejectRequest true "Rejection reason"
// @Success     200 {object} models.KYCRequest "Rejected request"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Already decided"
// @Router      /admin/kyc/{id}/reject [put]
func (h *KYCHandler) Reject(c *gin.Context) {
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

	request, err := h.kycService.Reject(requestID, adminID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(adminID, "kyc_rejected", "kyc_request", request.ID, c.ClientIP(),
		map[string]interface{}{"reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"kyc_request": request})
}
