package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mahindaexpress/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type intentRequest struct {
	BookingID int64 `json:"bookingId" binding:"required"`
}

// POST /api/payments/create-payment-intent
func CreatePaymentIntent(c *gin.Context) {
	var req intentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	intent, err := paymentSvc(c).CreateIntent(req.BookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

// POST /api/payments/webhook
//
// The processor signs the raw body; the booking flips to paid only here or
// through an approved bank transfer.
func PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable body", err)
		return
	}
	if err := paymentSvc(c).HandleWebhook(body, c.GetHeader("X-Signature")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// POST /api/payments/bank-transfer  (multipart: bookingId, receipt)
func SubmitBankTransfer(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.PostForm("bookingId"), 10, 64)
	if err != nil || bookingID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid bookingId", err)
		return
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "receipt file is required", err)
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".pdf":
	default:
		RespondError(c, http.StatusBadRequest, "receipt must be jpg, png or pdf", nil)
		return
	}
	if file.Size > 5<<20 {
		RespondError(c, http.StatusBadRequest, "receipt must be 5MB or smaller", nil)
		return
	}

	dir := deps.UploadDir
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to prepare upload dir", err)
		return
	}
	name := fmt.Sprintf("receipt_%d_%s_%s%s", bookingID, time.Now().Format("20060102150405"), uuid.NewString()[:8], ext)
	dst := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to save receipt", err)
		return
	}

	payment, err := paymentSvc(c).SubmitBankTransfer(bookingID, dst)
	if err != nil {
		_ = os.Remove(dst)
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// GET /api/payments?status=pending_validation (admin)
func AdminListPayments(c *gin.Context) {
	list, err := (repositories.PaymentRepo{}).ListByStatus(strings.TrimSpace(c.Query("status")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PUT /api/payments/:id/approve (admin)
func ApprovePayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid payment id", err)
		return
	}
	if err := paymentSvc(c).Approve(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment approved"})
}

// PUT /api/payments/:id/reject (admin)
func RejectPayment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid payment id", err)
		return
	}
	if err := paymentSvc(c).Reject(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment rejected"})
}
