package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"
	"mahindaexpress/internal/metrics"
	"mahindaexpress/internal/repositories"
	"mahindaexpress/internal/utils"

	"github.com/google/uuid"
)

// PaymentService fronts the external card processor and records payment
// attempts. A booking flips to paid only through a verified webhook or an
// admin-approved bank transfer, never on a client-reported success.
type PaymentService struct {
	PaymentRepo repositories.PaymentRepo
	Bookings    BookingService
	DB          *sql.DB

	GatewayURL    string
	GatewayKey    string
	WebhookSecret string
	HTTPClient    *http.Client

	RequestID string
}

func (s PaymentService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s PaymentService) payments() repositories.PaymentRepo {
	if s.PaymentRepo.DB != nil {
		return s.PaymentRepo
	}
	return repositories.PaymentRepo{DB: s.db()}
}

func (s PaymentService) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

// Intent is what the client needs to mount the hosted payment element.
type Intent struct {
	Reference    string `json:"reference"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// CreateIntent asks the processor for a payment intent covering the booking
// total. The amount comes from the stored booking, never the client.
func (s PaymentService) CreateIntent(bookingID int64) (Intent, error) {
	var out Intent

	booking, err := s.Bookings.bookings().GetByID(bookingID)
	if err != nil {
		return out, err
	}
	if !booking.Status.Editable() {
		return out, domain.ConflictError{Resource: "booking", Msg: "booking is not awaiting payment"}
	}
	if booking.TotalFare <= 0 {
		return out, domain.ValidationError{Field: "totalFare", Msg: "booking has no payable amount"}
	}
	if s.GatewayURL == "" || s.GatewayKey == "" {
		return out, domain.InternalError{Msg: "payment gateway not configured"}
	}

	reference := uuid.NewString()
	payload, _ := json.Marshal(map[string]any{
		"amount":    booking.TotalFare,
		"currency":  "LKR",
		"reference": reference,
	})

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(s.GatewayURL, "/")+"/v1/payment_intents", bytes.NewReader(payload))
	if err != nil {
		return out, domain.InternalError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.GatewayKey)

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return out, domain.InternalError{Msg: "payment gateway unreachable", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return out, domain.InternalError{Msg: fmt.Sprintf("payment gateway returned %d", resp.StatusCode)}
	}

	var gw struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gw); err != nil {
		return out, domain.InternalError{Msg: "bad gateway response", Err: err}
	}

	if _, err := s.payments().Create(models.PaymentRecord{
		BookingID: bookingID,
		Reference: reference,
		Amount:    booking.TotalFare,
		Method:    models.PaymentCard,
		Status:    "created",
	}); err != nil {
		return out, err
	}

	utils.LogEvent(s.RequestID, "payment", "create_intent", fmt.Sprintf("booking_id=%d amount=%d", bookingID, booking.TotalFare))
	return Intent{
		Reference:    reference,
		ClientSecret: gw.ClientSecret,
		Amount:       booking.TotalFare,
		Currency:     "LKR",
	}, nil
}

// WebhookEvent is the processor's callback payload.
type WebhookEvent struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// VerifySignature checks the HMAC-SHA256 hex signature over the raw body.
func (s PaymentService) VerifySignature(body []byte, signature string) bool {
	if s.WebhookSecret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

// HandleWebhook is the authoritative payment confirmation path. Repeated
// deliveries of the same event are no-ops.
func (s PaymentService) HandleWebhook(body []byte, signature string) error {
	if !s.VerifySignature(body, signature) {
		return domain.UnauthorizedError{Msg: "invalid webhook signature"}
	}

	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return domain.ValidationError{Field: "body", Msg: "invalid webhook payload", Err: err}
	}

	payment, err := s.payments().GetByReference(ev.Reference)
	if err != nil {
		return err
	}

	switch ev.Status {
	case "succeeded":
		if payment.Status == "succeeded" {
			return nil
		}
		if _, err := s.Bookings.Transition(payment.BookingID, models.StatusPaid); err != nil {
			return err
		}
		if err := s.payments().UpdateStatus(payment.ID, "succeeded"); err != nil {
			return err
		}
		metrics.IncPaymentConfirmed()
		utils.LogEvent(s.RequestID, "payment", "webhook_succeeded", fmt.Sprintf("booking_id=%d reference=%s", payment.BookingID, payment.Reference))
		return nil
	case "failed":
		return s.payments().UpdateStatus(payment.ID, "failed")
	default:
		return domain.ValidationError{Field: "status", Msg: "unknown webhook status"}
	}
}

// SubmitBankTransfer records a manual transfer with an uploaded receipt; an
// admin approves or rejects it later.
func (s PaymentService) SubmitBankTransfer(bookingID int64, receiptPath string) (models.PaymentRecord, error) {
	booking, err := s.Bookings.bookings().GetByID(bookingID)
	if err != nil {
		return models.PaymentRecord{}, err
	}
	if !booking.Status.Editable() {
		return models.PaymentRecord{}, domain.ConflictError{Resource: "booking", Msg: "booking is not awaiting payment"}
	}
	if strings.TrimSpace(receiptPath) == "" {
		return models.PaymentRecord{}, domain.ValidationError{Field: "receipt", Msg: "receipt file required"}
	}

	p := models.PaymentRecord{
		BookingID:   bookingID,
		Reference:   uuid.NewString(),
		Amount:      booking.TotalFare,
		Method:      models.PaymentBankTransfer,
		Status:      "pending_validation",
		ReceiptPath: receiptPath,
	}
	id, err := s.payments().Create(p)
	if err != nil {
		return models.PaymentRecord{}, err
	}
	p.ID = id
	utils.LogEvent(s.RequestID, "payment", "bank_transfer_submitted", fmt.Sprintf("booking_id=%d payment_id=%d", bookingID, id))
	return p, nil
}

// Approve confirms a pending bank transfer and flips the booking to paid.
func (s PaymentService) Approve(paymentID int64) error {
	payment, err := s.payments().GetByID(paymentID)
	if err != nil {
		return err
	}
	if payment.Status != "pending_validation" {
		return domain.ConflictError{Resource: "payment", Msg: "payment is not awaiting validation"}
	}
	if _, err := s.Bookings.Transition(payment.BookingID, models.StatusPaid); err != nil {
		return err
	}
	if err := s.payments().UpdateStatus(paymentID, "approved"); err != nil {
		return err
	}
	metrics.IncPaymentConfirmed()
	return nil
}

// Reject declines a pending bank transfer; the booking stays payable.
func (s PaymentService) Reject(paymentID int64) error {
	payment, err := s.payments().GetByID(paymentID)
	if err != nil {
		return err
	}
	if payment.Status != "pending_validation" {
		return domain.ConflictError{Resource: "payment", Msg: "payment is not awaiting validation"}
	}
	return s.payments().UpdateStatus(paymentID, "rejected")
}
