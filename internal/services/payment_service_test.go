package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newPaymentService(t *testing.T) (PaymentService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := PaymentService{
		PaymentRepo:   repositories.PaymentRepo{DB: db},
		Bookings:      BookingService{BookingRepo: repositories.BookingRepo{DB: db}, DB: db},
		DB:            db,
		WebhookSecret: "whsec_test",
	}
	return svc, mock, func() { db.Close() }
}

func TestVerifySignature(t *testing.T) {
	svc := PaymentService{WebhookSecret: "whsec_test"}
	body := []byte(`{"reference":"abc","status":"succeeded"}`)

	if !svc.VerifySignature(body, sign("whsec_test", body)) {
		t.Fatal("valid signature rejected")
	}
	if svc.VerifySignature(body, sign("wrong", body)) {
		t.Fatal("signature with wrong secret accepted")
	}
	if svc.VerifySignature(body, "") {
		t.Fatal("empty signature accepted")
	}
	if (PaymentService{}).VerifySignature(body, sign("", body)) {
		t.Fatal("unconfigured secret must reject everything")
	}
}

func paymentRows(id int64, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "booking_id", "reference", "amount", "method", "status", "receipt_path", "created_at",
	}).AddRow(id, 42, "ref-1", 1790, "card", status, "", "2026-09-01 10:05:00")
}

func TestWebhookSucceededMarksBookingPaid(t *testing.T) {
	svc, mock, done := newPaymentService(t)
	defer done()

	mock.ExpectQuery("SELECT id, booking_id").WillReturnRows(paymentRows(9, "created"))
	mock.ExpectQuery("SELECT id, route_id").WillReturnRows(bookingRows(42, "pending"))
	mock.ExpectQuery("SELECT seat_no").
		WillReturnRows(sqlmock.NewRows([]string{"seat_no"}).AddRow(5).AddRow(6))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec("UPDATE payment_records SET status").
		WithArgs("succeeded", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := []byte(`{"reference":"ref-1","status":"succeeded"}`)
	if err := svc.HandleWebhook(body, sign("whsec_test", body)); err != nil {
		t.Fatalf("webhook error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWebhookSucceededIsIdempotent(t *testing.T) {
	svc, mock, done := newPaymentService(t)
	defer done()

	// Already succeeded: no booking lookup, no updates.
	mock.ExpectQuery("SELECT id, booking_id").WillReturnRows(paymentRows(9, "succeeded"))

	body := []byte(`{"reference":"ref-1","status":"succeeded"}`)
	if err := svc.HandleWebhook(body, sign("whsec_test", body)); err != nil {
		t.Fatalf("repeated delivery must be a no-op, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWebhookBadSignatureRejected(t *testing.T) {
	svc, mock, done := newPaymentService(t)
	defer done()

	body := []byte(`{"reference":"ref-1","status":"succeeded"}`)
	err := svc.HandleWebhook(body, sign("attacker", body))
	if !domain.IsUnauthorized(err) {
		t.Fatalf("expected UnauthorizedError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("nothing should have touched the database: %v", err)
	}
}

func TestWebhookFailedUpdatesPaymentOnly(t *testing.T) {
	svc, mock, done := newPaymentService(t)
	defer done()

	mock.ExpectQuery("SELECT id, booking_id").WillReturnRows(paymentRows(9, "created"))
	mock.ExpectExec("UPDATE payment_records SET status").
		WithArgs("failed", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := []byte(`{"reference":"ref-1","status":"failed"}`)
	if err := svc.HandleWebhook(body, sign("whsec_test", body)); err != nil {
		t.Fatalf("webhook error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWebhookFailedRedeliveredIsNoOp(t *testing.T) {
	svc, mock, done := newPaymentService(t)
	defer done()

	// Already failed: the update touches no rows, but the row exists, so the
	// redelivery must not surface an error.
	mock.ExpectQuery("SELECT id, booking_id").WillReturnRows(paymentRows(9, "failed"))
	mock.ExpectExec("UPDATE payment_records SET status").
		WithArgs("failed", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payment_records`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	body := []byte(`{"reference":"ref-1","status":"failed"}`)
	if err := svc.HandleWebhook(body, sign("whsec_test", body)); err != nil {
		t.Fatalf("redelivered failed webhook must be a no-op, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApproveRequiresPendingValidation(t *testing.T) {
	svc, mock, done := newPaymentService(t)
	defer done()

	mock.ExpectQuery("SELECT id, booking_id").WillReturnRows(paymentRows(9, "approved"))

	err := svc.Approve(9)
	if !domain.IsConflict(err) {
		t.Fatalf("expected ConflictError for re-approval, got %v", err)
	}
}
