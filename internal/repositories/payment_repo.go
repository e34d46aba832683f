package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "mahindaexpress/internal/config"
	"mahindaexpress/internal/domain"
	"mahindaexpress/internal/domain/models"
)

type PaymentRepo struct {
	DB *sql.DB
}

func (r PaymentRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const paymentSelect = `
	SELECT id, booking_id, reference, amount, method, status,
	       COALESCE(receipt_path, ''),
	       DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s')
	FROM payment_records
`

// Create records a payment attempt. The reference is unique per attempt.
func (r PaymentRepo) Create(p models.PaymentRecord) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO payment_records (booking_id, reference, amount, method, status, receipt_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
	`, p.BookingID, p.Reference, p.Amount, string(p.Method), p.Status, nullIfBlank(p.ReceiptPath))
	if err != nil {
		if isDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "payment", Msg: "reference already recorded"}
		}
		return 0, err
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (r PaymentRepo) GetByID(id int64) (models.PaymentRecord, error) {
	if id <= 0 {
		return models.PaymentRecord{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	return scanPayment(r.db().QueryRow(paymentSelect+` WHERE id=? LIMIT 1`, id))
}

func (r PaymentRepo) GetByReference(ref string) (models.PaymentRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.PaymentRecord{}, domain.ValidationError{Field: "reference", Msg: "required"}
	}
	return scanPayment(r.db().QueryRow(paymentSelect+` WHERE reference=? LIMIT 1`, ref))
}

// ListByStatus returns payment attempts in a given status, newest first.
func (r PaymentRepo) ListByStatus(status string) ([]models.PaymentRecord, error) {
	query := paymentSelect
	args := []any{}
	if status = strings.TrimSpace(status); status != "" {
		query += ` WHERE status=?`
		args = append(args, status)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PaymentRecord{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r PaymentRepo) UpdateStatus(id int64, status string) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	res, err := r.db().Exec(`UPDATE payment_records SET status=?, updated_at=NOW() WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	// Zero rows can mean "already in that status" (a redelivered webhook),
	// which must stay a no-op; only a missing row is an error.
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int
		if err := r.db().QueryRow(`SELECT COUNT(*) FROM payment_records WHERE id=?`, id).Scan(&exists); err == nil && exists == 0 {
			return domain.NotFoundError{Resource: "payment"}
		}
	}
	return nil
}

func scanPayment(row interface{ Scan(dest ...any) error }) (models.PaymentRecord, error) {
	var p models.PaymentRecord
	var method string
	err := row.Scan(&p.ID, &p.BookingID, &p.Reference, &p.Amount, &method, &p.Status, &p.ReceiptPath, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, domain.NotFoundError{Resource: "payment", Err: err}
		}
		return p, err
	}
	p.Method = models.PaymentMethod(method)
	return p, nil
}

func nullIfBlank(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
