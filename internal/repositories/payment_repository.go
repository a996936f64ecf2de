package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ices/internal/models"
)

type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id int) (*models.Payment, error)
	List() ([]*models.Payment, error)
	Summary() (*models.PaymentSummary, error)
}

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{DB: db}
}

func (r *paymentRepository) Create(payment *models.Payment) error {
	const q = `
		INSERT INTO payments (student_id, purpose, amount, method, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if payment.Date.IsZero() {
		payment.Date = time.Now()
	}
	if err := r.DB.QueryRow(q,
		payment.StudentID, payment.Purpose, payment.Amount, payment.Method, payment.Date,
	).Scan(&payment.ID); err != nil {
		return fmt.Errorf("payment create: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByID(id int) (*models.Payment, error) {
	const q = `
		SELECT p.id, p.student_id, p.purpose, p.amount, p.method, p.date,
		       COALESCE(s.name, ''), COALESCE(s.email, '')
		FROM payments p
		LEFT JOIN students s ON p.student_id = s.id
		WHERE p.id = $1
	`
	var p models.Payment
	if err := r.DB.QueryRow(q, id).Scan(
		&p.ID, &p.StudentID, &p.Purpose, &p.Amount, &p.Method, &p.Date,
		&p.StudentName, &p.StudentEmail,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("payment get: %w", err)
	}
	return &p, nil
}

func (r *paymentRepository) List() ([]*models.Payment, error) {
	const q = `
		SELECT p.id, p.student_id, p.purpose, p.amount, p.method, p.date,
		       COALESCE(s.name, ''), COALESCE(s.email, '')
		FROM payments p
		LEFT JOIN students s ON p.student_id = s.id
		ORDER BY p.date DESC
	`
	rows, err := r.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("payment list: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.ID, &p.StudentID, &p.Purpose, &p.Amount, &p.Method, &p.Date,
			&p.StudentName, &p.StudentEmail,
		); err != nil {
			return nil, fmt.Errorf("payment list scan: %w", err)
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) Summary() (*models.PaymentSummary, error) {
	const q = `
		SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM payments
	`
	var s models.PaymentSummary
	if err := r.DB.QueryRow(q).Scan(&s.Total, &s.Count); err != nil {
		return nil, fmt.Errorf("payment summary: %w", err)
	}
	return &s, nil
}
