package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ices/internal/models"
)

type AdminCodeRepository interface {
	Create(adminID int, codeHash string, issuedAt, expiresAt time.Time, attemptsLeft int, since time.Time, maxIssued int) (int64, bool, error)
	GetLatestByAdminID(adminID int) (*models.AdminCode, error)
	SpendAttempt(id int64) (int, error)
	MarkUsed(id int64, now time.Time) (bool, error)
}

type adminCodeRepository struct {
	DB *sql.DB
}

func NewAdminCodeRepository(db *sql.DB) AdminCodeRepository {
	return &adminCodeRepository{DB: db}
}

// Create inserts a fresh code row, but only while fewer than maxIssued rows
// exist for the admin since the window start. The count and the insert are
// one conditional statement so two concurrent requests cannot both slip
// under the budget. Returns ok=false when the window is exhausted. Every
// issuance is a new row; older unused codes simply stop being the latest.
func (r *adminCodeRepository) Create(adminID int, codeHash string, issuedAt, expiresAt time.Time, attemptsLeft int, since time.Time, maxIssued int) (int64, bool, error) {
	const q = `
		INSERT INTO admin_codes (admin_id, code_hash, issued_at, expires_at, attempts_left)
		SELECT $1, $2, $3, $4, $5
		WHERE (SELECT COUNT(*) FROM admin_codes WHERE admin_id = $1 AND issued_at >= $6) < $7
		RETURNING id
	`
	var id int64
	if err := r.DB.QueryRow(q, adminID, codeHash, issuedAt, expiresAt, attemptsLeft, since, maxIssued).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("admin_code create: %w", err)
	}
	return id, true, nil
}

// GetLatestByAdminID returns the most recently issued code; verification
// only ever looks at this one.
func (r *adminCodeRepository) GetLatestByAdminID(adminID int) (*models.AdminCode, error) {
	const q = `
		SELECT id, admin_id, code_hash, issued_at, expires_at, attempts_left, used_at
		FROM admin_codes
		WHERE admin_id = $1
		ORDER BY issued_at DESC, id DESC
		LIMIT 1
	`
	row := r.DB.QueryRow(q, adminID)
	var c models.AdminCode
	var usedAt sql.NullTime
	if err := row.Scan(&c.ID, &c.AdminID, &c.CodeHash, &c.IssuedAt, &c.ExpiresAt, &c.AttemptsLeft, &usedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("admin_code latest: %w", err)
	}
	if usedAt.Valid {
		c.UsedAt = &usedAt.Time
	}
	return &c, nil
}

// SpendAttempt decrements attempts_left in a single conditional statement so
// concurrent wrong-code attempts cannot lose an update. Returns the new
// attempts_left value.
func (r *adminCodeRepository) SpendAttempt(id int64) (int, error) {
	const q = `
		UPDATE admin_codes
		SET attempts_left = attempts_left - 1
		WHERE id = $1 AND attempts_left > 0
		RETURNING attempts_left
	`
	var left int
	if err := r.DB.QueryRow(q, id).Scan(&left); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil // budget already exhausted by a concurrent attempt
		}
		return 0, fmt.Errorf("admin_code spend attempt: %w", err)
	}
	return left, nil
}

// MarkUsed consumes the code, guarded so only one of two racing correct
// attempts can win.
func (r *adminCodeRepository) MarkUsed(id int64, now time.Time) (bool, error) {
	const q = `
		UPDATE admin_codes
		SET used_at = $1
		WHERE id = $2 AND used_at IS NULL AND attempts_left > 0 AND expires_at > $1
	`
	res, err := r.DB.Exec(q, now, id)
	if err != nil {
		return false, fmt.Errorf("admin_code mark used: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
