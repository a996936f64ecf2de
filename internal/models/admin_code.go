package models

import "time"

// AdminCode — one row per issued login code. Only the bcrypt hash of the
// code is stored (CodeHash); rows are never deleted, used_at is the audit trail.
type AdminCode struct {
	ID           int64      `json:"id"`
	AdminID      int        `json:"admin_id"`
	CodeHash     string     `json:"-"`
	IssuedAt     time.Time  `json:"issued_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	AttemptsLeft int        `json:"attempts_left"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
}
