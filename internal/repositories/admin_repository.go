package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ices/internal/models"
)

type AdminRepository interface {
	Create(admin *models.Admin) error
	GetByRegNumber(regNumber string) (*models.Admin, error)
	GetByEmail(email string) (*models.Admin, error)
	UpdateProfile(id int, name, email string, year int) error
	UpdatePasswordByEmail(email, newHash string) (int64, error)
}

type adminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{DB: db}
}

func (r *adminRepository) Create(admin *models.Admin) error {
	const q = `
		INSERT INTO admins (username, email, password, reg_number, year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	admin.CreatedAt = time.Now()
	if err := r.DB.QueryRow(q,
		admin.Name, admin.Email, admin.PasswordHash, admin.RegNumber, admin.Year, admin.CreatedAt,
	).Scan(&admin.ID); err != nil {
		return fmt.Errorf("admin create: %w", err)
	}
	return nil
}

func (r *adminRepository) GetByRegNumber(regNumber string) (*models.Admin, error) {
	const q = `
		SELECT id, username, email, password, reg_number, year, created_at
		FROM admins
		WHERE reg_number = $1
	`
	return r.scanOne(r.DB.QueryRow(q, regNumber))
}

func (r *adminRepository) GetByEmail(email string) (*models.Admin, error) {
	const q = `
		SELECT id, username, email, password, reg_number, year, created_at
		FROM admins
		WHERE email = $1
	`
	return r.scanOne(r.DB.QueryRow(q, email))
}

func (r *adminRepository) scanOne(row *sql.Row) (*models.Admin, error) {
	var a models.Admin
	var regNumber sql.NullString
	var year sql.NullInt64
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &regNumber, &year, &a.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("admin get: %w", err)
	}
	a.RegNumber = regNumber.String
	a.Year = int(year.Int64)
	return &a, nil
}

func (r *adminRepository) UpdateProfile(id int, name, email string, year int) error {
	const q = `
		UPDATE admins SET username = $1, email = $2, year = $3 WHERE id = $4
	`
	if _, err := r.DB.Exec(q, name, email, year, id); err != nil {
		return fmt.Errorf("admin update profile: %w", err)
	}
	return nil
}

func (r *adminRepository) UpdatePasswordByEmail(email, newHash string) (int64, error) {
	const q = `
		UPDATE admins SET password = $1 WHERE email = $2
	`
	res, err := r.DB.Exec(q, newHash, email)
	if err != nil {
		return 0, fmt.Errorf("admin update password: %w", err)
	}
	return res.RowsAffected()
}
