package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ices/internal/models"
)

type StudentRepository interface {
	Create(student *models.Student) error
	GetByID(id int) (*models.Student, error)
	GetByEmail(email string) (*models.Student, error)
	List() ([]*models.Student, error)
	UpdatePasswordByEmail(email, newHash string) (int64, error)
}

type studentRepository struct {
	DB *sql.DB
}

func NewStudentRepository(db *sql.DB) StudentRepository {
	return &studentRepository{DB: db}
}

func (r *studentRepository) Create(student *models.Student) error {
	const q = `
		INSERT INTO students (name, email, password, year, status, registration_date)
		VALUES ($1, $2, $3, $4, 'active', $5)
		RETURNING id
	`
	student.RegistrationDate = time.Now()
	if err := r.DB.QueryRow(q,
		student.Name, student.Email, student.PasswordHash, student.Year, student.RegistrationDate,
	).Scan(&student.ID); err != nil {
		return fmt.Errorf("student create: %w", err)
	}
	student.Status = "active"
	return nil
}

func (r *studentRepository) GetByID(id int) (*models.Student, error) {
	const q = `
		SELECT id, name, email, password, year, status, registration_date
		FROM students
		WHERE id = $1
	`
	return scanStudent(r.DB.QueryRow(q, id))
}

func (r *studentRepository) GetByEmail(email string) (*models.Student, error) {
	const q = `
		SELECT id, name, email, password, year, status, registration_date
		FROM students
		WHERE email = $1
	`
	return scanStudent(r.DB.QueryRow(q, email))
}

func scanStudent(row *sql.Row) (*models.Student, error) {
	var s models.Student
	var year sql.NullInt64
	var status sql.NullString
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &year, &status, &s.RegistrationDate); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("student get: %w", err)
	}
	s.Year = int(year.Int64)
	s.Status = status.String
	return &s, nil
}

func (r *studentRepository) List() ([]*models.Student, error) {
	const q = `
		SELECT id, name, email, year, status, registration_date
		FROM students
		ORDER BY id
	`
	rows, err := r.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("student list: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var s models.Student
		var year sql.NullInt64
		var status sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &year, &status, &s.RegistrationDate); err != nil {
			return nil, fmt.Errorf("student list scan: %w", err)
		}
		s.Year = int(year.Int64)
		s.Status = status.String
		students = append(students, &s)
	}
	return students, rows.Err()
}

func (r *studentRepository) UpdatePasswordByEmail(email, newHash string) (int64, error) {
	const q = `
		UPDATE students SET password = $1 WHERE email = $2
	`
	res, err := r.DB.Exec(q, newHash, email)
	if err != nil {
		return 0, fmt.Errorf("student update password: %w", err)
	}
	return res.RowsAffected()
}
