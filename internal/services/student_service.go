package services

import (
	"errors"
	"strings"

	"ices/internal/authz"
	"ices/internal/models"
	"ices/internal/repositories"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrStudentNotFound    = errors.New("student not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type StudentService interface {
	Register(req models.StudentRegisterRequest) (*models.Student, string, error)
	Login(email, password string) (*models.Student, string, error)
	List() ([]*models.Student, error)
	GetByID(id int) (*models.Student, error)
}

type studentService struct {
	repo repositories.StudentRepository
	auth AuthService
}

func NewStudentService(repo repositories.StudentRepository, auth AuthService) StudentService {
	return &studentService{repo: repo, auth: auth}
}

func (s *studentService) Register(req models.StudentRegisterRequest) (*models.Student, string, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}
	student := &models.Student{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(strings.ToLower(req.Email)),
		PasswordHash: hash,
		Year:         req.Year,
	}
	if err := s.repo.Create(student); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.auth.IssueToken(student.ID, authz.RoleStudent)
	if err != nil {
		return nil, "", err
	}
	return student, token, nil
}

func (s *studentService) Login(email, password string) (*models.Student, string, error) {
	student, err := s.repo.GetByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, "", err
	}
	if student == nil {
		return nil, "", ErrStudentNotFound
	}
	if !s.auth.CheckPassword(student.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.auth.IssueToken(student.ID, authz.RoleStudent)
	if err != nil {
		return nil, "", err
	}
	return student, token, nil
}

func (s *studentService) List() ([]*models.Student, error) {
	return s.repo.List()
}

func (s *studentService) GetByID(id int) (*models.Student, error) {
	return s.repo.GetByID(id)
}
