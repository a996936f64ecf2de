package services

import (
	"strings"

	"ices/internal/authz"
	"ices/internal/models"
	"ices/internal/repositories"
)

// AdminService covers the plain password flow that exists beside the
// code-based login.
type AdminService interface {
	Register(name, email, password string) (*models.Admin, error)
	Login(email, password string) (*models.Admin, string, error)
}

type adminService struct {
	repo repositories.AdminRepository
	auth AuthService
}

func NewAdminService(repo repositories.AdminRepository, auth AuthService) AdminService {
	return &adminService{repo: repo, auth: auth}
}

func (s *adminService) Register(name, email, password string) (*models.Admin, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(admin); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return admin, nil
}

func (s *adminService) Login(email, password string) (*models.Admin, string, error) {
	admin, err := s.repo.GetByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, "", err
	}
	if admin == nil {
		return nil, "", ErrInvalidCredentials
	}
	if !s.auth.CheckPassword(admin.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.auth.IssueToken(admin.ID, authz.RoleAdmin)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}
