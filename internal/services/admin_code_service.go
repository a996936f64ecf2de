package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ices/internal/authz"
	"ices/internal/models"
	"ices/internal/repositories"
	"ices/internal/utils"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrRateLimited     = errors.New("too many codes requested")
	ErrDeliveryFailed  = errors.New("code email delivery failed")
	ErrAdminNotFound   = errors.New("admin not found")
	ErrNameMismatch    = errors.New("name does not match")
	ErrNoCode          = errors.New("no code issued")
	ErrCodeUsed        = errors.New("code already used")
	ErrCodeExpired     = errors.New("code expired")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrCodeInvalid     = errors.New("code invalid")
)

const (
	codeTTL            = 15 * time.Minute
	issueWindow        = time.Hour
	maxIssuesPerWindow = 5
	maxCodeAttempts    = 5
)

type AdminCodeRequest struct {
	Name      string
	Email     string
	RegNumber string
	Year      int
}

// AdminCodeService issues one-time admin login codes by email and verifies
// them. The code is the credential: admins created here get a random
// placeholder password they never see.
type AdminCodeService struct {
	AdminRepo repositories.AdminRepository
	CodeRepo  repositories.AdminCodeRepository
	Emails    EmailService
	Auth      AuthService

	CodeTTL time.Duration // 0 means codeTTL

	// Dev-only: return/log the plaintext code (local testing without SMTP).
	DevCodeResponse bool
	DevCodeLog      bool
}

func NewAdminCodeService(
	adminRepo repositories.AdminRepository,
	codeRepo repositories.AdminCodeRepository,
	emails EmailService,
	auth AuthService,
) *AdminCodeService {
	return &AdminCodeService{
		AdminRepo: adminRepo,
		CodeRepo:  codeRepo,
		Emails:    emails,
		Auth:      auth,
		CodeTTL:   codeTTL,
	}
}

// RequestCode upserts the admin record, enforces the issuance window, then
// stores a bcrypt-hashed code and emails the plaintext. The returned string
// is empty unless DevCodeResponse is set.
func (s *AdminCodeService) RequestCode(req AdminCodeRequest) (string, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.RegNumber = strings.TrimSpace(req.RegNumber)
	if req.Name == "" || req.Email == "" || req.RegNumber == "" {
		return "", ErrValidation
	}

	admin, err := s.AdminRepo.GetByRegNumber(req.RegNumber)
	if err != nil {
		return "", err
	}
	if admin == nil {
		// The password column is structurally required but unused for
		// code-auth admins, so fill it with something unguessable.
		placeholder, err := utils.NewOpaqueToken(32)
		if err != nil {
			return "", err
		}
		placeholderHash, err := s.Auth.HashPassword(placeholder)
		if err != nil {
			return "", err
		}
		admin = &models.Admin{
			Name:         req.Name,
			Email:        req.Email,
			RegNumber:    req.RegNumber,
			Year:         req.Year,
			PasswordHash: placeholderHash,
		}
		if err := s.AdminRepo.Create(admin); err != nil {
			return "", err
		}
	} else {
		if err := s.AdminRepo.UpdateProfile(admin.ID, req.Name, req.Email, req.Year); err != nil {
			return "", err
		}
		admin.Name, admin.Email, admin.Year = req.Name, req.Email, req.Year
	}

	code, err := utils.NewNumericCode()
	if err != nil {
		return "", err
	}
	codeHash, err := s.Auth.HashPassword(code)
	if err != nil {
		return "", err
	}

	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = codeTTL
	}
	// The issuance window is enforced inside the insert itself, so two
	// concurrent requests cannot both count 4 and both get a 5th row in.
	now := time.Now()
	_, ok, err := s.CodeRepo.Create(admin.ID, codeHash, now, now.Add(ttl), maxCodeAttempts, now.Add(-issueWindow), maxIssuesPerWindow)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrRateLimited
	}

	if s.DevCodeLog {
		log.Printf("[admin-code][dev] reg_number=%s code=%s", req.RegNumber, code)
	}

	// The row is deliberately kept on delivery failure: the code exists, it
	// just never reached the inbox. Rate limiting still counts it.
	if err := s.Emails.SendAdminCode(admin.Email, code); err != nil {
		log.Printf("[admin-code][request] send failed for admin_id=%d: %v", admin.ID, err)
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	log.Printf("[admin-code][request] issued for admin_id=%d", admin.ID)

	if s.DevCodeResponse {
		return code, nil
	}
	return "", nil
}

// VerifyCode checks the supplied code against the most recently issued row
// and, on success, consumes it and returns a signed admin token.
func (s *AdminCodeService) VerifyCode(regNumber, name, code string) (string, *models.Admin, error) {
	regNumber = strings.TrimSpace(regNumber)
	code = strings.TrimSpace(code)
	if regNumber == "" || code == "" {
		return "", nil, ErrValidation
	}

	admin, err := s.AdminRepo.GetByRegNumber(regNumber)
	if err != nil {
		return "", nil, err
	}
	if admin == nil {
		return "", nil, ErrAdminNotFound
	}
	// Distinct from a wrong code on purpose: the UI tells the admin their
	// name doesn't match instead of burning an attempt.
	if name != "" && !strings.EqualFold(strings.TrimSpace(name), admin.Name) {
		return "", nil, ErrNameMismatch
	}

	c, err := s.CodeRepo.GetLatestByAdminID(admin.ID)
	if err != nil {
		return "", nil, err
	}
	switch {
	case c == nil:
		return "", nil, ErrNoCode
	case c.UsedAt != nil:
		return "", nil, ErrCodeUsed
	case time.Now().After(c.ExpiresAt):
		return "", nil, ErrCodeExpired
	case c.AttemptsLeft <= 0:
		return "", nil, ErrTooManyAttempts
	}

	if !s.Auth.CheckPassword(c.CodeHash, code) {
		left, err := s.CodeRepo.SpendAttempt(c.ID)
		if err != nil {
			return "", nil, err
		}
		log.Printf("[admin-code][verify] wrong code for admin_id=%d attempts_left=%d", admin.ID, left)
		return "", nil, ErrCodeInvalid
	}

	ok, err := s.CodeRepo.MarkUsed(c.ID, time.Now())
	if err != nil {
		return "", nil, err
	}
	if !ok {
		// a concurrent verify consumed it first
		return "", nil, ErrCodeUsed
	}

	token, err := s.Auth.IssueToken(admin.ID, authz.RoleAdmin)
	if err != nil {
		return "", nil, err
	}
	log.Printf("[admin-code][verify] success admin_id=%d", admin.ID)
	return token, admin, nil
}
