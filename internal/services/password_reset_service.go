package services

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"strings"
	"sync"
	"time"

	"ices/internal/authz"
	"ices/internal/repositories"
	"ices/internal/store"
	"ices/internal/utils"
)

var (
	ErrNoOTPRequest      = errors.New("no OTP request found")
	ErrOTPExpired        = errors.New("OTP expired")
	ErrOTPNotVerified    = errors.New("OTP not verified")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrSessionExpired    = errors.New("reset session expired")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrAccountNotFound   = errors.New("account not found")
)

// InvalidOTPError carries the remaining attempt budget so the caller can be
// told how many tries are left.
type InvalidOTPError struct {
	Remaining int
}

func (e *InvalidOTPError) Error() string {
	return fmt.Sprintf("Invalid OTP. %d attempt(s) remaining.", e.Remaining)
}

const (
	otpTTL         = 10 * time.Minute
	maxOTPAttempts = 5
	lockStripes    = 16
)

type PasswordResetService interface {
	RequestOTP(email string) (string, error)
	VerifyOTP(email, otp string) (string, error)
	ResetPassword(resetToken, newPassword string) error
}

type passwordResetService struct {
	students repositories.StudentRepository
	admins   repositories.AdminRepository
	sessions store.ResetStore
	emails   EmailService
	auth     AuthService

	otpTTL time.Duration
	devOTP bool // dev-only: return the plaintext OTP from RequestOTP

	// Per-identity locking, striped so the map of live locks stays bounded.
	// Check-then-mutate sequences on one session always run under its stripe.
	locks [lockStripes]sync.Mutex
}

func NewPasswordResetService(
	students repositories.StudentRepository,
	admins repositories.AdminRepository,
	sessions store.ResetStore,
	emails EmailService,
	auth AuthService,
	devOTP bool,
) PasswordResetService {
	return &passwordResetService{
		students: students,
		admins:   admins,
		sessions: sessions,
		emails:   emails,
		auth:     auth,
		otpTTL:   otpTTL,
		devOTP:   devOTP,
	}
}

func (s *passwordResetService) lockFor(email string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(email))
	return &s.locks[h.Sum32()%lockStripes]
}

// RequestOTP responds identically whether or not the email is registered;
// the side effects (session + email) only happen when it is.
func (s *passwordResetService) RequestOTP(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", ErrValidation
	}

	kind, err := s.accountKind(email)
	if err != nil {
		return "", err
	}
	if kind == "" {
		// don't leak existence
		log.Printf("[password-reset][request] unknown email, no OTP issued")
		return "", nil
	}

	otp, err := utils.NewNumericCode()
	if err != nil {
		return "", err
	}
	otpHash, err := s.auth.HashPassword(otp)
	if err != nil {
		return "", err
	}
	resetToken, err := utils.NewOpaqueToken(32)
	if err != nil {
		return "", err
	}

	mu := s.lockFor(email)
	mu.Lock()
	s.sessions.Put(email, store.ResetSession{
		Email:       email,
		OTPHash:     otpHash,
		ExpiresAt:   time.Now().Add(s.otpTTL),
		Attempts:    0,
		ResetToken:  resetToken,
		Verified:    false,
		AccountKind: kind,
	})
	mu.Unlock()

	if err := s.emails.SendResetOTP(email, otp); err != nil {
		log.Printf("[password-reset][request] send failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	log.Printf("[password-reset][request] OTP issued for %s account", kind)

	if s.devOTP {
		return otp, nil
	}
	return "", nil
}

func (s *passwordResetService) accountKind(email string) (string, error) {
	student, err := s.students.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if student != nil {
		return authz.RoleStudent, nil
	}
	admin, err := s.admins.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if admin != nil {
		return authz.RoleAdmin, nil
	}
	return "", nil
}

// VerifyOTP transitions the session to verified and hands back the reset
// token. Expiry and attempt exhaustion purge the session: the caller must
// start over.
func (s *passwordResetService) VerifyOTP(email, otp string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	otp = strings.TrimSpace(otp)
	if email == "" || otp == "" {
		return "", ErrValidation
	}

	mu := s.lockFor(email)
	mu.Lock()
	defer mu.Unlock()

	sess, ok := s.sessions.Get(email)
	if !ok {
		return "", ErrNoOTPRequest
	}
	if time.Now().After(sess.ExpiresAt) {
		s.sessions.Delete(email)
		return "", ErrOTPExpired
	}
	if sess.Attempts >= maxOTPAttempts {
		s.sessions.Delete(email)
		return "", ErrTooManyAttempts
	}

	if !s.auth.CheckPassword(sess.OTPHash, otp) {
		sess.Attempts++
		s.sessions.Put(email, sess)
		return "", &InvalidOTPError{Remaining: maxOTPAttempts - sess.Attempts}
	}

	sess.Verified = true
	s.sessions.Put(email, sess)
	return sess.ResetToken, nil
}

// ResetPassword consumes a verified session: rehash, write to the right
// table, drop the session, best-effort confirmation email.
func (s *passwordResetService) ResetPassword(resetToken, newPassword string) error {
	resetToken = strings.TrimSpace(resetToken)
	if resetToken == "" || newPassword == "" {
		return ErrValidation
	}
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	found, ok := s.sessions.FindByToken(resetToken)
	if !ok {
		return ErrInvalidResetToken
	}

	mu := s.lockFor(found.Email)
	mu.Lock()
	defer mu.Unlock()

	// Re-read under the lock: the sweep or a concurrent consume may have
	// removed it between the scan and here.
	sess, ok := s.sessions.Get(found.Email)
	if !ok || sess.ResetToken != resetToken {
		return ErrInvalidResetToken
	}
	if !sess.Verified {
		return ErrOTPNotVerified
	}
	if time.Now().After(sess.ExpiresAt) {
		s.sessions.Delete(found.Email)
		return ErrSessionExpired
	}

	newHash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	var rows int64
	if sess.AccountKind == authz.RoleStudent {
		rows, err = s.students.UpdatePasswordByEmail(sess.Email, newHash)
	} else {
		rows, err = s.admins.UpdatePasswordByEmail(sess.Email, newHash)
	}
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccountNotFound
	}

	s.sessions.Delete(sess.Email)

	if err := s.emails.SendResetConfirmation(sess.Email); err != nil {
		log.Printf("[password-reset][reset] confirmation email failed: %v", err)
	}
	log.Printf("[password-reset][reset] password updated for %s account", sess.AccountKind)
	return nil
}
