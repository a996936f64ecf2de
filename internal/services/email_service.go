package services

import (
	"errors"
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"ices/internal/config"
)

type EmailService interface {
	Send(to, subject, body string) error
	SendAdminCode(email, code string) error
	SendResetOTP(email, otp string) error
	SendResetConfirmation(email string) error
}

type emailService struct {
	dialers []*gomail.Dialer
	from    string
}

// NewEmailService builds one dialer per configured transport. Send tries
// them in order: if the primary SMTP host is down the fallback relay still
// gets the message out.
func NewEmailService(cfg config.EmailConfig) EmailService {
	var dialers []*gomail.Dialer
	for _, t := range cfg.Transports {
		d := gomail.NewDialer(t.Host, t.Port, t.User, t.Password)
		d.SSL = t.SSL
		dialers = append(dialers, d)
	}
	return &emailService{dialers: dialers, from: cfg.FromEmail}
}

func (s *emailService) Send(to, subject, body string) error {
	if len(s.dialers) == 0 {
		return errors.New("no smtp transport configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	var lastErr error
	for i, d := range s.dialers {
		if err := d.DialAndSend(m); err != nil {
			log.Printf("[email][send] transport %d (%s:%d) failed: %v", i, d.Host, d.Port, err)
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("all smtp transports failed: %w", lastErr)
}

func (s *emailService) SendAdminCode(email, code string) error {
	body := fmt.Sprintf(`Hello,

Your admin login code is: %s

This code will expire in 15 minutes and allows 5 attempts.

If you didn't request this, please ignore this email.

Best regards,
ICES Support Team`, code)
	return s.Send(email, "Admin Login Code - ICES", body)
}

func (s *emailService) SendResetOTP(email, otp string) error {
	body := fmt.Sprintf(`Hello,

You requested to reset your password for your ICES account.

Your OTP (One-Time Password) is: %s

This code will expire in 10 minutes.

If you didn't request this, please ignore this email and ensure your account is secure.

Best regards,
ICES Support Team`, otp)
	return s.Send(email, "Password Reset OTP - ICES", body)
}

func (s *emailService) SendResetConfirmation(email string) error {
	body := `Hello,

Your password has been successfully reset.

If you did not perform this action, please contact support immediately.

Best regards,
ICES Support Team`
	return s.Send(email, "Password Reset Successful - ICES", body)
}
