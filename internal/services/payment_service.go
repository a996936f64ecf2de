package services

import (
	"errors"
	"strings"

	"ices/internal/models"
	"ices/internal/pdf"
	"ices/internal/repositories"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentService interface {
	Create(payment *models.Payment) error
	List() ([]*models.Payment, error)
	Summary() (*models.PaymentSummary, error)
	Receipt(id int) (string, error)
}

type paymentService struct {
	payments repositories.PaymentRepository
	students repositories.StudentRepository
	receipts pdf.Generator
}

func NewPaymentService(
	payments repositories.PaymentRepository,
	students repositories.StudentRepository,
	receipts pdf.Generator,
) PaymentService {
	return &paymentService{payments: payments, students: students, receipts: receipts}
}

func (s *paymentService) Create(payment *models.Payment) error {
	if strings.TrimSpace(payment.Purpose) == "" || payment.Amount <= 0 || strings.TrimSpace(payment.Method) == "" {
		return ErrValidation
	}
	student, err := s.students.GetByID(payment.StudentID)
	if err != nil {
		return err
	}
	if student == nil {
		return ErrStudentNotFound
	}
	return s.payments.Create(payment)
}

func (s *paymentService) List() ([]*models.Payment, error) {
	return s.payments.List()
}

func (s *paymentService) Summary() (*models.PaymentSummary, error) {
	return s.payments.Summary()
}

// Receipt renders the payment as a PDF and returns the file path.
func (s *paymentService) Receipt(id int) (string, error) {
	payment, err := s.payments.GetByID(id)
	if err != nil {
		return "", err
	}
	if payment == nil {
		return "", ErrPaymentNotFound
	}
	return s.receipts.GenerateReceipt(pdf.ReceiptData{
		PaymentID:    payment.ID,
		StudentName:  payment.StudentName,
		StudentEmail: payment.StudentEmail,
		Purpose:      payment.Purpose,
		Amount:       payment.Amount,
		Method:       payment.Method,
		Date:         payment.Date,
	})
}
