package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ices/internal/models"
	"ices/internal/services"
)

type PaymentHandler struct {
	Payments services.PaymentService
}

func NewPaymentHandler(payments services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payments: payments}
}

// List handles GET /api/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.Payments.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// Summary handles GET /api/payments/summary.
func (h *PaymentHandler) Summary(c *gin.Context) {
	summary, err := h.Payments.Summary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Create handles POST /api/payments (admin only).
func (h *PaymentHandler) Create(c *gin.Context) {
	var req struct {
		StudentID int    `json:"studentId" binding:"required"`
		Purpose   string `json:"purpose" binding:"required"`
		Amount    int    `json:"amount" binding:"required,min=1"`
		Method    string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment := &models.Payment{
		StudentID: req.StudentID,
		Purpose:   req.Purpose,
		Amount:    req.Amount,
		Method:    req.Method,
	}
	if err := h.Payments.Create(payment); err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "purpose, amount and method are required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Payment recorded", "paymentId": payment.ID})
}

// Receipt handles GET /api/payments/:id/receipt, serving a generated PDF.
func (h *PaymentHandler) Receipt(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid payment ID is required"})
		return
	}

	path, err := h.Payments.Receipt(id)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate receipt"})
		return
	}

	c.FileAttachment(path, "receipt.pdf")
}
