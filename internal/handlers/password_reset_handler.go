package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ices/internal/services"
)

type PasswordResetHandler struct {
	Resets services.PasswordResetService
}

func NewPasswordResetHandler(resets services.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{Resets: resets}
}

// RequestOTP handles POST /api/password-reset/request-otp. The success
// message is the same whether or not the email is registered.
func (h *PasswordResetHandler) RequestOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	devOTP, err := h.Resets.RequestOTP(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrDeliveryFailed) {
			c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to send OTP email. Please try again later."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	resp := gin.H{
		"message":   "If the email is registered, an OTP has been sent to your email address",
		"expiresIn": 600, // seconds
	}
	if devOTP != "" {
		resp["otp"] = devOTP // dev mode only
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyOTP handles POST /api/password-reset/verify-otp.
func (h *PasswordResetHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required"})
		return
	}

	resetToken, err := h.Resets.VerifyOTP(req.Email, req.OTP)
	if err != nil {
		var invalid *services.InvalidOTPError
		switch {
		case errors.As(err, &invalid):
			c.JSON(http.StatusBadRequest, gin.H{"message": invalid.Error()})
		case errors.Is(err, services.ErrNoOTPRequest):
			c.JSON(http.StatusBadRequest, gin.H{"message": "No OTP request found for this email. Please request a new OTP."})
		case errors.Is(err, services.ErrOTPExpired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "OTP has expired. Please request a new one."})
		case errors.Is(err, services.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many failed attempts. Please request a new OTP."})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "OTP verified successfully",
		"resetToken": resetToken,
	})
}

// ResetPassword handles POST /api/password-reset/reset-password.
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req struct {
		ResetToken  string `json:"resetToken" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Reset token and new password are required"})
		return
	}

	if err := h.Resets.ResetPassword(req.ResetToken, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters long"})
		case errors.Is(err, services.ErrInvalidResetToken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token"})
		case errors.Is(err, services.ErrOTPNotVerified):
			c.JSON(http.StatusBadRequest, gin.H{"message": "OTP not verified. Please verify OTP first."})
		case errors.Is(err, services.ErrSessionExpired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Reset session has expired. Please start over."})
		case errors.Is(err, services.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Reset token and new password are required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password successfully reset. You can now login with your new password.",
	})
}
