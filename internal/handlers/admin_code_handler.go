package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ices/internal/services"
)

type AdminCodeHandler struct {
	Codes *services.AdminCodeService
}

func NewAdminCodeHandler(codes *services.AdminCodeService) *AdminCodeHandler {
	return &AdminCodeHandler{Codes: codes}
}

// RequestCode handles POST /api/admins/register-code.
func (h *AdminCodeHandler) RequestCode(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		RegNumber string `json:"regNumber" binding:"required"`
		Year      int    `json:"year"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	devCode, err := h.Codes.RequestCode(services.AdminCodeRequest{
		Name:      req.Name,
		Email:     req.Email,
		RegNumber: req.RegNumber,
		Year:      req.Year,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and regNumber are required"})
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many codes requested, try again later"})
		case errors.Is(err, services.ErrDeliveryFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "code issued but email delivery failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue code"})
		}
		return
	}

	resp := gin.H{"message": "A login code has been sent to your email address"}
	if devCode != "" {
		resp["code"] = devCode // dev mode only
	}
	c.JSON(http.StatusCreated, resp)
}

// VerifyCode handles POST /api/admins/login-code.
func (h *AdminCodeHandler) VerifyCode(c *gin.Context) {
	var req struct {
		RegNumber string `json:"regNumber" binding:"required"`
		Name      string `json:"name"`
		Code      string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, admin, err := h.Codes.VerifyCode(req.RegNumber, req.Name, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAdminNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
		case errors.Is(err, services.ErrNoCode):
			c.JSON(http.StatusNotFound, gin.H{"error": "no code issued, request one first"})
		case errors.Is(err, services.ErrNameMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "name does not match"})
		case errors.Is(err, services.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, request a new code"})
		case errors.Is(err, services.ErrCodeExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "code expired, request a new one"})
		case errors.Is(err, services.ErrCodeUsed):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "code already used, request a new one"})
		case errors.Is(err, services.ErrCodeInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "regNumber and code are required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"id":    admin.ID,
		"name":  admin.Name,
		"email": admin.Email,
	})
}
