package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ices/internal/models"
	"ices/internal/services"
)

type AdminHandler struct {
	Admins services.AdminService
}

func NewAdminHandler(admins services.AdminService) *AdminHandler {
	return &AdminHandler{Admins: admins}
}

// Register handles POST /api/admins/register (plain password flow).
func (h *AdminHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields required"})
		return
	}

	admin, err := h.Admins.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Admin already exists"})
			return
		}
		log.Printf("[admin][register] failed for %q: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"role": "admin",
		"user": gin.H{"id": admin.ID, "name": admin.Name, "email": admin.Email},
	})
}

// Login handles POST /api/admins/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	admin, token, err := h.Admins.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Printf("[admin][login] failed for %q: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":  "admin",
		"token": token,
		"user":  gin.H{"id": admin.ID, "name": admin.Name, "email": admin.Email},
	})
}
