package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ices/internal/models"
	"ices/internal/services"
)

type StudentHandler struct {
	Students services.StudentService
}

func NewStudentHandler(students services.StudentService) *StudentHandler {
	return &StudentHandler{Students: students}
}

// Register handles POST /api/students/register.
func (h *StudentHandler) Register(c *gin.Context) {
	var req models.StudentRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, token, err := h.Students.Register(req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		log.Printf("[student][register] failed for %q: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"id":      student.ID,
		"token":   token,
	})
}

// Login handles POST /api/students/login.
func (h *StudentHandler) Login(c *gin.Context) {
	var req models.StudentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	student, token, err := h.Students.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		default:
			log.Printf("[student][login] failed for %q: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"role":    "student",
		"token":   token,
		"userId":  student.ID,
		"name":    student.Name,
		"email":   student.Email,
	})
}

// List handles GET /api/students.
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.Students.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}
