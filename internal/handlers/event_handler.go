package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ices/internal/services"
)

type EventHandler struct {
	Events services.EventService
}

func NewEventHandler(events services.EventService) *EventHandler {
	return &EventHandler{Events: events}
}

// List handles GET /api/events.
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.Events.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Upcoming handles GET /api/events/upcoming.
func (h *EventHandler) Upcoming(c *gin.Context) {
	events, err := h.Events.ListUpcoming()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"upcoming": events})
}

// Create handles POST /api/events (admin only).
func (h *EventHandler) Create(c *gin.Context) {
	var req struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		Date        time.Time `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.Events.Create(req.Title, req.Description, req.Date)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event title and date are required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if adminID, ok := getIntFromCtx(c, "user_id"); ok {
		log.Printf("[event][create] id=%d by admin_id=%d", event.ID, adminID)
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Event created successfully", "eventId": event.ID})
}

// Register handles POST /api/events/register.
func (h *EventHandler) Register(c *gin.Context) {
	var req struct {
		StudentID int    `json:"studentId" binding:"required"`
		EventName string `json:"eventName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	regID, err := h.Events.RegisterStudent(req.StudentID, req.EventName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Event name is required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Registration successful",
		"registrationId": regID,
		"studentId":      req.StudentID,
		"eventName":      req.EventName,
	})
}

// Registrations handles GET /api/events/registrations/:studentId.
func (h *EventHandler) Registrations(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("studentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid student ID is required"})
		return
	}

	regs, err := h.Events.RegistrationsByStudent(studentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}
