package routes

import (
	"github.com/gin-gonic/gin"

	"ices/internal/authz"
	"ices/internal/handlers"
	"ices/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	studentHandler *handlers.StudentHandler,
	adminHandler *handlers.AdminHandler,
	adminCodeHandler *handlers.AdminCodeHandler,
	resetHandler *handlers.PasswordResetHandler,
	eventHandler *handlers.EventHandler,
	paymentHandler *handlers.PaymentHandler,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	api := r.Group("/api")

	// ---- public, throttled per IP on top of the per-principal windows
	authLimit := middleware.RateLimit(5)

	students := api.Group("/students")
	{
		students.POST("/register", authLimit, studentHandler.Register)
		students.POST("/login", authLimit, studentHandler.Login)
	}

	admins := api.Group("/admins")
	{
		admins.POST("/register", authLimit, adminHandler.Register)
		admins.POST("/login", authLimit, adminHandler.Login)
		admins.POST("/register-code", authLimit, adminCodeHandler.RequestCode)
		admins.POST("/login-code", authLimit, adminCodeHandler.VerifyCode)
	}

	reset := api.Group("/password-reset", authLimit)
	{
		reset.POST("/request-otp", resetHandler.RequestOTP)
		reset.POST("/verify-otp", resetHandler.VerifyOTP)
		reset.POST("/reset-password", resetHandler.ResetPassword)
	}

	api.GET("/events", eventHandler.List)
	api.GET("/events/upcoming", eventHandler.Upcoming)

	// ---- protected
	auth := api.Group("", middleware.AuthMiddleware())

	auth.GET("/students", middleware.RequireRoles(authz.RoleAdmin), studentHandler.List)

	events := auth.Group("/events")
	{
		events.POST("", middleware.RequireRoles(authz.RoleAdmin), eventHandler.Create)
		events.POST("/register", eventHandler.Register)
		events.GET("/registrations/:studentId", eventHandler.Registrations)
	}

	payments := auth.Group("/payments")
	{
		payments.GET("", paymentHandler.List)
		payments.GET("/summary", middleware.RequireRoles(authz.RoleAdmin), paymentHandler.Summary)
		payments.POST("", middleware.RequireRoles(authz.RoleAdmin), paymentHandler.Create)
		payments.GET("/:id/receipt", paymentHandler.Receipt)
	}

	return r
}
