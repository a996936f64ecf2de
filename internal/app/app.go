package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"ices/internal/config"
	"ices/internal/handlers"
	"ices/internal/middleware"
	"ices/internal/pdf"
	"ices/internal/repositories"
	"ices/internal/routes"
	"ices/internal/services"
	"ices/internal/store"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func Run() {
	cfg := config.LoadConfig()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwt_secret (or JWT_SECRET_KEY) must be set")
	}
	middleware.JWTKey = []byte(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()
	if err := repositories.InitSchema(db, cfg.Database.Driver); err != nil {
		log.Fatal("Failed to initialize schema: ", err)
	}

	// === Repos ===
	adminRepo := repositories.NewAdminRepository(db)
	codeRepo := repositories.NewAdminCodeRepository(db)
	studentRepo := repositories.NewStudentRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// === Stores ===
	resetSessions := store.NewMemoryResetStore(5 * time.Minute)
	defer resetSessions.Close()

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(cfg.Email)

	adminCodeService := services.NewAdminCodeService(adminRepo, codeRepo, emailService, authService)
	adminCodeService.DevCodeResponse = cfg.Auth.DevCodeResponse
	adminCodeService.DevCodeLog = cfg.Auth.DevCodeLog

	resetService := services.NewPasswordResetService(
		studentRepo, adminRepo, resetSessions, emailService, authService,
		cfg.Auth.DevCodeResponse,
	)

	studentService := services.NewStudentService(studentRepo, authService)
	adminService := services.NewAdminService(adminRepo, authService)
	eventService := services.NewEventService(eventRepo, studentRepo)

	receiptGen := pdf.NewReceiptGenerator("./files")
	paymentService := services.NewPaymentService(paymentRepo, studentRepo, receiptGen)

	// === Handlers ===
	studentHandler := handlers.NewStudentHandler(studentService)
	adminHandler := handlers.NewAdminHandler(adminService)
	adminCodeHandler := handlers.NewAdminCodeHandler(adminCodeService)
	resetHandler := handlers.NewPasswordResetHandler(resetService)
	eventHandler := handlers.NewEventHandler(eventService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	routes.SetupRoutes(
		router,
		studentHandler,
		adminHandler,
		adminCodeHandler,
		resetHandler,
		eventHandler,
		paymentHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
