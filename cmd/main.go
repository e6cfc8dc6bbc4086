package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"futaverse/internal/auth"
	"futaverse/internal/calendar"
	"futaverse/internal/config"
	"futaverse/internal/database"
	"futaverse/internal/handlers"
	"futaverse/internal/mailer"
	"futaverse/internal/payments"
	"futaverse/internal/repository"
	"futaverse/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository
	repo := repository.NewRepository(database.GetDB())

	// Initialize external collaborators
	smtpMailer := mailer.NewSMTPMailer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		cfg.SMTP.FromName,
	)
	paystack := payments.NewPaystackClient(cfg.Paystack.SecretKey, cfg.Paystack.CallbackURL)
	googleCalendar := calendar.NewGoogleCalendarClient(cfg.Google.AccessToken, cfg.Google.CalendarID)

	otpTTL := 10
	if minutes, err := strconv.Atoi(cfg.App.OTPTTLMinutes); err == nil && minutes > 0 {
		otpTTL = minutes
	}

	// Initialize services
	otpService := services.NewOTPService(repo, time.Duration(otpTTL)*time.Minute)
	authService := services.NewAuthService(repo, otpService, smtpMailer)
	profileService := services.NewProfileService(repo)
	mentorshipService := services.NewMentorshipService(repo, smtpMailer)
	internshipService := services.NewInternshipService(repo, smtpMailer)
	eventService := services.NewEventService(repo, smtpMailer, paystack, googleCalendar)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	mentorshipHandler := handlers.NewMentorshipHandler(mentorshipService, repo)
	internshipHandler := handlers.NewInternshipHandler(internshipService, repo)
	eventHandler := handlers.NewEventHandler(eventService)

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/signup/student", authHandler.SignupStudent)
		authRoutes.POST("/signup/alumnus", authHandler.SignupAlumnus)
		authRoutes.POST("/verify", authHandler.VerifyEmail)
		authRoutes.POST("/resend", authHandler.ResendCode)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/password-reset", authHandler.RequestPasswordReset)
		authRoutes.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	}

	// Public event routes
	router.GET("/api/events", eventHandler.ListEvents)
	router.GET("/api/events/:id", eventHandler.GetEvent)

	// Payment callback (public, reference-keyed)
	router.GET("/api/payments/confirm", eventHandler.ConfirmPayment)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Profile endpoints
		api.GET("/profiles/alumni/me", profileHandler.GetAlumniProfile)
		api.PUT("/profiles/alumni/me", profileHandler.UpdateAlumniProfile)
		api.GET("/profiles/student/me", profileHandler.GetStudentProfile)
		api.PUT("/profiles/student/me", profileHandler.UpdateStudentProfile)
		api.POST("/profiles/student/resume", profileHandler.SaveResume)

		// Mentorship endpoints
		api.POST("/mentorships", mentorshipHandler.CreateMentorship)
		api.GET("/mentorships", mentorshipHandler.ListMentorships)
		api.GET("/mentorships/:id", mentorshipHandler.GetMentorship)
		api.PATCH("/mentorships/:id", mentorshipHandler.UpdateMentorship)
		api.POST("/mentorships/:id/toggle", mentorshipHandler.ToggleActive)
		api.DELETE("/mentorships/:id", mentorshipHandler.DeleteMentorship)
		api.POST("/mentorships/:id/offers", mentorshipHandler.CreateOffer)
		api.POST("/mentorships/:id/applications", mentorshipHandler.CreateApplication)

		api.GET("/mentorship-offers", mentorshipHandler.ListOffers)
		api.POST("/mentorship-offers/:id/accept", mentorshipHandler.AcceptOffer)
		api.POST("/mentorship-offers/:id/reject", mentorshipHandler.RejectOffer)
		api.POST("/mentorship-offers/:id/withdraw", mentorshipHandler.WithdrawOffer)

		api.GET("/mentorship-applications", mentorshipHandler.ListApplications)
		api.POST("/mentorship-applications/:id/accept", mentorshipHandler.AcceptApplication)
		api.POST("/mentorship-applications/:id/reject", mentorshipHandler.RejectApplication)
		api.POST("/mentorship-applications/:id/withdraw", mentorshipHandler.WithdrawApplication)

		api.GET("/mentorship-engagements", mentorshipHandler.ListEngagements)
		api.GET("/mentorship-engagements/:id", mentorshipHandler.GetEngagement)
		api.POST("/mentorship-engagements/:id/complete", mentorshipHandler.CompleteEngagement)
		api.POST("/mentorship-engagements/:id/terminate", mentorshipHandler.TerminateEngagement)

		// Internship endpoints
		api.POST("/internships", internshipHandler.CreateInternship)
		api.GET("/internships", internshipHandler.ListInternships)
		api.GET("/internships/:id", internshipHandler.GetInternship)
		api.PATCH("/internships/:id", internshipHandler.UpdateInternship)
		api.POST("/internships/:id/toggle", internshipHandler.ToggleActive)
		api.DELETE("/internships/:id", internshipHandler.DeleteInternship)
		api.POST("/internships/:id/offers", internshipHandler.CreateOffer)
		api.POST("/internships/:id/applications", internshipHandler.CreateApplication)

		api.GET("/internship-offers", internshipHandler.ListOffers)
		api.POST("/internship-offers/:id/accept", internshipHandler.AcceptOffer)
		api.POST("/internship-offers/:id/reject", internshipHandler.RejectOffer)
		api.POST("/internship-offers/:id/withdraw", internshipHandler.WithdrawOffer)

		api.GET("/internship-applications", internshipHandler.ListApplications)
		api.POST("/internship-applications/:id/accept", internshipHandler.AcceptApplication)
		api.POST("/internship-applications/:id/reject", internshipHandler.RejectApplication)
		api.POST("/internship-applications/:id/withdraw", internshipHandler.WithdrawApplication)

		api.GET("/internship-engagements", internshipHandler.ListEngagements)
		api.GET("/internship-engagements/:id", internshipHandler.GetEngagement)
		api.POST("/internship-engagements/:id/complete", internshipHandler.CompleteEngagement)
		api.POST("/internship-engagements/:id/terminate", internshipHandler.TerminateEngagement)

		// Event endpoints
		api.POST("/events", eventHandler.CreateEvent)
		api.GET("/my-events", eventHandler.ListMyEvents)
		api.POST("/events/:id/cancel", eventHandler.CancelEvent)
		api.POST("/tickets/:id/register", eventHandler.Register)
		api.GET("/my-tickets", eventHandler.ListMyTickets)
		api.POST("/tickets/checkin", eventHandler.CheckIn)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
