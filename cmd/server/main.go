package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/freelance-marketplace-api/internal/config"
	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	"github.com/yukikurage/freelance-marketplace-api/internal/database"
	"github.com/yukikurage/freelance-marketplace-api/internal/handlers"
	"github.com/yukikurage/freelance-marketplace-api/internal/mail"
	"github.com/yukikurage/freelance-marketplace-api/internal/middleware"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"golang.org/x/oauth2"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis holds OTP codes; sessions use their own pool on the same server
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	var mailer mail.Sender
	if cfg.SMTPHost != "" {
		smtpSender, err := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
		if err != nil {
			log.Fatalf("Failed to configure SMTP: %v", err)
		}
		mailer = smtpSender
	} else {
		log.Println("SMTP_HOST not set, one-time codes are written to the log")
		mailer = mail.NewLogSender()
	}
	defer mailer.Close()

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	var googleConfig *oauth2.Config
	if cfg.GoogleOAuthEnabled() {
		googleConfig = handlers.NewGoogleOAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	// Repositories and services
	personRepo := repository.NewPersonRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	bidRepo := repository.NewBidRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	otpService := services.NewOTPService(repository.NewOTPStore(rdb), mailer, cfg.OTPTTL)
	authService := services.NewAuthService(personRepo, otpService, cfg.JWTSecret, cfg.JWTExpireHours)
	guard := services.NewGuard(personRepo)
	projectService := services.NewProjectService(projectRepo, bidRepo, guard, aiService)
	bidService := services.NewBidService(bidRepo, projectRepo, guard)
	reviewService := services.NewReviewService(reviewRepo, projectRepo, personRepo, guard)

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,
		"tcp",
		cfg.RedisAddr(),
		"",
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.GinMode == "release",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Freelance Marketplace API is running",
		})
	})

	authHandler := handlers.NewAuthHandler(authService)
	handlers.Router{
		Auth:        authHandler,
		OAuth:       handlers.NewOAuthHandler(authHandler, googleConfig),
		Project:     handlers.NewProjectHandler(projectService),
		Bid:         handlers.NewBidHandler(bidService),
		Review:      handlers.NewReviewHandler(reviewService),
		RequireAuth: middleware.RequireAuth(authService, guard),
	}.Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
