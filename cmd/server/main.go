package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"chorestar/internal/config"
	"chorestar/internal/database"
	"chorestar/internal/handlers"
	"chorestar/internal/repository"
	"chorestar/internal/security"
	"chorestar/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration invalid: %v", err)
	}

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	childRepo := repository.NewChildRepository(db)
	pinRepo := repository.NewPinRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	choreRepo := repository.NewChoreRepository(db)
	routineRepo := repository.NewRoutineRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	childService := service.NewChildService(childRepo)
	pinService := service.NewPinService(childRepo, pinRepo, cfg.PinMaxAttempts, cfg.PinLockoutDuration)
	familyService := service.NewFamilyService(familyRepo, userRepo, cfg.InviteTTL)
	choreService := service.NewChoreService(childRepo, choreRepo)
	routineService := service.NewRoutineService(childRepo, routineRepo)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Security primitives
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	childTokens := security.NewChildTokenIssuer(cfg.ChildTokenSecret, cfg.SessionDuration)
	limiter := security.NewRateLimiter(20, time.Minute)

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, familyService, csrf, childTokens, limiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, csrf, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBaseURL)
	childHandler := handlers.NewChildHandler(childService, pinService, childTokens)
	familyHandler := handlers.NewFamilyHandler(familyService, emailService)
	choreHandler := handlers.NewChoreHandler(choreService)
	routineHandler := handlers.NewRoutineHandler(routineService)
	childSessionHandler := handlers.NewChildSessionHandler(childService, choreService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleOAuthCallback)
	mux.HandleFunc("GET /api/invites/{code}", familyHandler.InviteInfo)

	// Authenticated parent routes
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /api/csrf", middleware.RequireAuth(authHandler.CSRFToken))

	mux.HandleFunc("GET /api/children", middleware.RequireAuth(childHandler.List))
	mux.HandleFunc("POST /api/children", middleware.RequireAuth(middleware.CSRFProtect(childHandler.Create)))
	mux.HandleFunc("GET /api/children/{id}", middleware.RequireAuth(childHandler.Get))
	mux.HandleFunc("PUT /api/children/{id}", middleware.RequireAuth(middleware.CSRFProtect(childHandler.Update)))
	mux.HandleFunc("DELETE /api/children/{id}", middleware.RequireAuth(middleware.CSRFProtect(childHandler.Delete)))
	mux.HandleFunc("PUT /api/children/{id}/pin", middleware.RequireAuth(middleware.CSRFProtect(childHandler.SetPin)))
	mux.HandleFunc("DELETE /api/children/{id}/pin", middleware.RequireAuth(middleware.CSRFProtect(childHandler.RemovePin)))
	mux.HandleFunc("POST /api/children/{id}/verify-pin", middleware.RateLimit(middleware.RequireAuth(middleware.CSRFProtect(childHandler.VerifyPin))))

	mux.HandleFunc("GET /api/children/{childId}/chores", middleware.RequireAuth(choreHandler.List))
	mux.HandleFunc("GET /api/children/{childId}/chores/summary", middleware.RequireAuth(choreHandler.WeeklySummary))
	mux.HandleFunc("POST /api/chores", middleware.RequireAuth(middleware.CSRFProtect(choreHandler.Create)))
	mux.HandleFunc("PUT /api/chores/{id}", middleware.RequireAuth(middleware.CSRFProtect(choreHandler.Update)))
	mux.HandleFunc("DELETE /api/chores/{id}", middleware.RequireAuth(middleware.CSRFProtect(choreHandler.Delete)))
	mux.HandleFunc("POST /api/chores/{id}/toggle", middleware.RequireAuth(middleware.CSRFProtect(choreHandler.Toggle)))

	mux.HandleFunc("GET /api/children/{childId}/routines", middleware.RequireAuth(routineHandler.List))
	mux.HandleFunc("POST /api/routines", middleware.RequireAuth(middleware.CSRFProtect(routineHandler.Create)))
	mux.HandleFunc("PUT /api/routines/{id}", middleware.RequireAuth(middleware.CSRFProtect(routineHandler.Update)))
	mux.HandleFunc("DELETE /api/routines/{id}", middleware.RequireAuth(middleware.CSRFProtect(routineHandler.Delete)))
	mux.HandleFunc("POST /api/routines/{id}/toggle", middleware.RequireAuth(middleware.CSRFProtect(routineHandler.Toggle)))

	mux.HandleFunc("POST /api/family/invites", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.CreateInvite)))
	mux.HandleFunc("POST /api/family/invites/accept", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.AcceptInvite)))
	mux.HandleFunc("GET /api/family/members", middleware.RequireAuth(familyHandler.ListMembers))
	mux.HandleFunc("DELETE /api/family/members/{userId}", middleware.RequireAuth(middleware.CSRFProtect(familyHandler.RemoveMember)))

	// Child session routes
	mux.HandleFunc("GET /api/child/me", middleware.RequireChildAuth(childSessionHandler.Me))
	mux.HandleFunc("GET /api/child/chores", middleware.RequireChildAuth(childSessionHandler.Chores))
	mux.HandleFunc("POST /api/child/chores/{id}/toggle", middleware.RequireChildAuth(childSessionHandler.ToggleChore))
	mux.HandleFunc("POST /api/child/logout", childSessionHandler.Logout)

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired parent sessions cleaned up")
		}
	}
}
