package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/trainhub/trainhub-backend/internal/clients/media"
	"github.com/trainhub/trainhub-backend/internal/clients/redis"
	"github.com/trainhub/trainhub-backend/internal/db"
	"github.com/trainhub/trainhub-backend/internal/handlers"
	"github.com/trainhub/trainhub-backend/internal/jobs"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/middleware"
	"github.com/trainhub/trainhub-backend/internal/observability"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/server"
	"github.com/trainhub/trainhub-backend/internal/services"
	"github.com/trainhub/trainhub-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "trainhub-backend",
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	sweepInterval := utils.GetEnvAsInt("COMPLETION_SWEEP_INTERVAL", 300, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis (optional)
	cache, err := redis.NewCache(log)
	if err != nil {
		log.Warn("Redis init failed, caching disabled", "error", err)
		cache = nil
	}
	defer cache.Close()

	// Media store
	mediaStore, err := media.NewLocalStore(log)
	if err != nil {
		log.Error("Could not init media store", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	categoryRepo := repos.NewCategoryRepo(thePG, log)
	sessionRepo := repos.NewTrainingSessionRepo(thePG, log)
	courseRepo := repos.NewCourseRepo(thePG, log)
	contentRepo := repos.NewCourseContentRepo(thePG, log)
	completionRepo := repos.NewCourseCompletionRepo(thePG, log)
	registrationRepo := repos.NewRegistrationRepo(thePG, log)
	feedbackRepo := repos.NewFeedbackRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)

	// Services
	log.Info("Setting up services from main...")
	avatarService, err := services.NewAvatarService(thePG, log, mediaStore)
	if err != nil {
		log.Error("Could not init AvatarService", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, avatarService,
		jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo, avatarService)
	categoryService := services.NewCategoryService(thePG, log, categoryRepo)
	sessionService := services.NewSessionService(thePG, log, sessionRepo)
	notificationService := services.NewNotificationService(thePG, log, notificationRepo, cache)
	registrationService := services.NewRegistrationService(thePG, log, userRepo, sessionRepo, registrationRepo, notificationService)
	courseService := services.NewCourseService(thePG, log, sessionRepo, courseRepo)
	contentService := services.NewContentService(thePG, log, sessionRepo, courseRepo, contentRepo, mediaStore)
	completionService := services.NewCompletionService(thePG, log, courseRepo, registrationRepo, completionRepo)
	feedbackService := services.NewFeedbackService(thePG, log, sessionRepo, registrationRepo, feedbackRepo)
	dashboardService := services.NewDashboardService(thePG, log, sessionRepo, registrationRepo, cache)

	// Background jobs
	sweeper := jobs.NewCompletionSweeper(thePG, log, sessionRepo, registrationRepo, userTokenRepo,
		time.Duration(sweepInterval)*time.Second)
	go sweeper.Run(ctx)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthcheckHandler := handlers.NewHealthcheckHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	courseHandler := handlers.NewCourseHandler(courseService)
	contentHandler := handlers.NewContentHandler(contentService)
	completionHandler := handlers.NewCompletionHandler(completionService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if raw := strings.TrimSpace(utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:      origins,
		AuthMiddleware:      authMiddleware,
		HealthcheckHandler:  healthcheckHandler,
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		SessionHandler:      sessionHandler,
		RegistrationHandler: registrationHandler,
		CourseHandler:       courseHandler,
		ContentHandler:      contentHandler,
		CompletionHandler:   completionHandler,
		CategoryHandler:     categoryHandler,
		NotificationHandler: notificationHandler,
		DashboardHandler:    dashboardHandler,
		FeedbackHandler:     feedbackHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
