package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skillcheck-go-api/internal/config"
	"github.com/noah-isme/skillcheck-go-api/internal/database"
	"github.com/noah-isme/skillcheck-go-api/internal/handler"
	"github.com/noah-isme/skillcheck-go-api/internal/middleware"
	"github.com/noah-isme/skillcheck-go-api/internal/models"
	"github.com/noah-isme/skillcheck-go-api/internal/repository"
	"github.com/noah-isme/skillcheck-go-api/internal/router"
	"github.com/noah-isme/skillcheck-go-api/internal/service"
	"github.com/noah-isme/skillcheck-go-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.AssessmentRecord{}, &models.AssessmentSession{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	gateway, err := ai.NewOpenAIGateway(ai.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.GatewayTimeout,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create model gateway: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	historyRepo := repository.NewHistoryRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	historyService := service.NewHistoryService(historyRepo, redisClient, cfg.HistoryCacheTTL, logger)
	challengeService := service.NewChallengeService(gateway, validate, logger)
	evaluationService := service.NewEvaluationService(gateway, historyService, validate, logger)
	sessionService := service.NewSessionService(sessionRepo, challengeService, evaluationService, historyService, natsConn, validate, cfg.SessionLength, logger)
	liveService := service.NewLiveSessionService(sessionService, logger)

	includeDetail := !cfg.IsProduction()
	challengeHandler := handler.NewChallengeHandler(challengeService, logger, includeDetail)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger, includeDetail)
	sessionHandler := handler.NewSessionHandler(sessionService, logger, includeDetail)
	historyHandler := handler.NewHistoryHandler(historyService, logger)
	liveHandler := handler.NewLiveHandler(liveService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ChallengeHandler:  challengeHandler,
		EvaluationHandler: evaluationHandler,
		SessionHandler:    sessionHandler,
		HistoryHandler:    historyHandler,
		LiveHandler:       liveHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
