package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tamirazrab/parley/internal/adapter/handler"
	"github.com/tamirazrab/parley/internal/adapter/repository"
	"github.com/tamirazrab/parley/internal/infrastructure/cache"
	"github.com/tamirazrab/parley/internal/infrastructure/database"
	"github.com/tamirazrab/parley/internal/infrastructure/external/stream"
	"github.com/tamirazrab/parley/internal/infrastructure/queue"
	agentUsecase "github.com/tamirazrab/parley/internal/usecase/agent"
	chatUsecase "github.com/tamirazrab/parley/internal/usecase/chat"
	meetingUsecase "github.com/tamirazrab/parley/internal/usecase/meeting"
	"github.com/tamirazrab/parley/internal/usecase/reconcile"
	"github.com/tamirazrab/parley/internal/usecase/transcript"
	pkgai "github.com/tamirazrab/parley/pkg/ai"
	"github.com/tamirazrab/parley/pkg/config"
	"github.com/tamirazrab/parley/pkg/jwt"
	pkgvalidator "github.com/tamirazrab/parley/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	log.Println("Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("Applying migrations...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	log.Println("Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	meetingRepo := repository.NewMeetingRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewWebhookEventRepository(db)

	videoClient := stream.NewVideoClient(cfg)
	chatClient := stream.NewChatClient(cfg)
	openaiClient := pkgai.NewOpenAIClient(&cfg.OpenAI)
	dispatcher := queue.NewDispatcher(redisClient, cfg.Worker.QueueKey)

	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)

	responder := chatUsecase.NewResponder(meetingRepo, agentRepo, chatClient, openaiClient, logger)
	reconciler := reconcile.NewReconciler(meetingRepo, agentRepo, eventRepo, videoClient, dispatcher, responder, logger)
	meetingService := meetingUsecase.NewService(meetingRepo, agentRepo, userRepo, videoClient, chatClient, logger)
	agentService := agentUsecase.NewService(agentRepo, logger)
	loader := transcript.NewLoader(meetingRepo, userRepo, agentRepo, transcript.NewHTTPFetcher(), logger)

	webhookHandler := handler.NewWebhookHandler(reconciler, cfg.Stream.APISecret, logger)
	meetingHandler := handler.NewMeetingHandler(meetingService, loader, logger)
	agentHandler := handler.NewAgentHandler(agentService, logger)

	router := handler.NewRouter(cfg, jwtManager, webhookHandler, meetingHandler, agentHandler)
	router.Setup(e)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Starting server on %s (%s)", addr, cfg.Server.Environment)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
