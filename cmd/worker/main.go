package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/tamirazrab/parley/internal/adapter/repository"
	"github.com/tamirazrab/parley/internal/infrastructure/cache"
	"github.com/tamirazrab/parley/internal/infrastructure/database"
	"github.com/tamirazrab/parley/internal/infrastructure/queue"
	"github.com/tamirazrab/parley/internal/infrastructure/storage"
	"github.com/tamirazrab/parley/internal/usecase/summarize"
	"github.com/tamirazrab/parley/internal/usecase/transcript"
	pkgai "github.com/tamirazrab/parley/pkg/ai"
	"github.com/tamirazrab/parley/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

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

	log.Println("Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	var archiver summarize.Archiver
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		// The archive is a best-effort durability layer; summarization
		// still works without it.
		logger.Warn("object storage unavailable, transcript archival disabled", zap.Error(err))
	} else {
		archiver = minioClient
	}

	meetingRepo := repository.NewMeetingRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	userRepo := repository.NewUserRepository(db)

	service := summarize.NewService(
		meetingRepo,
		userRepo,
		agentRepo,
		transcript.NewHTTPFetcher(),
		pkgai.NewOpenAIClient(&cfg.OpenAI),
		archiver,
		cfg.Worker.MaxAttempts,
		logger,
	)

	consumer := queue.NewConsumer(redisClient, cfg.Worker.QueueKey, cfg.Worker.PopTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Worker consuming %q", cfg.Worker.QueueKey)
	if err := service.Run(ctx, consumer); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Worker stopped: %v", err)
	}

	log.Println("Worker stopped gracefully")
}
