package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/codec"
	"github.com/fhuszti/creatives-ms-go/internal/config"
	"github.com/fhuszti/creatives-ms-go/internal/db"
	workerHandler "github.com/fhuszti/creatives-ms-go/internal/handler/worker"
	"github.com/fhuszti/creatives-ms-go/internal/logger"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/progress"
	"github.com/fhuszti/creatives-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/creatives-ms-go/internal/storage"
	"github.com/fhuszti/creatives-ms-go/internal/task"
	jobSvc "github.com/fhuszti/creatives-ms-go/internal/usecase/job"
	thumbnailSvc "github.com/fhuszti/creatives-ms-go/internal/usecase/thumbnail"
	uploadSvc "github.com/fhuszti/creatives-ms-go/internal/usecase/upload"
	csuuid "github.com/fhuszti/creatives-ms-go/internal/uuid"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	database := initDb(cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	strg := initStorage(cfg)
	initBuckets(strg, []string{cfg.StagingBucket, cfg.CreativesBucket})

	sessionRepo := mariadb.NewSessionRepository(database.DB)
	setRepo := mariadb.NewSetRepository(database.DB)
	assetRepo := mariadb.NewAssetRepository(database.DB)
	folderRepo := mariadb.NewFolderRepository(database.DB)
	jobRepo := mariadb.NewJobRepository(database.DB)
	thumbRepo := mariadb.NewThumbnailRepository(database.DB)

	dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
	hub := progress.NewHub()
	tracker := jobSvc.NewTracker(jobRepo, hub, csuuid.NewUUID)

	archiveSvc := uploadSvc.NewArchiveProcessor(jobRepo, sessionRepo, setRepo, assetRepo, folderRepo, tracker, dispatcher, strg, csuuid.NewUUID, cfg.CreativesBucket)
	thumbSvc := thumbnailSvc.NewThumbnailBatcher(jobRepo, sessionRepo, assetRepo, thumbRepo, tracker, strg, codec.NewWebPThumbnailer(), codec.NewNoFrameExtractor(), csuuid.NewUUID, cfg.CreativesBucket, cfg.ThumbnailWidth, cfg.ThumbnailHeight)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeExtractArchive, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseJobPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ExtractArchiveHandler(ctx, p, archiveSvc)
	})
	mux.HandleFunc(task.TypeGenerateThumbnails, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseJobPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.GenerateThumbnailsHandler(ctx, p, thumbSvc)
	})

	runWorker(ctx, mux, cfg, database)
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initStorage(cfg *config.Settings) port.Storage {
	strg, err := storage.NewStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(context.Background(), "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func initBuckets(strg port.Storage, buckets []string) {
	for _, b := range buckets {
		if err := strg.InitBucket(b); err != nil {
			logger.Errorf(context.Background(), "❌  Failed to initialize bucket %q: %v", b, err)
			os.Exit(1)
		}
	}
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{Concurrency: 10})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// Give Asynq up to 30 sec to finish tasks
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	srv.Shutdown()       // stop accepting new tasks, finish in-flight
	<-shutdownCtx.Done() // either timeout or done

	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
