package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/cache"
	"github.com/fhuszti/creatives-ms-go/internal/codec"
	"github.com/fhuszti/creatives-ms-go/internal/config"
	"github.com/fhuszti/creatives-ms-go/internal/db"
	"github.com/fhuszti/creatives-ms-go/internal/filecheck"
	"github.com/fhuszti/creatives-ms-go/internal/handler/api"
	"github.com/fhuszti/creatives-ms-go/internal/logger"
	cMiddleware "github.com/fhuszti/creatives-ms-go/internal/middleware"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/progress"
	"github.com/fhuszti/creatives-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/creatives-ms-go/internal/scanner"
	"github.com/fhuszti/creatives-ms-go/internal/storage"
	"github.com/fhuszti/creatives-ms-go/internal/task"
	jobSvc "github.com/fhuszti/creatives-ms-go/internal/usecase/job"
	sessionSvc "github.com/fhuszti/creatives-ms-go/internal/usecase/session"
	thumbnailSvcPkg "github.com/fhuszti/creatives-ms-go/internal/usecase/thumbnail"
	uploadSvc "github.com/fhuszti/creatives-ms-go/internal/usecase/upload"
	csuuid "github.com/fhuszti/creatives-ms-go/internal/uuid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	r := initRouter(cfg.JWTPublicKey)

	strg := initStorage(ctx, cfg)
	initBuckets(ctx, strg, []string{cfg.StagingBucket, cfg.CreativesBucket})

	sessionRepo := mariadb.NewSessionRepository(database.DB)
	setRepo := mariadb.NewSetRepository(database.DB)
	assetRepo := mariadb.NewAssetRepository(database.DB)
	folderRepo := mariadb.NewFolderRepository(database.DB)
	jobRepo := mariadb.NewJobRepository(database.DB)
	thumbRepo := mariadb.NewThumbnailRepository(database.DB)

	var ca port.Cache
	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		ca = cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
		dispatcher = task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		logger.Info(ctx, "✅  Redis cache enabled")
	} else {
		ca = cache.NewNoop()
		dispatcher = task.NewNoopDispatcher()
		logger.Warn(ctx, "⚠️  Redis not configured — caching and queueing are disabled")
	}

	hub := progress.NewHub()
	tracker := jobSvc.NewTracker(jobRepo, hub, csuuid.NewUUID)

	createSessionSvc := sessionSvc.NewSessionCreator(sessionRepo, assetRepo, strg, csuuid.NewUUID, cfg.StagingBucket)
	r.Post("/sessions", api.CreateSessionHandler(createSessionSvc))

	standards := loadStandards(ctx, cfg)

	finaliserSvc := uploadSvc.NewUploadFinaliser(sessionRepo, setRepo, assetRepo, strg, scanner.NewAlwaysSafe(), csuuid.NewUUID, cfg.StagingBucket, cfg.CreativesBucket, standards)
	r.With(cMiddleware.WithSessionID()).
		Post("/sessions/{sessionID}/finalise/{fileID}", api.FinaliseUploadHandler(finaliserSvc))

	batchSvc := uploadSvc.NewBatchFinaliser(sessionRepo, finaliserSvc, hub)
	r.With(cMiddleware.WithSessionID()).
		Post("/sessions/{sessionID}/finalise", api.FinaliseBatchHandler(batchSvc))

	// inline processors for workloads small enough to run in the request path
	archiveSvc := uploadSvc.NewArchiveProcessor(jobRepo, sessionRepo, setRepo, assetRepo, folderRepo, tracker, dispatcher, strg, csuuid.NewUUID, cfg.CreativesBucket)
	thumbnailSvc := thumbnailSvcPkg.NewThumbnailBatcher(jobRepo, sessionRepo, assetRepo, thumbRepo, tracker, strg, codec.NewWebPThumbnailer(), codec.NewNoFrameExtractor(), csuuid.NewUUID, cfg.CreativesBucket, cfg.ThumbnailWidth, cfg.ThumbnailHeight)

	starterSvc := uploadSvc.NewProcessingStarter(sessionRepo, assetRepo, tracker, dispatcher, archiveSvc, thumbnailSvc)
	r.With(cMiddleware.WithSessionID()).
		Post("/sessions/{sessionID}/process", api.BeginProcessingHandler(starterSvc))

	statusSvc := sessionSvc.NewStatusGetter(sessionRepo, jobRepo, setRepo, assetRepo, ca)
	r.With(cMiddleware.WithSessionID()).
		Get("/sessions/{sessionID}", api.GetStatusHandler(statusSvc))
	r.With(cMiddleware.WithSessionID()).
		Get("/sessions/{sessionID}/events", api.SessionEventsHandler(hub))

	deleteSvc := sessionSvc.NewSessionDeleter(sessionRepo, assetRepo, thumbRepo, strg, ca, cfg.StagingBucket, cfg.CreativesBucket)
	r.With(cMiddleware.WithSessionID()).
		Delete("/sessions/{sessionID}", api.DeleteSessionHandler(deleteSvc))

	r.With(cMiddleware.WithJobID()).
		Get("/jobs/{jobID}", api.GetJobHandler(jobRepo))
	r.With(cMiddleware.WithJobID()).
		Get("/jobs/{jobID}/events", api.JobEventsHandler(hub))
	r.With(cMiddleware.WithJobID()).
		Post("/jobs/{jobID}/retry", api.RetryJobHandler(tracker, dispatcher))

	listenRouter(ctx, r, cfg, database)
}

func loadStandards(ctx context.Context, cfg *config.Settings) []filecheck.Standard {
	if cfg.StandardsFile == "" {
		return filecheck.DefaultStandards
	}
	standards, err := filecheck.LoadStandards(cfg.StandardsFile)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to load standards table: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Loaded %d dimension standards from %s", len(standards), cfg.StandardsFile)
	return standards
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

func initRouter(jwtKey string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(cMiddleware.WithOwnerAuth(jwtKey))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	strg, err := storage.NewStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	return strg
}

func initBuckets(ctx context.Context, strg port.Storage, buckets []string) {
	for _, b := range buckets {
		if err := strg.InitBucket(b); err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", b, err)
			os.Exit(1)
		}
	}
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
