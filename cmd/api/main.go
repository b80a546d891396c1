package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"zelapb/api/internal/app"
	"zelapb/api/internal/classify"
	"zelapb/api/internal/config"
	"zelapb/api/internal/export"
	"zelapb/api/internal/feed"
	"zelapb/api/internal/media"
	"zelapb/api/internal/metrics"
	"zelapb/api/internal/search"
	"zelapb/api/internal/seed"
	"zelapb/api/internal/session"
	"zelapb/api/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshot, err := seed.Load(cfg.SeedFile, time.Now())
	if err != nil {
		logger.Fatal("seed load failed", zap.String("file", cfg.SeedFile), zap.Error(err))
	}
	dataStore := store.NewMemoryStore(snapshot)
	metrics.Register()
	if snapshot.Config.MaintenanceMode {
		metrics.MaintenanceMode.Set(1)
	}

	var sessions session.Store = session.NewMemoryStore()
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisStore, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		defer redisStore.Close()
		sessions = redisStore
		logger.Info("using redis for sessions")
	}

	var classifier classify.Classifier
	var generator classify.ConfigGenerator
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		gemini, err := classify.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal("gemini client init failed", zap.Error(err))
		}
		classifier, generator = gemini, gemini
		logger.Info("using gemini for classification", zap.String("model", cfg.GeminiModel))
	} else {
		stub := classify.NewStub()
		classifier, generator = stub, stub
		logger.Warn("GEMINI_API_KEY not set, using the offline keyword classifier")
	}
	ai := classify.WithFallback(classifier, generator, cfg.ClassifyTimeout, logger.Named("classify"))

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey, logger.Named("search"))
	}
	searchService := search.NewService(meiliClient, search.NewMemory(dataStore), logger.Named("search"))
	defer searchService.Close()
	searchService.ReindexAll(ctx, dataStore)

	var photos media.Store = media.Inline{}
	if strings.TrimSpace(cfg.MinIOEndpoint) != "" {
		minioStore, err := media.NewMinIO(ctx, media.MinIOConfig{
			Endpoint:      cfg.MinIOEndpoint,
			AccessKey:     cfg.MinIOAccessKey,
			SecretKey:     cfg.MinIOSecretKey,
			Bucket:        cfg.MinIOBucket,
			UseSSL:        cfg.MinIOUseSSL,
			PublicBaseURL: cfg.MinIOPublicURL,
		})
		if err != nil {
			logger.Fatal("minio init failed", zap.Error(err))
		}
		photos = minioStore
		logger.Info("storing report photos in minio", zap.String("bucket", cfg.MinIOBucket))
	}

	exporter := export.NewService()
	if !exporter.PDFAvailable() {
		logger.Warn("no chrome binary found, PDF bulletins are disabled")
	}

	hub := feed.NewHub(logger.Named("feed"))
	service := app.New(cfg, app.Deps{
		Store:    dataStore,
		Sessions: sessions,
		AI:       ai,
		Feed:     hub,
		Search:   searchService,
		Photos:   photos,
		Exporter: exporter,
		Logger:   logger.Named("app"),
	})

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, hub, logger.Named("http"))
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return hub.Run(groupCtx)
	})
	group.Go(func() error {
		logger.Info("ZelaPB API listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped with error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if strings.TrimSpace(level) != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		zapConfig.Level = zap.NewAtomicLevelAt(parsed)
	}
	return zapConfig.Build()
}
