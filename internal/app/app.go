package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/phrase-shortener/internal/adapter/cache"
	"github.com/vadimbarashkov/phrase-shortener/internal/adapter/events"
	"github.com/vadimbarashkov/phrase-shortener/internal/adapter/vocabulary"
	"github.com/vadimbarashkov/phrase-shortener/internal/config"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
	"github.com/vadimbarashkov/phrase-shortener/internal/usecase"
	"github.com/vadimbarashkov/phrase-shortener/internal/visit"
	"github.com/vadimbarashkov/phrase-shortener/migrations"
	"github.com/vadimbarashkov/phrase-shortener/pkg/postgres"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/phrase-shortener/internal/adapter/delivery/http"
	repository "github.com/vadimbarashkov/phrase-shortener/internal/adapter/repository/postgres"
)

func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	defaultFormat, ok := entity.FormatFromValue(cfg.Phrase.DefaultFormat)
	if !ok {
		return fmt.Errorf("%s: unknown default phrase format %q", op, cfg.Phrase.DefaultFormat)
	}
	defaultLanguage, ok := entity.LanguageFromValue(cfg.Phrase.DefaultLanguage)
	if !ok {
		return fmt.Errorf("%s: unknown default phrase language %q", op, cfg.Phrase.DefaultLanguage)
	}

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(migrations.FS, cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%s: failed to connect to redis: %w", op, err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	linkRepo := repository.NewLinkRepository(db)
	summaryRepo := repository.NewVisitSummaryRepository(db)
	visitLogRepo := repository.NewVisitLogRepository(db)

	store := vocabulary.NewStore(newVocabularyLoader(cfg.Vocabulary), cfg.Vocabulary.CacheTTL)
	synthesizer := usecase.NewSynthesizer(store, vocabulary.NewRandomAgreement(nil), nil)
	allocator := usecase.NewPhraseAllocator(synthesizer, linkRepo, cfg.Phrase.MaxAttempts)

	var provider cache.Provider
	switch cfg.Redirect.Cache {
	case config.RedirectCacheRedis:
		provider = cache.NewRedis(redisClient)
	default:
		provider = cache.NewMemory(cfg.Redirect.CacheTTL / 2)
	}
	redirectCache := cache.NewRedirectCache(provider, cfg.Redirect.CacheTTL)

	bus := events.NewBus()
	bus.SubscribeAll(events.NewMetrics(reg).Handle)
	if cfg.Events.RedisChannel != "" {
		bus.SubscribeAll(events.NewRedisPublisher(redisClient, cfg.Events.RedisChannel).Handle)
	}

	counter := visit.NewCounter()
	flushWorker := visit.NewFlushWorker(
		counter,
		summaryRepo,
		visit.WithFlushInterval(cfg.Visits.FlushInterval),
		visit.WithShutdownTimeout(cfg.Visits.ShutdownTimeout),
		visit.WithFlushLogger(logger.Logger),
		visit.WithRegisterer(reg),
	)

	logSink := visit.NewLogSink(visitLogRepo, cfg.Visits.LogTimeout, logger.Logger)
	defer logSink.Close()

	linkUseCase := usecase.NewLinkUseCase(
		allocator,
		linkRepo,
		summaryRepo,
		redirectCache,
		counter,
		logSink,
		bus,
		usecase.WithLogger(logger.Logger),
		usecase.WithDefaults(defaultFormat, defaultLanguage),
		usecase.WithPublishTimeout(cfg.Events.PublishTimeout),
	)
	defer linkUseCase.Close()

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        delivery.NewRouter(logger, linkUseCase, reg),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	// Stopped after the server has shut down.
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorker()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "addr", server.Addr, "env", cfg.Env)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		defer stopWorker()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		if err := flushWorker.Run(workerCtx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

type vocabularyLoader interface {
	Download(ctx context.Context, path string) ([]byte, bool, error)
}

func newVocabularyLoader(cfg config.Vocabulary) vocabularyLoader {
	if strings.HasPrefix(cfg.Source, "http://") || strings.HasPrefix(cfg.Source, "https://") {
		return vocabulary.NewHTTPLoader(
			cfg.Source,
			nil,
			cfg.RequestTimeout,
			vocabulary.WithMaxContentSize(cfg.MaxSizeBytes),
		)
	}

	return vocabulary.NewDirLoader(os.DirFS(cfg.Source))
}
