package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/marcusziade/compiledthoughts/internal/core/config"
	"github.com/marcusziade/compiledthoughts/internal/core/domain"
	"github.com/marcusziade/compiledthoughts/internal/core/worker"
	redisclient "github.com/marcusziade/compiledthoughts/internal/infra/redis"
	"github.com/marcusziade/compiledthoughts/internal/infra/storage"
	"github.com/marcusziade/compiledthoughts/internal/infra/storage/memory"
	"github.com/marcusziade/compiledthoughts/internal/infra/storage/postgres"
	"github.com/marcusziade/compiledthoughts/internal/presence/classify"
	"github.com/marcusziade/compiledthoughts/internal/presence/fetch"
	"github.com/marcusziade/compiledthoughts/internal/presence/poll"
	"github.com/marcusziade/compiledthoughts/internal/presence/render"
	"github.com/marcusziade/compiledthoughts/internal/status/health"
)

// Config holds the application configuration.
type Config struct {
	Port     int
	Presence config.PresenceConfig
	Redis    redisclient.Config
	Database postgres.Config
}

// Service is the main application struct that manages the poller lifecycle.
type Service struct {
	cfg          Config
	scheduler    *poll.Scheduler
	fetcher      *fetch.Client
	snapshot     *render.Snapshot
	history      storage.HistoryRepository
	pruner       *worker.Pruner
	healthServer *health.Server
	db           *postgres.DB
	redisClient  *redisclient.Client
	log          *slog.Logger
}

// NewService creates a new Service instance with all dependencies initialized.
func NewService(cfg Config) (*Service, error) {
	log := slog.Default()

	if cfg.Presence.Endpoint == "" {
		return nil, fmt.Errorf("presence endpoint is required")
	}

	// 1. Initialize Storage
	var history storage.HistoryRepository
	var db *postgres.DB

	if cfg.Database.URL != "" {
		if err := connectWithRetry(context.Background(), func(ctx context.Context) error {
			var err error
			db, err = postgres.NewDB(ctx, cfg.Database)
			return err
		}); err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}

		// Run migrations
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}

		history = postgres.NewHistoryRepo(db)
		log.Info("Using PostgreSQL history storage")
	} else {
		history = memory.NewHistoryRepo()
		log.Info("Using in-memory history storage")
	}

	// 2. Initialize Redis snapshot cache (optional)
	var redisClient *redisclient.Client
	if cfg.Redis.URL != "" {
		if err := connectWithRetry(context.Background(), func(ctx context.Context) error {
			var err error
			redisClient, err = redisclient.NewClient(cfg.Redis)
			return err
		}); err != nil {
			log.Warn("Failed to connect to Redis, snapshot cache disabled", "error", err)
			redisClient = nil
		}
	}

	// 3. Build the fetch -> classify -> schedule pipeline
	classifier := classify.New(log)
	fetcher := fetch.New(cfg.Presence.Endpoint, cfg.Presence.FetchTimeout, classifier)

	snapshot := render.NewSnapshot()
	sinks := render.NewMulti()
	sinks.Add("snapshot", snapshot)
	sinks.Add("log", render.NewLogSink(log))
	if redisClient != nil {
		sinks.Add("cache", redisClient)
	}
	sinks.Add("history", historySink{repo: history})

	scheduler := poll.NewScheduler(
		poll.Config{
			SteadyInterval: cfg.Presence.SteadyInterval,
			MaxRetries:     cfg.Presence.MaxRetries,
		},
		fetcher,
		sinks,
		nil, // real clock
		log,
	)

	// 4. Health Monitor and Status Server
	monitor := health.NewMonitor(scheduler, snapshot, 2*cfg.Presence.SteadyInterval)
	healthServer := health.NewServer(monitor, snapshot, cfg.Port)

	// 5. Retention Pruner
	var pruner *worker.Pruner
	if cfg.Database.Retention > 0 {
		pruner = worker.NewPruner(cfg.Database.Retention, history, log)
	}

	return &Service{
		cfg:          cfg,
		scheduler:    scheduler,
		fetcher:      fetcher,
		snapshot:     snapshot,
		history:      history,
		pruner:       pruner,
		healthServer: healthServer,
		db:           db,
		redisClient:  redisClient,
		log:          log,
	}, nil
}

// Start starts the service and all its components.
func (s *Service) Start(ctx context.Context) error {
	// Start Status Server
	go func() {
		if err := s.healthServer.Start(); err != nil {
			s.log.Error("Status server failed", "error", err)
		}
	}()

	// Start DB Metrics Collector
	if s.db != nil {
		s.db.StartMetricsCollector(ctx)
	}

	// Start Retention Pruner
	if s.pruner != nil {
		go s.pruner.Start(ctx)
	}

	// Start Poll Scheduler
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	s.log.Info("Presence poller started",
		"endpoint", s.cfg.Presence.Endpoint,
		"steadyInterval", s.cfg.Presence.SteadyInterval,
		"maxRetries", s.cfg.Presence.MaxRetries,
	)

	return nil
}

// Stop stops the service.
func (s *Service) Stop(ctx context.Context) error {
	s.log.Info("Stopping presence poller...")

	s.scheduler.Stop()
	_ = s.fetcher.Close()

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.log.Warn("Failed to close Redis", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Warn("Failed to close database", "error", err)
		}
	}

	return s.healthServer.Stop(ctx)
}

// Scheduler exposes the poll scheduler, mainly for health inspection.
func (s *Service) Scheduler() *poll.Scheduler {
	return s.scheduler
}

// connectWithRetry dials infrastructure with a bounded fibonacci backoff.
// This is startup-only; the poll loop has its own backoff policy.
func connectWithRetry(ctx context.Context, dial func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(5, retry.NewFibonacci(500*time.Millisecond))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := dial(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// historySink adapts the history repository to the render sink interface.
type historySink struct {
	repo storage.HistoryRepository
}

func (h historySink) Render(ctx context.Context, p *domain.Presence) error {
	return h.repo.Save(ctx, p)
}
