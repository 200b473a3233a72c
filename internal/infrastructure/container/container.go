package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdugdh24/party-match-backend/internal/clock"
	"github.com/gdugdh24/party-match-backend/internal/config"
	"github.com/gdugdh24/party-match-backend/internal/delivery/http"
	"github.com/gdugdh24/party-match-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/party-match-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/party-match-backend/internal/infrastructure/database"
	"github.com/gdugdh24/party-match-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/party-match-backend/internal/infrastructure/lock"
	"github.com/gdugdh24/party-match-backend/internal/infrastructure/logger"
	"github.com/gdugdh24/party-match-backend/internal/infrastructure/notify"
	"github.com/gdugdh24/party-match-backend/internal/infrastructure/server"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/gdugdh24/party-match-backend/internal/repository/memory"
	"github.com/gdugdh24/party-match-backend/internal/repository/postgres"
	"github.com/gdugdh24/party-match-backend/internal/usecase/auth"
	"github.com/gdugdh24/party-match-backend/internal/usecase/cleanup"
	"github.com/gdugdh24/party-match-backend/internal/usecase/event"
	"github.com/gdugdh24/party-match-backend/internal/usecase/matching"
	"github.com/gdugdh24/party-match-backend/internal/usecase/pairing"
	"github.com/gdugdh24/party-match-backend/internal/usecase/scheduler"
	"github.com/gdugdh24/party-match-backend/internal/usecase/ticketing"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *sqlx.DB
	Redis     *redis.Client
	Gemini    *gemini.GeminiClient
	Wingman   *gemini.Wingman
	Scheduler *scheduler.Scheduler
	Server    *server.Server
}

type repositories struct {
	events      repository.EventRepository
	enrollments repository.EnrollmentRepository
	profiles    repository.ProfileRepository
	pairings    repository.PairingRepository
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.New(cfg.Logging.Level, cfg.Server.Env)
	c := &Container{Config: cfg, Logger: log}

	repos, err := c.initStorage(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	var schedulerOpts []scheduler.Option
	schedulerOpts = append(schedulerOpts,
		scheduler.WithInterval(cfg.Scheduler.Interval),
		scheduler.WithRetention(cfg.Scheduler.Retention),
	)
	if cfg.Redis.Enabled() {
		c.Redis, err = database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		schedulerOpts = append(schedulerOpts, scheduler.WithLocker(lock.NewRedisLocker(c.Redis, log)))
	}

	// Icebreakers fall back to canned lines without an API key
	var icebreakers gemini.IcebreakerGenerator
	if cfg.Gemini.APIKey != "" {
		c.Gemini, err = gemini.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Warn("gemini client unavailable, using fallback icebreakers", "error", err)
		} else {
			icebreakers = c.Gemini
		}
	}
	c.Wingman = gemini.NewWingman(icebreakers, repos.profiles, repos.pairings, cfg.Gemini.Timeout, log)

	clk := clock.Real()
	hub := notify.NewHub(log)
	tokens := auth.NewTokenService(cfg.JWT.AccessSecret, clk)

	// Initialize use cases
	generator := matching.NewGenerator(repos.events, repos.enrollments, repos.profiles, repos.pairings, clk, log)
	cleaner := cleanup.NewCleaner(repos.events, clk, log)
	eventUseCase := event.NewEventUseCase(repos.events, repos.enrollments, repos.pairings, clk, cfg.Scheduler.LeadTime, log)
	ticketingUseCase := ticketing.NewTicketingUseCase(repos.events, repos.enrollments, repos.profiles, clk, log)
	pairingUseCase := pairing.NewPairingUseCase(repos.pairings, repos.events, repos.profiles, notify.Multi{hub, c.Wingman}, log)

	c.Scheduler = scheduler.New(repos.events, generator, cleaner, clk, log, schedulerOpts...)

	router := http.NewRouter(
		handler.NewEventHandler(eventUseCase),
		handler.NewTicketHandler(ticketingUseCase),
		handler.NewPairingHandler(pairingUseCase),
		handler.NewNotificationHandler(hub, cfg.Server.AllowedOrigins),
		middleware.NewAuthMiddleware(tokens),
		log,
	)
	c.Server = server.NewServer(&cfg.Server, router.Setup(), log)

	return c, nil
}

func (c *Container) initStorage(ctx context.Context) (*repositories, error) {
	switch c.Config.Storage.Type {
	case config.StorageMemory:
		c.Logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		if seed := c.Config.Storage.SeedFile; seed != "" {
			n, err := store.LoadProfiles(seed)
			if err != nil {
				return nil, err
			}
			c.Logger.Info("profiles seeded", "file", seed, "count", n)
		} else {
			c.Logger.Warn("no MEMORY_SEED_FILE set, joins fail until profiles exist")
		}
		return &repositories{
			events:      memory.NewEventRepository(store),
			enrollments: memory.NewEnrollmentRepository(store),
			profiles:    memory.NewProfileRepository(store),
			pairings:    memory.NewPairingRepository(store),
		}, nil
	default:
		db, err := database.NewPostgresDB(ctx, &c.Config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return &repositories{
			events:      postgres.NewEventRepository(db),
			enrollments: postgres.NewEnrollmentRepository(db),
			profiles:    postgres.NewProfileRepository(db),
			pairings:    postgres.NewPairingRepository(db),
		}, nil
	}
}

// Close waits for pending icebreaker writes and closes all connections
func (c *Container) Close() error {
	if c.Wingman != nil {
		c.Wingman.Wait()
	}

	var errs []error
	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close gemini client: %w", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
