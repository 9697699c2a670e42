package app

import (
	"context"
	"errors"
	"fmt"

	"jdmatch/internal/config"
	"jdmatch/internal/database"
	"jdmatch/internal/database/migration"
	dbpostgres "jdmatch/internal/database/postgres"
	"jdmatch/internal/infrastructure/cache"
	"jdmatch/internal/infrastructure/fetcher"
	"jdmatch/internal/infrastructure/llm"
	"jdmatch/internal/pkg/jwt"
	"jdmatch/internal/pkg/logger"
	"jdmatch/internal/pkg/metrics"
	"jdmatch/internal/repository"
	"jdmatch/internal/usecase"
	"jdmatch/internal/validator"
	"jdmatch/internal/ws"
)

// Container owns every long-lived dependency. It is built once at startup
// and closed at shutdown.
type Container struct {
	Config  config.Config
	Log     logger.Logger
	DB      database.DB
	Cache   *cache.Redis
	Metrics *metrics.Manager
	Hub     *ws.Hub
	JWT     jwt.Service

	Validator       *validator.JobDescriptionValidator
	JobDescriptions usecase.JobDescriptionUsecase
	Analysis        usecase.AnalysisUsecase

	stopHub context.CancelFunc
}

func NewContainer(ctx context.Context, cfg config.Config, log logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.Nop()
	}
	c := &Container{Config: cfg, Log: log}

	v, err := validator.NewJobDescriptionValidator()
	if err != nil {
		return nil, fmt.Errorf("load job description schemas: %w", err)
	}
	c.Validator = v

	repo, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}

	c.Metrics = metrics.NewManager(metrics.WithRuntimeCollectors())
	c.Cache = cache.NewRedis(ctx, cfg.Redis, log)

	hubCtx, stop := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(log)
	c.stopHub = stop
	go c.Hub.Run(hubCtx)

	if cfg.JWT.Enabled() {
		c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.Issuer, 0)
	} else {
		log.Warn(ctx, "jwt access secret not configured, bearer verification disabled")
	}

	opts := []usecase.JobDescriptionOption{
		usecase.WithNotifier(ws.NewNotifier(c.Hub, log)),
		usecase.WithMetrics(c.Metrics),
		usecase.WithLogger(log),
	}
	if c.Cache.Available() {
		opts = append(opts, usecase.WithStatsCache(c.Cache, cfg.Redis.StatsTTL))
	}
	c.JobDescriptions = usecase.NewJobDescriptionUsecase(repo, opts...)

	var model llm.ChatCompleter
	client, err := llm.NewOpenAIClient(cfg.LLM)
	switch {
	case err == nil:
		model = client
	case errors.Is(err, llm.ErrNotConfigured):
		log.Warn(ctx, "llm api key not configured, analysis disabled")
	default:
		_ = c.Close()
		return nil, fmt.Errorf("init llm client: %w", err)
	}

	c.Analysis = usecase.NewAnalysisUsecase(model, fetcher.New(cfg.Fetcher, log), c.JobDescriptions, c.Metrics, log)

	return c, nil
}

// openStore connects the configured driver and applies migrations.
func (c *Container) openStore(ctx context.Context) (repository.JobDescriptionRepository, error) {
	cfg := c.Config.Database
	switch cfg.Driver {
	case config.DriverMemory:
		c.Log.Warn(ctx, "using in-memory job description store, data is not persisted")
		return repository.NewMemoryJobDescriptionRepository(), nil

	case config.DriverPostgres:
		pool, err := dbpostgres.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.DB = pool

		if cfg.AutoMigrate {
			applied, err := migration.Runner{FS: migration.Embedded()}.Run(ctx, pool.SQLDB())
			if err != nil {
				_ = pool.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			for _, m := range applied {
				c.Log.Info(ctx, "migration applied", logger.Int64("version", m.Version), logger.String("name", m.Name))
			}
		}
		return repository.NewPostgresJobDescriptionRepository(pool), nil

	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}

	var errs []error
	if err := c.Cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
