package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/campushq/campus-trust/config"
	pgadapter "github.com/campushq/campus-trust/internal/adapters/postgres"
	redisadapter "github.com/campushq/campus-trust/internal/adapters/redis"
	"github.com/campushq/campus-trust/internal/core"
	"github.com/campushq/campus-trust/internal/migrate"
	"github.com/campushq/campus-trust/internal/observability/notify"
	"github.com/campushq/campus-trust/internal/service"
	"github.com/campushq/campus-trust/internal/store"
	"github.com/campushq/campus-trust/internal/token"
)

// ServiceContainer holds all application services and the stores behind
// them.
type ServiceContainer struct {
	Auth       *service.AuthService
	APIKeys    *service.APIKeyService
	Engine     *service.RuleEngine
	Risk       *service.RiskScorer
	Dispatcher *service.AlertDispatcher
	Scheduler  *service.Scheduler

	Sessions    core.SessionStore
	Revoked     core.RevocationList
	Limiter     core.RateLimiter
	Events      core.EventLog
	Alerts      core.AlertStore
	Keys        core.APIKeyStore
	Multipliers store.MultiplierTable

	// Closers for the optional backends, nil when running in-memory.
	RedisClient redis.UniversalClient
	DBPool      *pgxpool.Pool
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	Clock  core.TimeProvider
	Logger *slog.Logger
	Sinks  []service.SinkRegistration
}

// BuildServices wires stores and services from configuration. Redis and
// Postgres backends are attached only when enabled; everything else runs
// in memory.
func BuildServices(deps ServiceDeps) (*ServiceContainer, error) {
	cfg := deps.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &ServiceContainer{
		Limiter:     store.NewRateLimiter(clock),
		Alerts:      store.NewAlertStore(clock),
		Keys:        store.NewAPIKeyStore(),
		Multipliers: store.MultiplierTable(cfg.RateLimit.RoleMultipliers),
	}

	if err := attachBackends(c, cfg, clock, logger); err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(token.Options{
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		RefreshSecret: []byte(cfg.Auth.RefreshSecret),
		Issuer:        cfg.Auth.Issuer,
		Clock:         clock,
	})
	if err != nil {
		return nil, fmt.Errorf("build token codec: %w", err)
	}

	authCfg := service.AuthConfig{
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
		RevocationTTL: cfg.Auth.RevocationTTL,
	}
	c.Auth = service.NewAuthService(service.AuthServiceOptions{
		Codec:    codec,
		Sessions: c.Sessions,
		Revoked:  c.Revoked,
		Events:   c.Events,
		Config:   &authCfg,
		Clock:    clock,
		Logger:   logger,
	})

	c.APIKeys = service.NewAPIKeyService(service.APIKeyServiceOptions{
		Keys:       c.Keys,
		Limiter:    c.Limiter,
		Events:     c.Events,
		RateWindow: cfg.RateLimit.General.Window,
		Clock:      clock,
		Logger:     logger,
	})

	sinks := deps.Sinks
	if len(sinks) == 0 {
		sinks = []service.SinkRegistration{{Name: "log", Sink: notify.LogSink{Logger: logger}}}
	}
	c.Dispatcher = service.NewAlertDispatcher(service.AlertDispatcherOptions{
		Sinks:      sinks,
		BufferSize: cfg.Security.DispatcherBuffer,
		Logger:     logger,
	})

	c.Engine = service.NewRuleEngine(service.RuleEngineOptions{
		Events:   c.Events,
		Alerts:   c.Alerts,
		Notifier: c.Dispatcher,
		Clock:    clock,
		Logger:   logger,
	})
	for _, rule := range service.DefaultRules() {
		if regErr := c.Engine.Register(rule); regErr != nil {
			return nil, fmt.Errorf("register default rule %s: %w", rule.ID, regErr)
		}
	}

	c.Risk = service.NewRiskScorer(service.RiskScorerOptions{
		Events:  c.Events,
		Horizon: cfg.Security.RiskHorizon,
		Clock:   clock,
	})

	schedCfg := service.SchedulerConfig{
		SessionSweepInterval: cfg.Security.SessionSweepInterval,
		RuleEvalInterval:     cfg.Security.RuleEvalInterval,
		RetentionInterval:    cfg.Security.RetentionInterval,
		SessionMaxIdle:       cfg.Auth.SessionMaxIdle,
		EventRetention:       cfg.Security.EventRetention,
		AlertRetention:       cfg.Security.AlertRetention,
	}
	c.Scheduler = service.NewScheduler(service.SchedulerOptions{
		Sessions: c.Sessions,
		Revoked:  c.Revoked,
		Events:   c.Events,
		Alerts:   c.Alerts,
		Engine:   c.Engine,
		Config:   &schedCfg,
		Clock:    clock,
		Logger:   logger,
	})

	return c, nil
}

// attachBackends picks session, revocation, and event stores: Redis and
// Postgres when enabled, in-memory otherwise.
func attachBackends(c *ServiceContainer, cfg *config.AppConfig, clock core.TimeProvider, logger *slog.Logger) error {
	if cfg.Redis.Enabled {
		client, err := ConnectRedis(cfg.Redis, logger)
		if err != nil {
			return err
		}
		c.RedisClient = client
		c.Sessions = redisadapter.NewSessionStore(redisadapter.SessionStoreOptions{
			Client:  client,
			MaxIdle: cfg.Auth.SessionMaxIdle,
			Clock:   clock,
		})
		c.Revoked = redisadapter.NewRevocationList(client, "")
	} else {
		c.Sessions = store.NewSessionStore(clock)
		c.Revoked = store.NewRevocationList(clock)
	}

	var archive core.EventArchive
	if cfg.Postgres.Enabled {
		pool, err := ConnectDB(cfg.Postgres, logger)
		if err != nil {
			return err
		}
		if migErr := migrate.Run(context.Background(), pool); migErr != nil {
			pool.Close()
			return fmt.Errorf("apply archive migrations: %w", migErr)
		}
		c.DBPool = pool
		archive = pgadapter.NewEventArchive(pool)
	}
	c.Events = store.NewEventLog(store.EventLogOptions{
		Clock:   clock,
		Archive: archive,
		Logger:  logger,
	})
	return nil
}

// Close releases the optional backend connections.
func (c *ServiceContainer) Close() error {
	var err error
	if c.RedisClient != nil {
		err = c.RedisClient.Close()
	}
	if c.DBPool != nil {
		c.DBPool.Close()
	}
	return err
}
