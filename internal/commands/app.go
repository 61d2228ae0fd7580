package commands

import (
	"context"
	"fmt"

	"ewallet/config"
	"ewallet/docs"
	httpHandler "ewallet/internal/adapter/http/handler"
	"ewallet/internal/adapter/messaging/amqp"
	"ewallet/internal/adapter/storage/memory"
	pgStorage "ewallet/internal/adapter/storage/postgres"
	redisStorage "ewallet/internal/adapter/storage/redis"
	"ewallet/internal/core/ports"
	"ewallet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// app is the fully wired HTTP application plus the resources it owns.
type app struct {
	router  *gin.Engine
	closers []func()
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func buildApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	var (
		walletRepo ports.WalletRepository
		txRepo     ports.TransactionRepository
		transactor ports.DBTransactor
		auditRepo  ports.AuditRepository // nil = audit entries go to the log only
		idempRepo  ports.IdempotencyRepository
		idempCache ports.IdempotencyCache // nil = no Redis fast path
		checkers   []ports.HealthChecker
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.New()
		walletRepo = store.Wallets()
		txRepo = store.Transactions()
		transactor = store
		idempRepo = store.Idempotency()
		log.Warn().Msg("Using in-memory storage, data is lost on exit")

	case config.StorageDriverPostgres:
		if cfg.Storage.AutoMigrate {
			if err := pgStorage.MigrateUp(cfg.Database.MigrateURL()); err != nil {
				return nil, fmt.Errorf("auto-migrate: %w", err)
			}
			log.Info().Msg("Database migrations applied")
		}

		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		walletRepo = pgStorage.NewWalletRepo(pool)
		txRepo = pgStorage.NewTransactionRepo(pool)
		transactor = pgStorage.NewTransactor(pool)
		auditRepo = pgStorage.NewAuditRepo(pool)
		idempRepo = pgStorage.NewIdempotencyRepo(pool)
		checkers = append(checkers, pgStorage.NewHealthCheck(pool))

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	var rateLimitStore *redisStorage.RateLimitStore
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		a.closers = append(a.closers, func() { rdb.Close() })

		idempCache = redisStorage.NewIdempotencyCache(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		checkers = append(checkers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("Redis disabled: rate limiting off, idempotency replays read the store")
	}

	var publisher ports.EventPublisher
	if cfg.AMQP.Enabled {
		p, err := amqp.NewPublisher(cfg.AMQP, log)
		if err != nil {
			return nil, fmt.Errorf("connecting to amqp: %w", err)
		}
		a.closers = append(a.closers, func() { p.Close() })

		publisher = p
		checkers = append(checkers, p)
	}

	walletSvc := service.NewWalletService(walletRepo, publisher, log)
	ledgerSvc := service.NewLedgerService(txRepo, walletRepo, transactor, idempRepo, idempCache, publisher, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	a.router = httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		LedgerSvc:      ledgerSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: checkers,
		AuditSvc:       auditSvc,
		OpenAPISpec:    docs.OpenAPI,
		Logger:         log,
	})

	return a, nil
}
