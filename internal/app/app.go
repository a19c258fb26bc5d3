package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/orders-intake/internal/catalog"
	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/core/llm"
	"github.com/joseph-ayodele/orders-intake/internal/core/pipeline"
	"github.com/joseph-ayodele/orders-intake/internal/metrics"
	"github.com/joseph-ayodele/orders-intake/internal/repository"
	"github.com/joseph-ayodele/orders-intake/internal/services/customers"
	"github.com/joseph-ayodele/orders-intake/internal/services/export"
	"github.com/joseph-ayodele/orders-intake/internal/services/invoice"
	"github.com/joseph-ayodele/orders-intake/internal/services/orders"
)

// App holds every wired component. Close releases the database and redis handles.
type App struct {
	Config       *common.Config
	DB           *repository.DB
	Products     repository.CatalogRepository
	Ledger       repository.LedgerRepository
	Catalog      catalog.Provider
	Metrics      *metrics.Registry
	Orchestrator *pipeline.Orchestrator
	Orders       *orders.Service
	Customers    *customers.Service
	Export       *export.Service

	redis  *redis.Client
	logger *slog.Logger
}

// New opens storage, applies migrations and wires the extraction pipeline and services.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := cfg.Database
	db, err := repository.Open(ctx, repository.Config{
		DSN:              d.DSN,
		MaxConns:         d.MaxConns,
		MinConns:         d.MinConns,
		MaxConnLifetime:  d.MaxConnLifetime,
		MaxConnIdleTime:  d.MaxConnIdleTime,
		DialTimeout:      d.DialTimeout,
		StatementTimeout: d.StatementTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}
	a := &App{Config: cfg, DB: db, logger: logger}

	if err := db.Migrate(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrDatabase, err)
	}

	a.Products = repository.NewCatalogRepository(db, logger)
	a.Ledger = repository.NewLedgerRepository(db, logger)
	sequences := repository.NewSequenceRepository(db, logger)
	customerRepo := repository.NewCustomerRepository(db, logger)

	var source catalog.Provider = a.Products
	if cfg.Catalog.Source == "xlsx" {
		source = catalog.NewXLSXProvider(cfg.Catalog.XLSXPath, cfg.Catalog.Sheet, logger)
	}
	if cfg.Catalog.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.Catalog.RedisAddr})
		source = catalog.NewRedisCache(source, a.redis, cfg.Catalog.CacheKey, cfg.Catalog.CacheTTL, logger)
	}
	a.Catalog = source

	completion, err := llm.NewCompletionClient(ctx, cfg.LLM, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	var ai pipeline.AIExtractor
	if completion != nil {
		ai = llm.NewExtractor(completion, cfg.LLM.Timeout, logger)
	}

	a.Metrics = metrics.NewRegistry()
	sink := pipeline.MultiSink{pipeline.LogSink{Logger: logger}, a.Metrics}
	a.Orchestrator = pipeline.NewOrchestrator(logger, source, ai, sink, pipeline.ThresholdsFromConfig(cfg.Extraction))

	seq, err := invoice.New(cfg.Invoice, sequences, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Customers = customers.NewService(customerRepo, a.Ledger, logger)
	a.Orders = orders.NewService(a.Orchestrator, seq, a.Ledger, a.Customers, a.Metrics, logger)
	a.Export = export.NewService(a.Ledger, logger)

	logger.Info("app.ready",
		"catalog_source", cfg.Catalog.Source,
		"catalog_cache", cfg.Catalog.RedisAddr != "",
		"llm_provider", cfg.LLM.Provider,
		"invoice_generator", cfg.Invoice.Generator,
	)
	return a, nil
}

// InvalidateCatalog drops the cached snapshot after the product table changes.
func (a *App) InvalidateCatalog(ctx context.Context) {
	if c, ok := a.Catalog.(*catalog.RedisCache); ok {
		if err := c.Invalidate(ctx); err != nil {
			a.logger.Warn("catalog.cache.invalidate_failed", "error", err)
		}
	}
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", "error", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
