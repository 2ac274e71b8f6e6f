package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/rl1809/storefront/internal/adapter/messaging"
	"github.com/rl1809/storefront/internal/adapter/report"
	"github.com/rl1809/storefront/internal/adapter/repository"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/config"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

// app holds the wired services for one command run.
type app struct {
	store port.KVStore
	bus   *messaging.Bus

	catalog *service.CatalogService
	orders  *service.OrderService
	admin   *service.AdminService
	reports *service.ReportService

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{bus: messaging.NewBus(logger)}

	store, guard, err := a.openStore(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store

	publisher := messaging.Fanout{a.bus}
	if cfg.Kafka.Enabled {
		kafka := messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		a.closers = append(a.closers, kafka.Close)
		publisher = append(publisher, kafka)
		logger.Info("publishing events to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	repo := repository.NewKVRepository(store, repository.WithMaxRetries(cfg.Storage.MaxRetries))
	a.catalog = service.NewCatalogService(repo, repo, publisher, logger)
	a.orders = service.NewOrderService(repo, repo, guard, publisher, logger)
	a.admin = service.NewAdminService(repo, repo, repo, publisher, logger)
	a.reports = service.NewReportService(repo, repo, report.NewXLSXRenderer())
	return a, nil
}

func (a *app) openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (port.KVStore, port.IdempotencyGuard, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		m := storage.NewMemoryAdapter()
		return m, m, nil

	case config.DriverFile:
		f, err := storage.NewFileAdapter(cfg.Storage.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using file store", zap.String("path", cfg.Storage.Path))
		return f, storage.NewMemoryAdapter(), nil

	case config.DriverSQLite:
		dsn := cfg.Storage.DSN
		if dsn == "" {
			dsn = cfg.Storage.Path + "?_pragma=busy_timeout(5000)"
		}
		db, err := a.openDB(ctx, "sqlite", dsn)
		if err != nil {
			return nil, nil, err
		}
		// SQLite allows one writer at a time
		db.SetMaxOpenConns(1)
		s, err := a.migrate(ctx, storage.NewSQLiteAdapter(db))
		return s, storage.NewMemoryAdapter(), err

	case config.DriverMySQL:
		db, err := a.openDB(ctx, "mysql", cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		s, err := a.migrate(ctx, storage.NewMySQLAdapter(db))
		return s, storage.NewMemoryAdapter(), err

	case config.DriverPostgres:
		db, err := a.openDB(ctx, "postgres", cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		s, err := a.migrate(ctx, storage.NewPostgresAdapter(db))
		return s, storage.NewMemoryAdapter(), err

	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			PoolSize: cfg.Redis.PoolSize,
		})
		a.closers = append(a.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		r := storage.NewRedisAdapter(rdb).WithIdempotencyTTL(cfg.GetIdempotencyTTL())
		return r, r, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (a *app) openDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}
	a.closers = append(a.closers, db.Close)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}
	return db, nil
}

func (a *app) migrate(ctx context.Context, s *storage.SQLAdapter) (*storage.SQLAdapter, error) {
	if err := s.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate %s store: %w", s.Dialect(), err)
	}
	return s, nil
}

// watchStore turns writes made by other processes into StoreChanged events. It
// returns immediately when the backend cannot be watched.
func (a *app) watchStore(ctx context.Context, logger *zap.Logger) error {
	w, ok := a.store.(port.KVWatcher)
	if !ok {
		return nil
	}

	keys, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch store: %w", err)
	}
	go func() {
		for key := range keys {
			logger.Debug("store changed externally", zap.String("key", key))
			a.bus.Publish(ctx, domain.StoreChanged{Key: key})
		}
	}()
	return nil
}

func (a *app) Close() {
	a.bus.Close()
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
