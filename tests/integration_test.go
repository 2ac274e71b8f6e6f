package tests

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/rl1809/storefront/internal/adapter/messaging"
	"github.com/rl1809/storefront/internal/adapter/report"
	"github.com/rl1809/storefront/internal/adapter/repository"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

type testEnv struct {
	store   port.KVStore
	guard   port.IdempotencyGuard
	repo    *repository.KVRepository
	catalog *service.CatalogService
	orders  *service.OrderService
	admin   *service.AdminService
	reports *service.ReportService
	bus     *messaging.Bus
}

func newEnv(t *testing.T, store port.KVStore, guard port.IdempotencyGuard) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	repo := repository.NewKVRepository(store, repository.WithMaxRetries(100))
	bus := messaging.NewBus(logger)
	t.Cleanup(bus.Close)

	return &testEnv{
		store:   store,
		guard:   guard,
		repo:    repo,
		catalog: service.NewCatalogService(repo, repo, bus, logger),
		orders:  service.NewOrderService(repo, repo, guard, bus, logger),
		admin:   service.NewAdminService(repo, repo, repo, bus, logger),
		reports: service.NewReportService(repo, repo, report.NewXLSXRenderer()),
		bus:     bus,
	}
}

func setupSQLiteEnv(t *testing.T) *testEnv {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "store.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	s := storage.NewSQLiteAdapter(db)
	require.NoError(t, s.Migrate(context.Background()))
	return newEnv(t, s, storage.NewMemoryAdapter())
}

func setupRedisEnv(t *testing.T) *testEnv {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	// Clear previous test data
	ctx := context.Background()
	for _, key := range []string{repository.KeyProducts, repository.KeyOrders, repository.KeySiteName, repository.KeySiteLogo} {
		rdb.Del(ctx, "kv:"+key)
	}

	r := storage.NewRedisAdapter(rdb)
	return newEnv(t, r, r)
}

var backends = map[string]func(*testing.T) *testEnv{
	"sqlite": setupSQLiteEnv,
	"redis":  setupRedisEnv,
}

func TestIntegration_FullStorefrontFlow(t *testing.T) {
	for name, setup := range backends {
		t.Run(name, func(t *testing.T) {
			env := setup(t)
			ctx := context.Background()

			events, cancel := env.bus.Subscribe(64)
			defer cancel()

			products, err := env.catalog.Seed(ctx)
			require.NoError(t, err)
			require.Len(t, products, 2)

			// Seeding again leaves the store alone
			before, _, err := env.store.Get(ctx, repository.KeyProducts)
			require.NoError(t, err)
			_, err = env.catalog.Seed(ctx)
			require.NoError(t, err)
			after, _, err := env.store.Get(ctx, repository.KeyProducts)
			require.NoError(t, err)
			assert.Equal(t, before, after)

			order, err := env.orders.PlaceOrder(ctx, service.PlaceOrderRequest{
				RequestID: uuid.NewString(),
				ProductID: "1",
				Size:      "M",
				Handle:    "ayse_k",
			})
			require.NoError(t, err)

			p, err := env.catalog.GetProduct(ctx, "1")
			require.NoError(t, err)
			m, _ := p.Size("M")
			assert.Equal(t, 7, m.Stock)

			draft, err := env.admin.EditDraft(ctx, "1")
			require.NoError(t, err)
			draft.Price = 249.99
			_, err = env.admin.SaveDraft(ctx, draft)
			require.NoError(t, err)

			dash, err := env.admin.Dashboard(ctx)
			require.NoError(t, err)
			assert.Equal(t, "249.99", dash.Summary.Revenue.String())

			require.NoError(t, env.admin.DeleteProduct(ctx, "1", true))
			orders, err := env.admin.ListOrders(ctx)
			require.NoError(t, err)
			require.Len(t, orders, 1)
			assert.Equal(t, order.ID, orders[0].ID)
			assert.Equal(t, "Basic T-Shirt", orders[0].ProductName)

			r, err := env.reports.ExportOrders(ctx)
			require.NoError(t, err)
			assert.Len(t, r.Sheet.Rows, 1)

			var types []string
			for len(events) > 0 {
				types = append(types, (<-events).EventType())
			}
			assert.Equal(t, []string{"catalog.seeded", "order.placed", "product.saved", "product.deleted"}, types)
		})
	}
}

func TestIntegration_ConcurrentOrdersRespectStock(t *testing.T) {
	for name, setup := range backends {
		t.Run(name, func(t *testing.T) {
			env := setup(t)
			ctx := context.Background()
			_, err := env.catalog.Seed(ctx)
			require.NoError(t, err)

			// Size M of product 1 starts with 8 units
			initialStock := 8
			totalRequests := 20

			var successCount atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < totalRequests; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := env.orders.PlaceOrder(ctx, service.PlaceOrderRequest{
						RequestID: uuid.NewString(),
						ProductID: "1",
						Size:      "M",
						Handle:    "user",
					})
					if err == nil {
						successCount.Add(1)
					} else if !errors.Is(err, service.ErrOutOfStock) {
						t.Errorf("unexpected error: %v", err)
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, int32(initialStock), successCount.Load())

			p, err := env.catalog.GetProduct(ctx, "1")
			require.NoError(t, err)
			m, _ := p.Size("M")
			assert.Equal(t, 0, m.Stock)

			orders, err := env.repo.ListOrders(ctx)
			require.NoError(t, err)
			assert.Len(t, orders, initialStock)
		})
	}
}

func TestIntegration_IdempotencyPreventsDoubleOrder(t *testing.T) {
	for name, setup := range backends {
		t.Run(name, func(t *testing.T) {
			env := setup(t)
			ctx := context.Background()
			_, err := env.catalog.Seed(ctx)
			require.NoError(t, err)

			req := service.PlaceOrderRequest{
				RequestID: "same-request-id-" + uuid.NewString(),
				ProductID: "2",
				Size:      "30",
				Handle:    "mehmet",
			}
			_, err = env.orders.PlaceOrder(ctx, req)
			require.NoError(t, err)

			_, err = env.orders.PlaceOrder(ctx, req)
			assert.ErrorIs(t, err, service.ErrDuplicateRequest)

			p, err := env.catalog.GetProduct(ctx, "2")
			require.NoError(t, err)
			s, _ := p.Size("30")
			assert.Equal(t, 5, s.Stock)
		})
	}
}

func TestIntegration_FileStoreSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := storage.NewFileAdapter(dir, zap.NewNop())
	require.NoError(t, err)
	env := newEnv(t, first, storage.NewMemoryAdapter())
	_, err = env.catalog.Seed(ctx)
	require.NoError(t, err)
	_, err = env.admin.UpdateSiteConfig(ctx, domain.SiteConfig{Name: "Moda"})
	require.NoError(t, err)

	second, err := storage.NewFileAdapter(dir, zap.NewNop())
	require.NoError(t, err)
	reopened := newEnv(t, second, storage.NewMemoryAdapter())

	nav, err := reopened.catalog.NavBar(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Moda", nav.Title)
	products, err := reopened.catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}
