package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// Store keys. They match the names the browser storefront used, so a dump of its
// local storage can be loaded as is.
const (
	KeyProducts = "products"
	KeyOrders   = "orders"
	KeySiteName = "siteName"
	KeySiteLogo = "siteLogo"
)

const defaultMaxRetries = 5

// KVRepository maps typed collections onto a KVStore. Every mutation reads the
// whole collection and writes it back guarded by the version it read.
type KVRepository struct {
	store      port.KVStore
	newID      func() string
	maxRetries int
}

type Option func(*KVRepository)

func WithIDGenerator(fn func() string) Option {
	return func(r *KVRepository) { r.newID = fn }
}

func WithMaxRetries(n int) Option {
	return func(r *KVRepository) {
		if n > 0 {
			r.maxRetries = n
		}
	}
}

func NewKVRepository(store port.KVStore, opts ...Option) *KVRepository {
	r := &KVRepository{
		store:      store,
		newID:      uuid.NewString,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *KVRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if _, err := r.load(ctx, KeyProducts, &products); err != nil {
		return nil, err
	}
	return nonNil(products), nil
}

func (r *KVRepository) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	products, err := r.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	p, _, ok := domain.FindProduct(products, id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *KVRepository) UpsertProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.ID == "" {
		product.ID = r.newID()
	}
	product = product.Clone()

	_, err := r.MutateProducts(ctx, func(products []domain.Product) ([]domain.Product, error) {
		if _, i, ok := domain.FindProduct(products, product.ID); ok {
			products[i] = product
			return products, nil
		}
		return append(products, product), nil
	})
	if err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (r *KVRepository) DeleteProduct(ctx context.Context, id string) (bool, error) {
	deleted := false
	_, err := r.MutateProducts(ctx, func(products []domain.Product) ([]domain.Product, error) {
		deleted = false
		kept := products[:0]
		for _, p := range products {
			if p.ID == id {
				deleted = true
				continue
			}
			kept = append(kept, p)
		}
		return kept, nil
	})
	return deleted, err
}

func (r *KVRepository) MutateProducts(ctx context.Context, fn func([]domain.Product) ([]domain.Product, error)) ([]domain.Product, error) {
	var result []domain.Product
	err := r.mutate(ctx, KeyProducts, func(raw *json.RawMessage) (any, error) {
		var products []domain.Product
		if raw != nil {
			if err := json.Unmarshal(*raw, &products); err != nil {
				return nil, fmt.Errorf("decode %s: %w", KeyProducts, err)
			}
		}

		updated, err := fn(nonNil(products))
		if err != nil {
			return nil, err
		}
		result = nonNil(updated)
		return result, nil
	})
	return result, err
}

func (r *KVRepository) SeedProducts(ctx context.Context, products []domain.Product) (bool, error) {
	data, err := json.Marshal(nonNil(products))
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", KeyProducts, err)
	}

	_, err = r.store.Put(ctx, KeyProducts, string(data), 0)
	if errors.Is(err, port.ErrOptimisticLock) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("write %s: %w", KeyProducts, err)
	}
	return true, nil
}

func (r *KVRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if _, err := r.load(ctx, KeyOrders, &orders); err != nil {
		return nil, err
	}
	return nonNil(orders), nil
}

func (r *KVRepository) AppendOrder(ctx context.Context, order domain.Order) error {
	return r.mutate(ctx, KeyOrders, func(raw *json.RawMessage) (any, error) {
		var orders []domain.Order
		if raw != nil {
			if err := json.Unmarshal(*raw, &orders); err != nil {
				return nil, fmt.Errorf("decode %s: %w", KeyOrders, err)
			}
		}
		return append(orders, order), nil
	})
}

func (r *KVRepository) GetSiteConfig(ctx context.Context) (domain.SiteConfig, error) {
	name, _, err := r.store.Get(ctx, KeySiteName)
	if err != nil {
		return domain.SiteConfig{}, fmt.Errorf("read %s: %w", KeySiteName, err)
	}
	logo, _, err := r.store.Get(ctx, KeySiteLogo)
	if err != nil {
		return domain.SiteConfig{}, fmt.Errorf("read %s: %w", KeySiteLogo, err)
	}

	cfg := domain.SiteConfig{Name: name.Value, LogoURL: logo.Value}
	if cfg.Name == "" {
		cfg.Name = domain.DefaultSiteName
	}
	return cfg, nil
}

// SaveSiteConfig writes the two branding keys independently, last writer wins.
func (r *KVRepository) SaveSiteConfig(ctx context.Context, cfg domain.SiteConfig) error {
	if _, err := r.store.Put(ctx, KeySiteName, cfg.Name, port.AnyVersion); err != nil {
		return fmt.Errorf("write %s: %w", KeySiteName, err)
	}
	if _, err := r.store.Put(ctx, KeySiteLogo, cfg.LogoURL, port.AnyVersion); err != nil {
		return fmt.Errorf("write %s: %w", KeySiteLogo, err)
	}
	return nil
}

func (r *KVRepository) load(ctx context.Context, key string, dst any) (int64, error) {
	e, found, err := r.store.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", key, err)
	}
	if !found || e.Value == "" {
		return e.Version, nil
	}
	if err := json.Unmarshal([]byte(e.Value), dst); err != nil {
		return 0, fmt.Errorf("decode %s: %w", key, err)
	}
	return e.Version, nil
}

// mutate is the read-modify-write loop shared by all collection writes. fn
// receives the raw stored collection (nil when absent) and returns the value to
// encode; it may run more than once.
func (r *KVRepository) mutate(ctx context.Context, key string, fn func(raw *json.RawMessage) (any, error)) error {
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		e, found, err := r.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}

		var raw *json.RawMessage
		if found && e.Value != "" {
			msg := json.RawMessage(e.Value)
			raw = &msg
		}

		next, err := fn(raw)
		if err != nil {
			return err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}

		_, err = r.store.Put(ctx, key, string(data), e.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, port.ErrOptimisticLock) {
			return fmt.Errorf("write %s: %w", key, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("write %s after %d attempts: %w", key, r.maxRetries, port.ErrOptimisticLock)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
