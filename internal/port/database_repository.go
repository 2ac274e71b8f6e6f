package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// FindProduct returns nil without error when the product does not exist
	FindProduct(ctx context.Context, id string) (*domain.Product, error)

	// UpsertProduct replaces by id or appends, assigning an id when empty
	UpsertProduct(ctx context.Context, product domain.Product) (domain.Product, error)

	DeleteProduct(ctx context.Context, id string) (bool, error)

	// MutateProducts runs fn on a fresh copy of the collection and writes the result
	// with a version check, retrying fn on conflict
	MutateProducts(ctx context.Context, fn func([]domain.Product) ([]domain.Product, error)) ([]domain.Product, error)

	// SeedProducts writes products only if no collection exists yet
	SeedProducts(ctx context.Context, products []domain.Product) (bool, error)
}

type OrderRepository interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	AppendOrder(ctx context.Context, order domain.Order) error
}

type SiteRepository interface {
	GetSiteConfig(ctx context.Context) (domain.SiteConfig, error)
	SaveSiteConfig(ctx context.Context, cfg domain.SiteConfig) error
}
