package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// CatalogService serves the customer-facing reads: seeding, listing and the nav bar.
type CatalogService struct {
	catalog   port.CatalogRepository
	site      port.SiteRepository
	publisher port.EventPublisher
	logger    *zap.Logger
}

func NewCatalogService(catalog port.CatalogRepository, site port.SiteRepository, publisher port.EventPublisher, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalog:   catalog,
		site:      site,
		publisher: publisher,
		logger:    logger,
	}
}

// Seed writes the built-in catalog when the store has none and returns the
// catalog in effect afterwards. A store that already holds products is not touched.
func (s *CatalogService) Seed(ctx context.Context) ([]domain.Product, error) {
	seed := domain.SeedCatalog()

	seeded, err := s.catalog.SeedProducts(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	if !seeded {
		return s.catalog.ListProducts(ctx)
	}

	s.logger.Info("seeded catalog", zap.Int("products", len(seed)))
	publish(ctx, s.publisher, s.logger, domain.CatalogSeeded{Products: len(seed)})
	return seed, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.catalog.FindProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if p == nil {
		return domain.Product{}, ErrProductNotFound
	}
	return *p, nil
}

func (s *CatalogService) NavBar(ctx context.Context) (domain.NavBar, error) {
	cfg, err := s.site.GetSiteConfig(ctx)
	if err != nil {
		return domain.NavBar{}, err
	}
	return domain.NewNavBar(cfg), nil
}

func publish(ctx context.Context, publisher port.EventPublisher, logger *zap.Logger, event domain.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Error("failed to publish event", zap.String("event", event.EventType()), zap.Error(err))
	}
}
