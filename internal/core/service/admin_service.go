package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// Dashboard is everything the admin order page shows.
type Dashboard struct {
	Summary            domain.Summary        `json:"summary"`
	Customers          []domain.CustomerStat `json:"customers"`
	ProductOrderCounts map[string]int        `json:"product_order_counts"`
}

type AdminService struct {
	catalog   port.CatalogRepository
	orders    port.OrderRepository
	site      port.SiteRepository
	publisher port.EventPublisher
	logger    *zap.Logger
}

func NewAdminService(
	catalog port.CatalogRepository,
	orders port.OrderRepository,
	site port.SiteRepository,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		catalog:   catalog,
		orders:    orders,
		site:      site,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *AdminService) NewDraft() *domain.ProductDraft {
	return domain.NewProductDraft()
}

func (s *AdminService) EditDraft(ctx context.Context, id string) (*domain.ProductDraft, error) {
	p, err := s.catalog.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return domain.EditProductDraft(*p), nil
}

// SaveDraft validates the draft and stores it. Editing drafts replace the product
// with the same id; new drafts are appended under a fresh id.
func (s *AdminService) SaveDraft(ctx context.Context, draft *domain.ProductDraft) (domain.Product, error) {
	product := draft.Product.Clone()
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	if !draft.IsEditing() {
		saved, err := s.catalog.UpsertProduct(ctx, product)
		if err != nil {
			return domain.Product{}, fmt.Errorf("create product: %w", err)
		}
		s.logger.Info("product created", zap.String("product_id", saved.ID), zap.String("name", saved.Name))
		publish(ctx, s.publisher, s.logger, domain.ProductSaved{Product: saved, Created: true})
		return saved, nil
	}

	_, err := s.catalog.MutateProducts(ctx, func(products []domain.Product) ([]domain.Product, error) {
		_, i, ok := domain.FindProduct(products, product.ID)
		if !ok {
			return nil, ErrProductNotFound
		}
		products[i] = product
		return products, nil
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %s: %w", product.ID, err)
	}

	s.logger.Info("product updated", zap.String("product_id", product.ID))
	publish(ctx, s.publisher, s.logger, domain.ProductSaved{Product: product})
	return product, nil
}

// DeleteProduct removes a product once the admin confirmed it. Orders that
// reference the product are kept.
func (s *AdminService) DeleteProduct(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	deleted, err := s.catalog.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if !deleted {
		return ErrProductNotFound
	}

	s.logger.Info("product deleted", zap.String("product_id", id))
	publish(ctx, s.publisher, s.logger, domain.ProductDeleted{ProductID: id})
	return nil
}

func (s *AdminService) SiteConfig(ctx context.Context) (domain.SiteConfig, error) {
	return s.site.GetSiteConfig(ctx)
}

func (s *AdminService) UpdateSiteConfig(ctx context.Context, cfg domain.SiteConfig) (domain.SiteConfig, error) {
	if err := cfg.Validate(); err != nil {
		return domain.SiteConfig{}, err
	}
	if err := s.site.SaveSiteConfig(ctx, cfg); err != nil {
		return domain.SiteConfig{}, fmt.Errorf("save site config: %w", err)
	}

	s.logger.Info("site config updated", zap.String("name", cfg.Name))
	publish(ctx, s.publisher, s.logger, domain.SiteConfigUpdated{Config: cfg})
	return cfg, nil
}

func (s *AdminService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}

func (s *AdminService) Dashboard(ctx context.Context) (Dashboard, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Summary:            domain.Summarize(orders, products),
		Customers:          domain.CustomerStats(orders, products),
		ProductOrderCounts: domain.OrderCounts(orders),
	}, nil
}
