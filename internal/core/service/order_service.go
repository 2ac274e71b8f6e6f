package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

type PlaceOrderRequest struct {
	RequestID string
	ProductID string
	Size      string
	Handle    string
}

type OrderService struct {
	catalog   port.CatalogRepository
	orders    port.OrderRepository
	guard     port.IdempotencyGuard
	publisher port.EventPublisher
	logger    *zap.Logger

	newID func() string
	now   func() time.Time
}

func NewOrderService(
	catalog port.CatalogRepository,
	orders port.OrderRepository,
	guard port.IdempotencyGuard,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		catalog:   catalog,
		orders:    orders,
		guard:     guard,
		publisher: publisher,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// PlaceOrder takes one unit of the chosen size and records the order. Stock is
// checked against the stored catalog, not what the caller last saw.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (domain.Order, error) {
	handle := strings.TrimSpace(req.Handle)
	if req.Size == "" || handle == "" {
		return domain.Order{}, ErrMissingSelection
	}

	if req.RequestID != "" && s.guard != nil {
		key := fmt.Sprintf("order:%s", req.RequestID)
		ok, err := s.guard.Claim(ctx, key)
		if err != nil {
			return domain.Order{}, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return domain.Order{}, ErrDuplicateRequest
		}

		order, err := s.placeOrder(ctx, req.ProductID, req.Size, handle)
		if err != nil {
			if releaseErr := s.guard.Release(ctx, key); releaseErr != nil {
				s.logger.Warn("failed to release request id", zap.String("request_id", req.RequestID), zap.Error(releaseErr))
			}
		}
		return order, err
	}

	return s.placeOrder(ctx, req.ProductID, req.Size, handle)
}

func (s *OrderService) placeOrder(ctx context.Context, productID, size, handle string) (domain.Order, error) {
	var (
		productName string
		remaining   int
	)
	_, err := s.catalog.MutateProducts(ctx, func(products []domain.Product) ([]domain.Product, error) {
		p, i, ok := domain.FindProduct(products, productID)
		if !ok {
			return nil, ErrProductNotFound
		}
		if sz, ok := p.Size(size); !ok || !sz.InStock() {
			return nil, ErrOutOfStock
		}

		remaining, _ = domain.AdjustStock(products[i].Sizes, size, -1)
		productName = p.Name
		return products, nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("stock decrement failed: %w", err)
	}

	order := domain.Order{
		ID:                s.newID(),
		ProductID:         productID,
		ProductName:       productName,
		Size:              size,
		InstagramUsername: handle,
		OrderDate:         s.now().UTC(),
	}

	if err := s.orders.AppendOrder(ctx, order); err != nil {
		s.logger.Error("failed to save order", zap.String("order_id", order.ID), zap.Error(err))
		s.restoreStock(ctx, order)
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("product_id", productID),
		zap.String("size", size),
		zap.Int("remaining", remaining))
	publish(ctx, s.publisher, s.logger, domain.OrderPlaced{Order: order, RemainingStock: remaining})

	return order, nil
}

// restoreStock gives back the unit taken for an order that could not be saved.
func (s *OrderService) restoreStock(ctx context.Context, order domain.Order) {
	_, err := s.catalog.MutateProducts(ctx, func(products []domain.Product) ([]domain.Product, error) {
		if _, i, ok := domain.FindProduct(products, order.ProductID); ok {
			domain.AdjustStock(products[i].Sizes, order.Size, 1)
		}
		return products, nil
	})
	if err != nil {
		s.logger.Error("CRITICAL rollback failed",
			zap.String("order_id", order.ID),
			zap.String("product_id", order.ProductID),
			zap.String("size", order.Size),
			zap.Error(err))
		return
	}
	s.logger.Info("rolled back stock", zap.String("order_id", order.ID))
}

func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOrders(ctx)
}
