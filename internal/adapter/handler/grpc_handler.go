package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/storefront/internal/core/service"
)

type GRPCHandler struct {
	catalog *service.CatalogService
	orders  *service.OrderService
}

func NewGRPCHandler(catalog *service.CatalogService, orders *service.OrderService) *GRPCHandler {
	return &GRPCHandler{catalog: catalog, orders: orders}
}

func (h *GRPCHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &ListProductsResponse{Products: products}, nil
}

func (h *GRPCHandler) GetNavBar(ctx context.Context, req *GetNavBarRequest) (*GetNavBarResponse, error) {
	nav, err := h.catalog.NavBar(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &GetNavBarResponse{NavBar: nav}, nil
}

func (h *GRPCHandler) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	order, err := h.orders.PlaceOrder(ctx, service.PlaceOrderRequest{
		RequestID: req.RequestID,
		ProductID: req.ProductID,
		Size:      req.Size,
		Handle:    req.InstagramUsername,
	})
	if err != nil {
		message := "internal error"
		switch {
		case errors.Is(err, service.ErrDuplicateRequest):
			message = "duplicate request"
		case errors.Is(err, service.ErrOutOfStock):
			message = "sold out"
		case errors.Is(err, service.ErrProductNotFound):
			message = "product not found"
		case errors.Is(err, service.ErrMissingSelection):
			message = "size and instagram username are required"
		}
		return &PlaceOrderResponse{
			Success: false,
			Message: message,
		}, nil
	}

	return &PlaceOrderResponse{
		Success: true,
		Message: "order placed successfully",
		OrderID: order.ID,
	}, nil
}
