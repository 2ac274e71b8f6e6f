package handler

import (
	"context"

	"google.golang.org/grpc"

	"github.com/rl1809/storefront/internal/core/domain"
)

const storefrontServiceName = "storefront.v1.Storefront"

type ListProductsRequest struct{}

type ListProductsResponse struct {
	Products []domain.Product `json:"products"`
}

type GetNavBarRequest struct{}

type GetNavBarResponse struct {
	NavBar domain.NavBar `json:"nav_bar"`
}

type PlaceOrderRequest struct {
	RequestID         string `json:"request_id"`
	ProductID         string `json:"product_id"`
	Size              string `json:"size"`
	InstagramUsername string `json:"instagram_username"`
}

type PlaceOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID string `json:"order_id,omitempty"`
}

// StorefrontServer is the server API for the storefront.v1.Storefront service.
type StorefrontServer interface {
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	GetNavBar(context.Context, *GetNavBarRequest) (*GetNavBarResponse, error)
	PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderResponse, error)
}

func RegisterStorefrontServer(s grpc.ServiceRegistrar, srv StorefrontServer) {
	s.RegisterService(&StorefrontServiceDesc, srv)
}

var StorefrontServiceDesc = grpc.ServiceDesc{
	ServiceName: storefrontServiceName,
	HandlerType: (*StorefrontServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListProducts", Handler: listProductsHandler},
		{MethodName: "GetNavBar", Handler: getNavBarHandler},
		{MethodName: "PlaceOrder", Handler: placeOrderHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func fullMethod(name string) string {
	return "/" + storefrontServiceName + "/" + name
}

func listProductsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListProductsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StorefrontServer).ListProducts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("ListProducts")}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(StorefrontServer).ListProducts(ctx, req.(*ListProductsRequest))
	})
}

func getNavBarHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetNavBarRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StorefrontServer).GetNavBar(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("GetNavBar")}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(StorefrontServer).GetNavBar(ctx, req.(*GetNavBarRequest))
	})
}

func placeOrderHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PlaceOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StorefrontServer).PlaceOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("PlaceOrder")}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(StorefrontServer).PlaceOrder(ctx, req.(*PlaceOrderRequest))
	})
}

// StorefrontClient calls the storefront service over the JSON codec.
type StorefrontClient struct {
	cc grpc.ClientConnInterface
}

func NewStorefrontClient(cc grpc.ClientConnInterface) *StorefrontClient {
	return &StorefrontClient{cc: cc}
}

func (c *StorefrontClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	out := new(ListProductsResponse)
	if err := c.invoke(ctx, "ListProducts", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) GetNavBar(ctx context.Context, in *GetNavBarRequest, opts ...grpc.CallOption) (*GetNavBarResponse, error) {
	out := new(GetNavBarResponse)
	if err := c.invoke(ctx, "GetNavBar", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error) {
	out := new(PlaceOrderResponse)
	if err := c.invoke(ctx, "PlaceOrder", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}
