package grpc

import (
	"catalog/domain"
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ProductLookupServiceName = "catalog.v1.ProductLookup"
	getProductMethod         = "/catalog.v1.ProductLookup/GetProduct"
)

// ProductLookupServer answers product lookups from other services. Requests
// and responses are protobuf well-known types, so no generated code is
// involved.
type ProductLookupServer interface {
	GetProduct(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error)
}

var ProductLookupServiceDesc = grpc.ServiceDesc{
	ServiceName: ProductLookupServiceName,
	HandlerType: (*ProductLookupServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProduct",
			Handler:    getProductHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/product_lookup.proto",
}

func RegisterProductLookupServer(s grpc.ServiceRegistrar, srv ProductLookupServer) {
	s.RegisterService(&ProductLookupServiceDesc, srv)
}

func getProductHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.UInt64Value)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ProductLookupServer).GetProduct(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: getProductMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProductLookupServer).GetProduct(ctx, req.(*wrapperspb.UInt64Value))
	}
	return interceptor(ctx, in, info, handler)
}

// ProductLookupClient calls ProductLookup on a remote catalog.
type ProductLookupClient struct {
	cc grpc.ClientConnInterface
}

func NewProductLookupClient(cc grpc.ClientConnInterface) *ProductLookupClient {
	return &ProductLookupClient{cc: cc}
}

func (c *ProductLookupClient) GetProduct(ctx context.Context, id uint64, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getProductMethod, wrapperspb.UInt64(id), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type ProductReader interface {
	Get(ctx context.Context, id uint) (domain.Product, error)
}

type ProductLookupService struct {
	products ProductReader
}

func NewProductLookupService(products ProductReader) *ProductLookupService {
	return &ProductLookupService{
		products: products,
	}
}

func (s *ProductLookupService) GetProduct(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	if req.GetValue() == 0 {
		return nil, status.Error(codes.InvalidArgument, "product id is required")
	}

	product, err := s.products.Get(ctx, uint(req.GetValue()))
	if err != nil {
		return nil, s.mapError(err)
	}

	res, err := structpb.NewStruct(productFields(product))
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	return res, nil
}

func (s *ProductLookupService) mapError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, "product not found")
	case errors.Is(err, domain.ErrUnavailable):
		return status.Error(codes.Unavailable, "store unavailable")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// productFields renders the price as a string so it survives the trip
// through a float-only Struct unchanged.
func productFields(p domain.Product) map[string]any {
	categoryIDs := make([]any, 0, len(p.Categories))
	for _, id := range p.CategoryIDs() {
		categoryIDs = append(categoryIDs, id)
	}

	var stock any
	if p.Stock != nil {
		stock = *p.Stock
	}

	return map[string]any{
		"id":           p.ID,
		"name":         p.Name,
		"price":        p.Price.StringFixed(2),
		"stock":        stock,
		"category_ids": categoryIDs,
	}
}
