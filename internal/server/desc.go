package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "orders.v1.OrderIntake"

const (
	extractMethod = "/" + ServiceName + "/Extract"
	submitMethod  = "/" + ServiceName + "/Submit"
)

// OrderIntakeServer is the server API for orders.v1.OrderIntake.
// Requests carry {"message": string, "request_id"?: string, "chat_id"?: string};
// Submit also reads "async"?: bool.
type OrderIntakeServer interface {
	Extract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Submit(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterOrderIntakeServer(s grpc.ServiceRegistrar, srv OrderIntakeServer) {
	s.RegisterService(&OrderIntakeServiceDesc, srv)
}

func extractHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderIntakeServer).Extract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: extractMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderIntakeServer).Extract(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func submitHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrderIntakeServer).Submit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: submitMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OrderIntakeServer).Submit(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// OrderIntakeServiceDesc is the grpc.ServiceDesc for orders.v1.OrderIntake.
var OrderIntakeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrderIntakeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: extractHandler},
		{MethodName: "Submit", Handler: submitHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "orders/v1/intake.proto",
}

// OrderIntakeClient is the client API for orders.v1.OrderIntake.
type OrderIntakeClient struct {
	cc grpc.ClientConnInterface
}

func NewOrderIntakeClient(cc grpc.ClientConnInterface) *OrderIntakeClient {
	return &OrderIntakeClient{cc: cc}
}

func (c *OrderIntakeClient) Extract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, extractMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *OrderIntakeClient) Submit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, submitMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
