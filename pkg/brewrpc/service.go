package brewrpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "brewstack.v1.Simulator"

const (
	simulateMethod = "/" + ServiceName + "/Simulate"
	defaultsMethod = "/" + ServiceName + "/Defaults"
)

// SimulatorServer is the server API for the Simulator service.
type SimulatorServer interface {
	Simulate(context.Context, *SimulateRequest) (*SimulateResponse, error)
	Defaults(context.Context, *DefaultsRequest) (*DefaultsResponse, error)
}

// RegisterSimulatorServer attaches srv to s.
func RegisterSimulatorServer(s grpc.ServiceRegistrar, srv SimulatorServer) {
	s.RegisterService(&SimulatorServiceDesc, srv)
}

// SimulatorServiceDesc describes the Simulator service for grpc.Server.
var SimulatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Simulate", Handler: simulateHandler},
		{MethodName: "Defaults", Handler: defaultsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "brewstack/v1/simulator",
}

func simulateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SimulateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).Simulate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: simulateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SimulatorServer).Simulate(ctx, req.(*SimulateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func defaultsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DefaultsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).Defaults(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: defaultsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SimulatorServer).Defaults(ctx, req.(*DefaultsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// SimulatorClient is the client API for the Simulator service.
type SimulatorClient struct {
	cc grpc.ClientConnInterface
}

// NewSimulatorClient wraps cc. Every call is sent with the JSON content-subtype.
func NewSimulatorClient(cc grpc.ClientConnInterface) *SimulatorClient {
	return &SimulatorClient{cc: cc}
}

// Simulate calls brewstack.v1.Simulator/Simulate.
func (c *SimulatorClient) Simulate(ctx context.Context, in *SimulateRequest, opts ...grpc.CallOption) (*SimulateResponse, error) {
	out := new(SimulateResponse)
	if err := c.cc.Invoke(ctx, simulateMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// Defaults calls brewstack.v1.Simulator/Defaults.
func (c *SimulatorClient) Defaults(ctx context.Context, in *DefaultsRequest, opts ...grpc.CallOption) (*DefaultsResponse, error) {
	out := new(DefaultsResponse)
	if err := c.cc.Invoke(ctx, defaultsMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
