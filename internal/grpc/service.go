package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "soltix.forecast.v1.ForecastService"

// ForecastMethod is the full method name of the Forecast RPC
const ForecastMethod = "/" + ServiceName + "/Forecast"

// ForecastServiceServer is the server API for the forecast service. Requests
// and responses use the same envelope as the HTTP endpoint, carried in a
// google.protobuf.Struct.
type ForecastServiceServer interface {
	Forecast(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterForecastServiceServer registers srv with s
func RegisterForecastServiceServer(s grpc.ServiceRegistrar, srv ForecastServiceServer) {
	s.RegisterService(&ForecastServiceDesc, srv)
}

func forecastHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ForecastServiceServer).Forecast(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ForecastMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ForecastServiceServer).Forecast(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ForecastServiceDesc describes the forecast service for grpc.Server
var ForecastServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ForecastServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Forecast",
			Handler:    forecastHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "soltix/forecast/v1/forecast.proto",
}
