package wordinfo

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service carries raw token bytes in the engine's encoding and answers
// with the 32-bit info value. A NotFound status means the token is outside
// the engine vocabulary.
const (
	serviceName      = "natfmt.wordinfo.v1.WordInfo"
	lookupMethodName = "Lookup"
	lookupMethod     = "/" + serviceName + "/" + lookupMethodName
)

// LookupServer is the server side of the word info service.
type LookupServer interface {
	LookupWord(context.Context, *wrapperspb.BytesValue) (*wrapperspb.UInt32Value, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LookupServer)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: lookupMethodName,
		Handler:    lookupHandler,
	}},
	Streams:  []grpc.StreamDesc{},
	Metadata: "natfmt/wordinfo/v1/wordinfo.proto",
}

// RegisterLookupServer registers srv on a gRPC server.
func RegisterLookupServer(registrar grpc.ServiceRegistrar, srv LookupServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

func lookupHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LookupServer).LookupWord(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: lookupMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LookupServer).LookupWord(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}
