// Package rpcgen hand-writes the gRPC service surface cmd/sindaccd hosts:
// a CodegenService with a unary Compile and a server-streaming
// CompileStream RPC, wired directly against grpc.ServiceDesc the way a
// protoc-gen-go-grpc-generated _grpc.pb.go file would be shaped, since no
// protoc step runs in this repository. The wire message type is
// google.golang.org/protobuf/types/known/structpb.Struct rather than a
// generated message — structpb.Struct already satisfies proto.Message, so
// it rides the standard gRPC codec without a hand-rolled Marshal/Unmarshal
// pair, and its open, map-shaped schema matches the JSON unit format
// pkg/sindacc already decodes.
package rpcgen

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name, matching the path
// a real codegen.proto would declare (package sindacc, service
// CodegenService).
const ServiceName = "sindacc.CodegenService"

// CodegenServer is the server-side interface cmd/sindaccd implements.
// Compile takes a request Struct (keys "unit" and optionally
// "arithmetic_mode", see RequestFromUnit) and returns a response Struct (see ResponseOK /
// ResponseErr). CompileStream takes the same request shape and streams
// the generated output back as a sequence of chunk Structs (see
// NewChunk), ending the stream after the final chunk.
type CodegenServer interface {
	Compile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompileStream(*structpb.Struct, CodegenService_CompileStreamServer) error
}

// CodegenService_CompileStreamServer is the server-side handle for a
// CompileStream call; Send pushes one chunk to the client.
type CodegenService_CompileStreamServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type codegenServiceCompileStreamServer struct {
	grpc.ServerStream
}

func (x *codegenServiceCompileStreamServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

func _CodegenService_Compile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CodegenServer).Compile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ServiceName + "/Compile",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CodegenServer).Compile(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _CodegenService_CompileStream_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(structpb.Struct)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(CodegenServer).CompileStream(m, &codegenServiceCompileStreamServer{ServerStream: stream})
}

// ServiceDesc is the grpc.ServiceDesc RegisterCodegenServiceServer
// registers against a *grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CodegenServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Compile",
			Handler:    _CodegenService_Compile_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "CompileStream",
			Handler:       _CodegenService_CompileStream_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "sindacc/codegen.proto",
}

// RegisterCodegenServiceServer registers srv against s, the same call a
// generated RegisterCodegenServiceServer function makes.
func RegisterCodegenServiceServer(s grpc.ServiceRegistrar, srv CodegenServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// CodegenServiceClient is the client-side interface NewCodegenServiceClient
// returns.
type CodegenServiceClient interface {
	Compile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CompileStream(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (CodegenService_CompileStreamClient, error)
}

type codegenServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCodegenServiceClient wraps cc as a CodegenServiceClient.
func NewCodegenServiceClient(cc grpc.ClientConnInterface) CodegenServiceClient {
	return &codegenServiceClient{cc: cc}
}

func (c *codegenServiceClient) Compile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ServiceName+"/Compile", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *codegenServiceClient) CompileStream(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (CodegenService_CompileStreamClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], ServiceName+"/CompileStream", opts...)
	if err != nil {
		return nil, err
	}
	x := &codegenServiceCompileStreamClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// CodegenService_CompileStreamClient is the client-side handle for a
// CompileStream call; Recv reads the next chunk, returning io.EOF once the
// server has sent the final one.
type CodegenService_CompileStreamClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type codegenServiceCompileStreamClient struct {
	grpc.ClientStream
}

func (x *codegenServiceCompileStreamClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
