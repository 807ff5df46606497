// Package uploadpb holds the gRPC contract for the upload service. Messages
// are protobuf well-known wrappers, so only the service bindings live here.
package uploadpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// This is a compile-time assertion to ensure that this file
// is compatible with the grpc package it is being compiled against.
const _ = grpc.SupportPackageIsVersion9

const (
	FileUploadService_Upload_FullMethodName             = "/fileupload.FileUploadService/Upload"
	FileUploadService_UploadWithMetadata_FullMethodName = "/fileupload.FileUploadService/UploadWithMetadata"
)

// Request metadata keys read by UploadWithMetadata.
const (
	MetadataFileName = "file-name"
	MetadataFileSize = "file-size"
)

type (
	// ChunkStreamClient is the client side of both upload streams.
	ChunkStreamClient = grpc.ClientStreamingClient[wrapperspb.BytesValue, wrapperspb.BoolValue]
	// ChunkStreamServer is the server side of both upload streams.
	ChunkStreamServer = grpc.ClientStreamingServer[wrapperspb.BytesValue, wrapperspb.BoolValue]
)

// FileUploadServiceClient is the client API for FileUploadService service.
type FileUploadServiceClient interface {
	Upload(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error)
	UploadWithMetadata(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error)
}

type fileUploadServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFileUploadServiceClient(cc grpc.ClientConnInterface) FileUploadServiceClient {
	return &fileUploadServiceClient{cc}
}

func (c *fileUploadServiceClient) Upload(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &FileUploadService_ServiceDesc.Streams[0], FileUploadService_Upload_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.BytesValue, wrapperspb.BoolValue]{ClientStream: stream}
	return x, nil
}

func (c *fileUploadServiceClient) UploadWithMetadata(ctx context.Context, opts ...grpc.CallOption) (ChunkStreamClient, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	stream, err := c.cc.NewStream(ctx, &FileUploadService_ServiceDesc.Streams[1], FileUploadService_UploadWithMetadata_FullMethodName, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.BytesValue, wrapperspb.BoolValue]{ClientStream: stream}
	return x, nil
}

// FileUploadServiceServer is the server API for FileUploadService service.
// All implementations must embed UnimplementedFileUploadServiceServer
// for forward compatibility.
type FileUploadServiceServer interface {
	Upload(ChunkStreamServer) error
	UploadWithMetadata(ChunkStreamServer) error
	mustEmbedUnimplementedFileUploadServiceServer()
}

// UnimplementedFileUploadServiceServer must be embedded to have
// forward compatible implementations.
type UnimplementedFileUploadServiceServer struct{}

func (UnimplementedFileUploadServiceServer) Upload(ChunkStreamServer) error {
	return status.Errorf(codes.Unimplemented, "method Upload not implemented")
}
func (UnimplementedFileUploadServiceServer) UploadWithMetadata(ChunkStreamServer) error {
	return status.Errorf(codes.Unimplemented, "method UploadWithMetadata not implemented")
}
func (UnimplementedFileUploadServiceServer) mustEmbedUnimplementedFileUploadServiceServer() {}

func RegisterFileUploadServiceServer(s grpc.ServiceRegistrar, srv FileUploadServiceServer) {
	s.RegisterService(&FileUploadService_ServiceDesc, srv)
}

func _FileUploadService_Upload_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(FileUploadServiceServer).Upload(&grpc.GenericServerStream[wrapperspb.BytesValue, wrapperspb.BoolValue]{ServerStream: stream})
}

func _FileUploadService_UploadWithMetadata_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(FileUploadServiceServer).UploadWithMetadata(&grpc.GenericServerStream[wrapperspb.BytesValue, wrapperspb.BoolValue]{ServerStream: stream})
}

// FileUploadService_ServiceDesc is the grpc.ServiceDesc for FileUploadService service.
var FileUploadService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "fileupload.FileUploadService",
	HandlerType: (*FileUploadServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Upload",
			Handler:       _FileUploadService_Upload_Handler,
			ClientStreams: true,
		},
		{
			StreamName:    "UploadWithMetadata",
			Handler:       _FileUploadService_UploadWithMetadata_Handler,
			ClientStreams: true,
		},
	},
	Metadata: "api/proto/fileupload.proto",
}
