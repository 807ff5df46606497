package server

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "fileupload/api/uploadpb"
	"fileupload/internal/uploader/adapters"
	"fileupload/internal/uploader/domain"
	"fileupload/pkg/logger"
)

// UploadServiceServer binds the upload service to the gRPC contract.
type UploadServiceServer struct {
	pb.UnimplementedFileUploadServiceServer
	service domain.UploadService
	logger  *logger.Logger
}

func NewUploadServiceServer(service domain.UploadService) *UploadServiceServer {
	return &UploadServiceServer{
		service: service,
		logger:  logger.WithField("component", "grpc-service"),
	}
}

func (s *UploadServiceServer) Upload(stream pb.ChunkStreamServer) error {
	log := s.logger.WithField("operation", "Upload")
	log.Debug("upload stream opened")

	ok := s.service.Upload(adapters.NewChunkReader(stream))

	log.Debug("upload stream finished", "result", ok)
	return stream.SendAndClose(wrapperspb.Bool(ok))
}

func (s *UploadServiceServer) UploadWithMetadata(stream pb.ChunkStreamServer) error {
	log := s.logger.WithField("operation", "UploadWithMetadata")

	md, _ := metadata.FromIncomingContext(stream.Context())
	name, size, err := parseUploadHeaders(first(md, pb.MetadataFileName), first(md, pb.MetadataFileSize))
	if err != nil {
		log.Warn("rejecting upload with invalid metadata", "error", err)
		return status.Errorf(codes.InvalidArgument, "invalid upload metadata: %v", err)
	}

	log.Debug("upload stream opened", "fileName", name, "fileSize", size)

	result := s.service.UploadWithMetadata(&domain.UploadRequest{
		FileName: name,
		FileSize: size,
		Source:   adapters.NewChunkReader(stream),
	})

	log.Debug("upload stream finished", "fileName", name, "succeeded", result.Succeeded)
	return stream.SendAndClose(wrapperspb.Bool(result.Succeeded))
}

func first(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
