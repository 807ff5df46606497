package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "fileupload/api/uploadpb"
)

// DefaultChunkSize is the payload size of each streamed message.
const DefaultChunkSize = 64 * 1024

type UploadClient struct {
	client    pb.FileUploadServiceClient
	conn      *grpc.ClientConn
	chunkSize int
}

// NewUploadClient dials serverAddr without transport security. Extra dial
// options are appended after the defaults.
func NewUploadClient(serverAddr string, chunkSize int, opts ...grpc.DialOption) (*UploadClient, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.WaitForReady(true)),
	}, opts...)

	conn, err := grpc.NewClient(serverAddr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	c := NewUploadClientFromConn(conn, chunkSize)
	c.conn = conn
	return c, nil
}

// NewUploadClientFromConn wraps an existing connection. Close does not
// close cc.
func NewUploadClientFromConn(cc grpc.ClientConnInterface, chunkSize int) *UploadClient {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &UploadClient{
		client:    pb.NewFileUploadServiceClient(cc),
		chunkSize: chunkSize,
	}
}

func (c *UploadClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Upload streams r to the server, which picks the file name.
func (c *UploadClient) Upload(ctx context.Context, r io.Reader) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.client.Upload(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to open upload stream: %w", err)
	}
	return c.send(stream, r, cancel)
}

// UploadWithMetadata streams r to the server, which stores it as fileName.
func (c *UploadClient) UploadWithMetadata(ctx context.Context, fileName string, fileSize int64, r io.Reader) (bool, error) {
	ctx = metadata.AppendToOutgoingContext(ctx,
		pb.MetadataFileName, fileName,
		pb.MetadataFileSize, strconv.FormatInt(fileSize, 10),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.client.UploadWithMetadata(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to open upload stream: %w", err)
	}
	return c.send(stream, r, cancel)
}

// send streams r in chunks. A local read error cancels the call so the
// server sees a failed stream instead of a clean end of input.
func (c *UploadClient) send(stream pb.ChunkStreamClient, r io.Reader, cancel context.CancelFunc) (bool, error) {
	buf := make([]byte, c.chunkSize)

	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if err := stream.Send(wrapperspb.Bytes(bytes.Clone(buf[:n]))); err != nil {
				// io.EOF means the server ended the call; its status is
				// returned by CloseAndRecv.
				if errors.Is(err, io.EOF) {
					break
				}
				return false, fmt.Errorf("failed to send chunk: %w", err)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			cancel()
			return false, fmt.Errorf("failed to read source: %w", readErr)
		}
	}

	res, err := stream.CloseAndRecv()
	if err != nil {
		return false, err
	}
	return res.GetValue(), nil
}
