package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	pb "fileupload/api/uploadpb"
	"fileupload/internal/uploader/domain"
	"fileupload/pkg/client"
)

const bufSize = 1024 * 1024

func startBufconnServer(t *testing.T, svc domain.UploadService) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	pb.RegisterFileUploadServiceServer(srv, NewUploadServiceServer(svc))
	go func() {
		_ = srv.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
	})
	return conn
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestGRPC_Upload(t *testing.T) {
	svc, dir := newTestService(t)
	c := client.NewUploadClientFromConn(startBufconnServer(t, svc), 1000)
	data := pattern(5000)

	ok, err := c.Upload(testContext(t), bytes.NewReader(data))

	require.NoError(t, err)
	assert.True(t, ok)
	got, err := os.ReadFile(filepath.Join(dir, "1.dat"))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestGRPC_UploadEmptyStream(t *testing.T) {
	svc, dir := newTestService(t)
	c := client.NewUploadClientFromConn(startBufconnServer(t, svc), 0)

	ok, err := c.Upload(testContext(t), bytes.NewReader(nil))

	require.NoError(t, err)
	assert.True(t, ok)
	info, err := os.Stat(filepath.Join(dir, "1.dat"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestGRPC_UploadWithMetadata(t *testing.T) {
	svc, dir := newTestService(t)
	c := client.NewUploadClientFromConn(startBufconnServer(t, svc), 0)
	data := pattern(3*2048 + 11)

	ok, err := c.UploadWithMetadata(testContext(t), "report.bin", 1, bytes.NewReader(data))

	require.NoError(t, err)
	assert.True(t, ok)
	got, err := os.ReadFile(filepath.Join(dir, "report.bin"))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestGRPC_UploadWithMetadata_TransferFailure(t *testing.T) {
	svc, _ := newTestService(t)
	c := client.NewUploadClientFromConn(startBufconnServer(t, svc), 0)

	ok, err := c.UploadWithMetadata(testContext(t), "missing/dir/file.bin", 3, bytes.NewReader([]byte("abc")))

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGRPC_UploadWithMetadata_RejectsBadMetadata(t *testing.T) {
	tests := []struct {
		name string
		md   metadata.MD
	}{
		{name: "no metadata", md: metadata.MD{}},
		{name: "missing size", md: metadata.Pairs(pb.MetadataFileName, "a.bin")},
		{name: "missing name", md: metadata.Pairs(pb.MetadataFileSize, "3")},
		{name: "invalid size", md: metadata.Pairs(pb.MetadataFileName, "a.bin", pb.MetadataFileSize, "three")},
	}

	svc, dir := newTestService(t)
	raw := pb.NewFileUploadServiceClient(startBufconnServer(t, svc))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := metadata.NewOutgoingContext(testContext(t), tt.md)
			stream, err := raw.UploadWithMetadata(ctx)
			require.NoError(t, err)

			_, err = stream.CloseAndRecv()
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGRPC_ClientReadErrorFailsCall(t *testing.T) {
	svc, _ := newTestService(t)
	c := client.NewUploadClientFromConn(startBufconnServer(t, svc), 0)
	boom := errors.New("local disk gone")

	ok, err := c.UploadWithMetadata(testContext(t), "broken.bin", 10,
		io.MultiReader(bytes.NewReader(pattern(100)), iotest.ErrReader(boom)))

	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}
