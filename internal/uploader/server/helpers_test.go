package server

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"fileupload/internal/uploader/core/ids"
	"fileupload/internal/uploader/core/service"
	"fileupload/internal/uploader/core/transfer"
	"fileupload/pkg/platform"
)

// newTestService returns a disk backed upload service writing into a fresh
// temp dir with predictable "<n>.dat" names.
func newTestService(t *testing.T) (*service.UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	svc := service.NewUploadService(
		transfer.New(platform.NewMockPlatform(), 0),
		ids.NewSequenceGenerator(""),
		service.WithDirectory(dir),
	)
	return svc, dir
}

func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 253)
	}
	return data
}

func splitHostPort(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}
