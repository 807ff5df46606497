package modes

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileupload/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig
	cfg.Server.Address = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.HTTP.Address = "127.0.0.1"
	cfg.HTTP.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Storage.Directory = t.TempDir() + "/uploads"
	return &cfg
}

func TestRunServer_StopsOnEnter(t *testing.T) {
	var out bytes.Buffer

	err := RunServer(context.Background(), testConfig(t), strings.NewReader("\n"), &out)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "FileUpload Service Host", lines[0])
	assert.Equal(t, "Service Started!", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Listening on 127.0.0.1:"))
	assert.True(t, strings.HasPrefix(lines[3], "Listening on 127.0.0.1:"))
	assert.Equal(t, "Press Enter to close the host...", lines[4])
}

func TestRunServer_IgnoresClosedConsoleAndStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)

	go func() {
		errCh <- RunServer(ctx, cfg, strings.NewReader(""), io.Discard)
	}()

	select {
	case err := <-errCh:
		t.Fatalf("server returned before cancel: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestRunServer_InvalidIDGenerator(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.IDGenerator = "snowflake"

	err := RunServer(context.Background(), cfg, nil, io.Discard)
	assert.Error(t, err)
}
