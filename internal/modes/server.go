package modes

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"fileupload/internal/uploader/core/ids"
	"fileupload/internal/uploader/core/service"
	"fileupload/internal/uploader/core/transfer"
	"fileupload/internal/uploader/server"
	"fileupload/pkg/config"
	"fileupload/pkg/logger"
	"fileupload/pkg/platform"
)

// RunServer starts the upload host and blocks until ctx is cancelled or a
// line is read from console. Reaching EOF on console does not stop the
// host, so it can run detached from a terminal.
func RunServer(ctx context.Context, cfg *config.Config, console io.Reader, out io.Writer) error {
	log := logger.WithField("mode", "server")

	host, err := buildHost(cfg)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, "FileUpload Service Host")

	if err := host.Start(); err != nil {
		return fmt.Errorf("failed to start service host: %w", err)
	}

	_, _ = fmt.Fprintln(out, "Service Started!")
	for _, addr := range host.Addresses() {
		_, _ = fmt.Fprintf(out, "Listening on %s\n", addr)
	}
	_, _ = fmt.Fprintln(out, "Press Enter to close the host...")

	log.Info("server started successfully", "addresses", host.Addresses(), "storageDir", cfg.Storage.Directory)

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal, stopping server...")
	case <-waitForEnter(console):
		log.Info("console requested shutdown, stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := host.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop service host: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

func buildHost(cfg *config.Config) (*server.Host, error) {
	p := platform.NewPlatform()

	if err := p.MkdirAll(cfg.Storage.Directory, 0755); err != nil {
		return nil, fmt.Errorf("failed to prepare storage directory %s: %w", cfg.Storage.Directory, err)
	}

	idGen, err := ids.New(cfg.Storage.IDGenerator, "upload")
	if err != nil {
		return nil, err
	}

	svc := service.NewUploadService(
		transfer.New(p, cfg.Storage.ChunkSize),
		idGen,
		service.WithDirectory(cfg.Storage.Directory),
		service.WithExtension(cfg.Storage.FileExtension),
	)

	return server.NewHost(cfg, svc), nil
}

// waitForEnter closes the returned channel once a full line is read.
func waitForEnter(console io.Reader) <-chan struct{} {
	done := make(chan struct{})
	if console == nil {
		return done
	}

	go func() {
		_, err := bufio.NewReader(console).ReadString('\n')
		if err != nil {
			logger.Debug("console closed, waiting for signal only", "error", err)
			return
		}
		close(done)
	}()
	return done
}
