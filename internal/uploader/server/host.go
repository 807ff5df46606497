package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	pb "fileupload/api/uploadpb"
	"fileupload/internal/uploader/domain"
	"fileupload/pkg/config"
	_errors "fileupload/pkg/errors"
	"fileupload/pkg/logger"
)

// Host owns the network listeners the upload service is bound to. The gRPC
// listener is always opened; the HTTP one only when enabled in config.
type Host struct {
	cfg     *config.Config
	service domain.UploadService
	logger  *logger.Logger

	mu           sync.Mutex
	running      bool
	grpcServer   *grpc.Server
	grpcListener net.Listener
	httpServer   *http.Server
	httpListener net.Listener
	done         chan struct{}
}

func NewHost(cfg *config.Config, service domain.UploadService) *Host {
	return &Host{
		cfg:     cfg,
		service: service,
		logger:  logger.WithField("component", "service-host"),
	}
}

// Start binds the listeners and serves them in the background.
func (h *Host) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return _errors.ErrHostAlreadyStarted
	}

	grpcAddr := h.cfg.GetServerAddress()
	h.logger.Info("initializing gRPC server", "address", grpcAddr)

	grpcOptions := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(int(h.cfg.GRPC.MaxRecvMsgSize)),
		grpc.MaxSendMsgSize(int(h.cfg.GRPC.MaxSendMsgSize)),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    h.cfg.GRPC.KeepAliveTime,
			Timeout: h.cfg.GRPC.KeepAliveTimeout,
		}),
	}

	h.logger.Debug("gRPC server options configured",
		"maxRecvMsgSize", h.cfg.GRPC.MaxRecvMsgSize,
		"maxSendMsgSize", h.cfg.GRPC.MaxSendMsgSize,
		"keepAliveTime", h.cfg.GRPC.KeepAliveTime)

	grpcListener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		h.logger.Error("failed to create listener", "address", grpcAddr, "error", err)
		return fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}

	var httpListener net.Listener
	if h.cfg.HTTP.Enabled {
		httpAddr := h.cfg.GetHTTPAddress()
		httpListener, err = net.Listen("tcp", httpAddr)
		if err != nil {
			_ = grpcListener.Close()
			h.logger.Error("failed to create listener", "address", httpAddr, "error", err)
			return fmt.Errorf("failed to listen on %s: %w", httpAddr, err)
		}
	}

	grpcServer := grpc.NewServer(grpcOptions...)
	pb.RegisterFileUploadServiceServer(grpcServer, NewUploadServiceServer(h.service))

	h.grpcServer = grpcServer
	h.grpcListener = grpcListener
	h.httpListener = httpListener
	h.done = make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.logger.Info("starting gRPC server", "address", grpcListener.Addr().String())
		if serveErr := grpcServer.Serve(grpcListener); serveErr != nil {
			h.logger.Error("gRPC server stopped with error", "error", serveErr)
		} else {
			h.logger.Info("gRPC server stopped gracefully")
		}
	}()

	if httpListener != nil {
		h.httpServer = &http.Server{
			Handler:           NewHTTPHandler(h.service),
			ReadHeaderTimeout: h.cfg.HTTP.ReadHeaderTimeout,
		}
		httpServer := h.httpServer

		wg.Add(1)
		go func() {
			defer wg.Done()
			h.logger.Info("starting HTTP server", "address", httpListener.Addr().String())
			if serveErr := httpServer.Serve(httpListener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				h.logger.Error("HTTP server stopped with error", "error", serveErr)
			} else {
				h.logger.Info("HTTP server stopped gracefully")
			}
		}()
	}

	done := h.done
	go func() {
		wg.Wait()
		close(done)
	}()

	h.running = true
	h.logger.Info("service host started", "addresses", h.addressesLocked())
	return nil
}

// Addresses lists the bound listener addresses, gRPC first.
func (h *Host) Addresses() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addressesLocked()
}

func (h *Host) addressesLocked() []string {
	if h.grpcListener == nil {
		return nil
	}
	addrs := []string{h.grpcListener.Addr().String()}
	if h.httpListener != nil {
		addrs = append(addrs, h.httpListener.Addr().String())
	}
	return addrs
}

// Stop drains in-flight calls until ctx expires, then closes the remaining
// connections. A host can be started again after Stop returns.
func (h *Host) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return _errors.ErrHostNotStarted
	}

	h.logger.Info("stopping service host")

	var stopErr error
	if h.httpServer != nil {
		if err := h.httpServer.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Warn("HTTP shutdown did not complete", "error", err)
			_ = h.httpServer.Close()
			stopErr = fmt.Errorf("http shutdown: %w", err)
		}
	}

	graceful := make(chan struct{})
	go func() {
		h.grpcServer.GracefulStop()
		close(graceful)
	}()

	select {
	case <-graceful:
	case <-ctx.Done():
		h.logger.Warn("graceful gRPC stop timed out, forcing")
		h.grpcServer.Stop()
		<-graceful
		if stopErr == nil {
			stopErr = fmt.Errorf("grpc shutdown: %w", ctx.Err())
		}
	}

	<-h.done

	h.running = false
	h.grpcServer = nil
	h.grpcListener = nil
	h.httpServer = nil
	h.httpListener = nil

	h.logger.Info("service host stopped")
	return stopErr
}
