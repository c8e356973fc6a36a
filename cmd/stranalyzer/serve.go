package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dreamware/stranalyzer/internal/config"
	"github.com/dreamware/stranalyzer/internal/observability"
	"github.com/dreamware/stranalyzer/internal/server"
	"github.com/dreamware/stranalyzer/internal/storage"
	"github.com/dreamware/stranalyzer/internal/telemetry"
)

type serveOptions struct {
	// onListen is called with the bound address once the listener is open
	onListen   func(net.Addr)
	logOut     io.Writer
	configPath string
	listen     string
	logLevel   string
}

func serveCmd() *cobra.Command {
	opts := serveOptions{logOut: os.Stdout}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&opts.listen, "listen", "", "Listen address, overrides config (host:port)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return cmd
}

// loadServeConfig resolves defaults, file, environment and flags, in that
// order.
func loadServeConfig(opts serveOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.listen != "" {
		cfg.Server.Listen = opts.listen
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runServe starts the server and blocks until ctx is cancelled or the
// listener fails, then shuts down gracefully.
func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := loadServeConfig(opts)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(opts.logOut, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry, telemetry.WithVersion(Version))
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	store := storage.NewMemoryStore()
	srvOpts := []server.Option{
		server.WithLogger(logger),
		server.WithServiceName(cfg.Telemetry.ServiceName),
	}
	if cfg.Telemetry.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		srvOpts = append(srvOpts, server.WithMetrics(observability.NewMetrics(reg, store), reg))
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(store, srvOpts...)

	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	ln, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		_ = srv.Close()
		return fmt.Errorf("listen: %w", err)
	}
	if opts.onListen != nil {
		opts.onListen(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("stranalyzer listening",
			"addr", ln.Addr().String(),
			"version", Version,
			"metrics", cfg.Telemetry.MetricsEnabled,
			"trace_exporter", cfg.Telemetry.TraceExporter)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		_ = srv.Close()
		return fmt.Errorf("serve: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := srv.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}
	logger.Info("stranalyzer stopped")
	return nil
}
