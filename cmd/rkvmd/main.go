// rkvmd: the network KVM switching server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"go.klb.dev/rkvmd/internal/accept"
	"go.klb.dev/rkvmd/internal/capture"
	"go.klb.dev/rkvmd/internal/clipboard"
	"go.klb.dev/rkvmd/internal/config"
	"go.klb.dev/rkvmd/internal/engine"
	"go.klb.dev/rkvmd/internal/logging"
	"go.klb.dev/rkvmd/internal/metrics"
	"go.klb.dev/rkvmd/internal/tlsconf"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func defaultConfigPath() string {
	if runtime.GOOS == "windows" {
		return "C:/rkvm/server.toml"
	}
	return "/etc/rkvm/server.toml"
}

func main() {
	var configPath string
	var logFormat string
	var logLevel string
	var metricsAddr string

	cmd := &cobra.Command{
		Use:           "rkvmd",
		Short:         "Network KVM switching server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			logging.Setup(logging.ParseFormat(logFormat), logging.ParseLevel(logLevel))
			return run(configPath, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "path to configuration file")
	cmd.Flags().StringVar(&logFormat, "log-format", "auto", "log format: auto|text|json")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "127.0.0.1:9090", "localhost address to serve Prometheus metrics on")

	if err := cmd.Execute(); err != nil {
		slog.Error("rkvmd exiting", "err", err)
		os.Exit(1)
	}
}

func run(configPath, metricsAddr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	switchDomain, err := config.ChordDomain(cfg.SwitchKeys)
	if err != nil {
		return fmt.Errorf("invalid switch_keys: %w", err)
	}
	killDomain, err := config.ChordDomain(cfg.KillKeys)
	if err != nil {
		return fmt.Errorf("invalid kill_keys: %w", err)
	}

	tlsCfg, err := tlsconf.LoadIdentity(cfg.IdentityPath, cfg.IdentityPassword)
	if err != nil {
		return fmt.Errorf("load identity: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	capMgr, err := capture.New(ctx)
	if err != nil {
		return fmt.Errorf("open capture device: %w", err)
	}
	defer capMgr.Close()

	clipBackend := clipboard.New()
	defer clipBackend.Close()

	ln, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("bind listener: %w", err)
	}
	defer ln.Close()

	slog.Info("rkvmd starting", "version", Version, "addr", cfg.ListenAddress)

	eng := engine.New(engine.Config{SwitchDomain: switchDomain, KillDomain: killDomain}, capMgr, clipBackend)

	go accept.Loop(ctx, ln, tlsCfg, eng.ClientRx(), eng.Inbox())
	go serveMetrics(ctx, metricsAddr)

	if err := eng.Run(ctx); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	slog.Info("exiting on signal")
	return nil
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Warn("metrics server stopped", "err", err)
	}
}
