// Cell Info Exporter
//
// This exporter reads the cells a T-Mobile 5G/LTE home internet gateway is
// attached to, exposes them in Prometheus format and optionally records
// every observation to a LevelDB snapshot store.
//
// Usage:
//
//	cellinfo-exporter [flags]
//
// Flags:
//
//	-config string    Path to config file (default: no config file)
//	-port int         Port to serve metrics on (default: 9100)
//	-gateway string   Gateway URL (default: http://192.168.12.1)
//	-model string     Gateway model: arcadyan_kvd21, nokia, sagemcom, auto (default: auto)
//	-interval string  Minimum time between gateway observations (default: 5s)
//	-store string     Snapshot store directory (default: recording disabled)
package main

import (
	"context"
	"flag"
	"fmt"
	"html"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tmobile-dashboard/cellinfo/config"
	"github.com/tmobile-dashboard/cellinfo/gateway"
	"github.com/tmobile-dashboard/cellinfo/logging"
	"github.com/tmobile-dashboard/cellinfo/metrics"
	"github.com/tmobile-dashboard/cellinfo/store"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", 0, "Port to serve metrics on (default: 9100)")
	gatewayURL := flag.String("gateway", "", "Gateway URL (default: http://192.168.12.1)")
	model := flag.String("model", "", "Gateway model: arcadyan_kvd21, nokia, sagemcom, auto (default: auto)")
	interval := flag.String("interval", "", "Minimum time between gateway observations (default: 5s)")
	storePath := flag.String("store", "", "Snapshot store directory (default: recording disabled)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cellinfo-exporter %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Load environment variables
	config.LoadConfigFromEnv(cfg)

	// Override with command line flags
	if *port != 0 {
		cfg.Metrics.Port = *port
	}
	if *gatewayURL != "" {
		cfg.Gateway.URL = *gatewayURL
	}
	if *model != "" {
		cfg.Gateway.Model = *model
	}
	if *interval != "" {
		if d, err := time.ParseDuration(*interval); err == nil {
			cfg.Gateway.PollInterval = d
		}
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}

	logger := logging.New(cfg.ToLoggingConfig())

	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "exporter failed", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "starting cell info exporter",
		logging.String("version", version),
		logging.String("gateway_url", cfg.Gateway.URL),
		logging.String("gateway_model", cfg.Gateway.Model),
		logging.Duration("poll_interval", cfg.Gateway.PollInterval),
		logging.Int("metrics_port", cfg.Metrics.Port))

	// Create gateway client
	gwClient, err := gateway.NewClient(ctx, cfg.ToGatewayConfig())
	if err != nil {
		return fmt.Errorf("create gateway client: %w", err)
	}

	logger.Info(ctx, "gateway model selected", logging.String("model", string(gwClient.GetModel())))

	collectorCfg := metrics.CollectorConfig{
		Logger:      logger.With(logging.String("component", "collector")),
		MinInterval: cfg.Gateway.PollInterval,
		Timeout:     cfg.Gateway.Timeout,
	}

	if cfg.Store.Path != "" {
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			gwClient.Close()
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()
		collectorCfg.Recorder = db
		logger.Info(ctx, "recording observations", logging.String("store", db.Path()))
	}

	// Create metrics collector
	collector := metrics.NewCollector(gwClient, collectorCfg)
	defer collector.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collector)

	// Create HTTP server
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>
<head><title>Cell Info Exporter</title></head>
<body>
<h1>Cell Info Exporter</h1>
<p>Version: ` + html.EscapeString(version) + `</p>
<p>Gateway: ` + html.EscapeString(cfg.Gateway.URL) + `</p>
<p>Model: ` + string(gwClient.GetModel()) + `</p>
<p><a href="` + html.EscapeString(cfg.Metrics.Path) + `">Metrics</a></p>
</body>
</html>`))
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Gateway.Timeout + 5*time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info(context.Background(), "shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn(shutdownCtx, "HTTP server shutdown error", logging.Err(err))
		}
	}()

	// Start server
	logger.Info(ctx, "serving metrics",
		logging.String("url", fmt.Sprintf("http://localhost:%d%s", cfg.Metrics.Port, cfg.Metrics.Path)))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server: %w", err)
	}

	logger.Info(context.Background(), "exporter stopped")
	return nil
}
