package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docforge-io/docforge/internal/config"
	"github.com/docforge-io/docforge/internal/logger"
	"github.com/docforge-io/docforge/internal/metrics"
	"github.com/docforge-io/docforge/internal/server"
	"github.com/docforge-io/docforge/internal/session"
)

var (
	serveConfigPath  string
	serveMetricsAddr string
	serveLogLevel    string
	servePretty      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve editing commands over stdin/stdout",
	Long: `Start the document editing server.

The server speaks newline-delimited JSON-RPC 2.0 on stdin/stdout; logs
go to stderr. On shutdown the current document is saved so a restarted
server can resume it.

Environment variables:
  DOCFORGE_LOG_LEVEL   log level (debug, info, warn, error)
  DOCFORGE_STATE_DIR   directory for the restart state file

Examples:
  docforge serve
  docforge serve --metrics 127.0.0.1:9090
  docforge serve --log-level debug --pretty`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "config file path (default: ~/.docforge/config.yaml)")
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics", "", "Prometheus listen address, e.g. 127.0.0.1:9090")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&servePretty, "pretty", false, "human-readable log output")

	rootCmd.AddCommand(serveCmd)
}

func loadConfig(path string) (*config.Config, error) {
	var loader *config.Loader
	if path != "" {
		loader = config.NewLoaderWithPath(path)
	} else {
		var err error
		loader, err = config.NewLoader()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config: %w", err)
		}
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if serveLogLevel != "" {
		cfg.Logging.Level = serveLogLevel
	}
	if servePretty {
		cfg.Logging.Pretty = true
	}
	if serveMetricsAddr != "" {
		cfg.Metrics.Addr = serveMetricsAddr
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	var met *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		met = metrics.New()
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
				log.Error("metrics endpoint failed").Err(err).Send()
			}
		}()
		log.Info("metrics endpoint listening").Str("addr", cfg.Metrics.Addr).Send()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if met != nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					met.UpdateUptime()
				}
			}
		}()
	}

	proc := session.New(cfg, log, met)
	srv := server.New(proc, log, met)
	return srv.Run(ctx, os.Stdin, os.Stdout)
}
