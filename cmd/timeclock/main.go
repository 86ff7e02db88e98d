/*
main.go - Application entry point

PURPOSE:
  Loads the attendance file and runs the operator menu, or serves the
  same operations over HTTP with the serve subcommand.

STARTUP SEQUENCE:
  1. Parse command-line flags (cobra)
  2. Load config (YAML, optional) and build the zap logger
  3. Load the attendance file into ledgers and the line set
  4. Open the audit log (SQLite if configured, memory otherwise)
  5. Run the menu on stdin/stdout, or start the HTTP server

COMMANDS:
  timeclock          Interactive menu (default)
  timeclock serve    HTTP API on http_addr (loopback by default)

FLAGS:
  --config   YAML config file (default: none, built-in defaults)
  --file     Attendance file, overrides data_file (default: moviment.txt)
  --verbose  Debug logging

EXAMPLES:
  ./timeclock
  ./timeclock --file ./data/moviment.txt
  ./timeclock serve --config timeclock.yaml

SEE ALSO:
  - console/session.go: Menu
  - api/server.go: Router configuration
  - store/file/file.go: Attendance file
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/timeclock/config"
	"github.com/warp/timeclock/console"
	"github.com/warp/timeclock/punch"
	"github.com/warp/timeclock/reconcile"
	"github.com/warp/timeclock/store/file"
	"github.com/warp/timeclock/store/memory"
	"github.com/warp/timeclock/store/sqlite"
)

var (
	// Global flags
	configPath string
	dataFile   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "timeclock",
	Short: "Reconcile employee time-clock punches",
	Long: `timeclock loads the fixed-width attendance file, finds employee-days
whose punch count is not 4 and lets the operator correct them.

Run without arguments to start the interactive menu.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		session := console.NewSession(app.service, cmd.InOrStdin(), cmd.OutOrStdout(), app.dataFile)
		return session.Run(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataFile, "file", "", "attendance file (overrides data_file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// =============================================================================
// WIRING
// =============================================================================

// app bundles what both commands need.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	service  *reconcile.Service
	dataFile string
	closers  []func() error
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	path, err := filepath.Abs(cfg.DataFile)
	if err != nil {
		path = cfg.DataFile
	}

	registry, lines, _, err := file.Load(path, logger)
	if err != nil {
		return nil, err
	}
	store := file.NewStore(path, lines, logger)

	a := &app{cfg: cfg, logger: logger, dataFile: store.Path()}

	var audit punch.AuditLog = memory.NewAuditLog()
	if cfg.AuditDB != "" {
		db, err := sqlite.New(cfg.AuditDB)
		if err != nil {
			logger.Warn("audit database unavailable, keeping audit in memory",
				zap.String("path", cfg.AuditDB), zap.Error(err))
		} else {
			audit = db
			a.closers = append(a.closers, db.Close)
		}
	}

	a.service = reconcile.NewService(registry, store, audit, logger)
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
