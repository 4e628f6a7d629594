package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sandeepkv93/daytrack/internal/clock"
	"github.com/sandeepkv93/daytrack/internal/config"
	"github.com/sandeepkv93/daytrack/internal/storage"
	"github.com/sandeepkv93/daytrack/internal/timer"
	"github.com/sandeepkv93/daytrack/internal/tracker"
	"github.com/sandeepkv93/daytrack/internal/update"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "daytrack",
	Short: "daytrack - a daily task tracker with a single-focus timer",
	Long: `daytrack keeps today's projects and tasks, times exactly one task at a
time, and carries unfinished work forward as overdue when a new day starts.
All state lives locally under ~/.daytrack/.`,
	RunE: runTUI,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file (default ~/.daytrack/daytrack.yaml)")
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(resetCmd)
}

// app bundles everything a command needs. close must be called on exit.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	tracker *tracker.Tracker
	engine  *timer.Engine
	close   func()
}

func newApp() (*app, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	logger, err := newLogger(cfg, dataDir)
	if err != nil {
		return nil, err
	}

	statePath, err := cfg.StatePath()
	if err != nil {
		return nil, err
	}
	var blobs storage.BlobStore
	var closeBlobs func()
	if cfg.Storage == config.StorageSQLite {
		db, err := storage.OpenSQLite(statePath)
		if err != nil {
			return nil, err
		}
		blobs = db
		closeBlobs = func() { _ = db.Close() }
	} else {
		blobs = storage.NewFileBlobStore(statePath)
		closeBlobs = func() {}
	}

	clk := clock.System{}
	store := storage.NewStore(blobs, clk, logger)
	engine := timer.NewEngine(clk, cfg.TickInterval(), cfg.EngineBuffer)
	tr := tracker.New(store, engine, clk, logger)
	if err := tr.Load(); err != nil {
		closeBlobs()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		tracker: tr,
		engine:  engine,
		close: func() {
			closeBlobs()
			_ = logger.Sync()
		},
	}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.engine.Start()
	defer a.engine.Stop()

	program := tea.NewProgram(update.NewModel(a.tracker, a.engine))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("daytrack failed: %w", err)
	}
	return nil
}

// newLogger writes to a file in the data dir so log lines never corrupt the
// TUI output.
func newLogger(cfg config.Config, dataDir string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{filepath.Join(dataDir, "daytrack.log")}
	zcfg.ErrorOutputPaths = zcfg.OutputPaths
	return zcfg.Build()
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".daytrack", "daytrack.yaml")
}
