package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/abelbrown/dailybugle/internal/config"
	"github.com/abelbrown/dailybugle/internal/journal"
	"github.com/abelbrown/dailybugle/internal/logging"
	"github.com/abelbrown/dailybugle/internal/news"
	"github.com/abelbrown/dailybugle/internal/persist"
	"github.com/abelbrown/dailybugle/internal/ui"
	"github.com/abelbrown/dailybugle/internal/wire"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	backend    string
	dbPath     string
	stateFile  string
	logLevel   string
	fetchDelay time.Duration
	batch      int
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	var cfg *config.Config

	root := &cobra.Command{
		Use:   "dailybugle",
		Short: "Terminal news board for The Daily Bugle",
		Long: `dailybugle runs a small news board in the terminal.

Log in as one of the fixed identities to add, edit and delete your own
stories. Wire stories arrive through a simulated fetch and anything older
than the retention window is dropped.

Example usage:
  dailybugle                     # Run the board
  dailybugle --backend file      # Persist to a JSON file instead of SQLite
  dailybugle dump                # Print what is stored
  dailybugle login peter         # Start the next session as Peter`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(cmd, g)
			if err != nil {
				return err
			}
			return logging.Init(logging.Options{
				Dir:        cfg.LogDir(),
				Level:      cfg.Log.Level,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd.Context(), cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default is ~/.dailybugle/config.json)")
	pf.StringVar(&g.backend, "backend", "", "storage backend: sqlite, file or memory")
	pf.StringVar(&g.dbPath, "db", "", "sqlite database path")
	pf.StringVar(&g.stateFile, "state-file", "", "JSON state file for the file backend")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.DurationVar(&g.fetchDelay, "fetch-delay", 0, "simulated fetch latency")
	pf.IntVar(&g.batch, "batch", 0, "items per simulated fetch")

	root.AddCommand(
		newDumpCmd(&cfg),
		newResetCmd(&cfg),
		newSeedCmd(&cfg),
		newLoginCmd(&cfg),
		newEventsCmd(&cfg),
	)
	return root
}

// loadConfig layers file, environment and explicitly set flags.
func loadConfig(cmd *cobra.Command, g globalFlags) (*config.Config, error) {
	path := g.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if cfg == nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; using defaults\n", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Storage.Backend = g.backend
	}
	if flags.Changed("db") {
		cfg.Storage.DBPath = g.dbPath
	}
	if flags.Changed("state-file") {
		cfg.Storage.StateFile = g.stateFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if flags.Changed("fetch-delay") {
		cfg.Feed.FetchDelay = config.Duration(g.fetchDelay)
	}
	if flags.Changed("batch") {
		cfg.Feed.BatchSize = g.batch
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return cfg, nil
}

func openRepository(cfg *config.Config) (persist.Repository, error) {
	repo, err := persist.Open(persist.Options{
		Backend:   cfg.Storage.Backend,
		DBPath:    cfg.DBPath(),
		StateFile: cfg.StateFile(),
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return repo, nil
}

// newWireFetcher builds the simulated wire from cfg. latency overrides the
// configured delay when non-negative.
func newWireFetcher(cfg *config.Config, batch int, latency time.Duration) *wire.Fetcher {
	gen := wire.NewGenerator(wire.WithBatchSize(batch))
	if latency < 0 {
		latency = cfg.Feed.FetchDelay.Std()
	}
	return wire.NewFetcher(gen, latency, cfg.Feed.RefreshInterval.Std())
}

// openJournal starts the activity journal. The returned func flushes it.
func openJournal(cfg *config.Config) (*journal.Journal, func()) {
	sink := &lumberjack.Logger{
		Filename:   cfg.EventLogPath(),
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}
	j := journal.New(sink)
	return j, func() {
		j.Close()
		sink.Close()
		logging.Info("Journal closed", "session", j.SessionID(), "events", formatCounts(j.Counts()))
		if d := j.Dropped(); d > 0 {
			logging.Warn("Journal events dropped", "count", d, "session", j.SessionID())
		}
	}
}

// formatCounts renders per-kind totals as "kind=n" pairs in kind order.
func formatCounts(counts map[journal.Kind]int) string {
	if len(counts) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(counts))
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}

func newStore(cfg *config.Config, repo persist.Repository, fetcher news.Fetcher, j *journal.Journal) *news.Store {
	return news.NewStore(repo,
		news.WithFetcher(fetcher),
		news.WithRetention(cfg.Feed.Retention.Std()),
		news.WithJournal(j))
}

func runBoard(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	j, closeJournal := openJournal(cfg)
	defer closeJournal()
	j.Emit(journal.Event{Kind: journal.KindStartup, Msg: cfg.Storage.Backend})
	defer j.Emit(journal.Event{Kind: journal.KindShutdown})

	st := newStore(cfg, repo, newWireFetcher(cfg, cfg.Feed.BatchSize, -1), j)
	logging.Info("Starting board", "backend", cfg.Storage.Backend, "retention", cfg.Feed.Retention.Std())

	program := tea.NewProgram(ui.New(st, ui.WithContext(ctx)), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
