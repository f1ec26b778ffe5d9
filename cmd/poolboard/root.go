package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"poolboard/internal/columns"
	"poolboard/internal/config"
	"poolboard/internal/dispatch"
	"poolboard/internal/feed"
	"poolboard/internal/logger"
	"poolboard/internal/pool"
	"poolboard/internal/telemetry"
	"poolboard/internal/ui"
)

// flags holds the command line overrides of the config file.
type flags struct {
	configFile string
	preset     string
	poolsFile  string
	sourceURL  string
	listen     string
	logFile    string
	logLevel   string
	filter     string
	account    string
	noMouse    bool
}

var opts flags

var rootCmd = &cobra.Command{
	Use:   "poolboard",
	Short: "Terminal dashboard for staking pools",
	Long: `poolboard shows staking pools in a live table.

Pools come from a YAML or JSON file (--pools, reloaded when it changes), an
HTTP endpoint (--source-url), or are pushed to POST /pools on --listen.
Columns follow a preset and can be customized with SPC c c.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, presets, err := loadSettings(cmd, opts)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg, presets, opts.account)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the merged configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadSettings(cmd, opts)
		if err != nil {
			return err
		}
		return printConfig(cmd.OutOrStdout(), cfg)
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the column presets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, presets, err := loadSettings(cmd, opts)
		if err != nil {
			return err
		}
		printPresets(cmd.OutOrStdout(), presets)
		return nil
	},
}

func init() {
	bindFlags(rootCmd, &opts)
	rootCmd.AddCommand(configCmd, presetsCmd)
}

// bindFlags registers the flags on cmd. Flags shared with the subcommands
// are persistent.
func bindFlags(cmd *cobra.Command, f *flags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "path to a YAML config file merged over the defaults")
	pf.StringVar(&f.preset, "preset", "", "column preset to start with (see 'poolboard presets')")
	pf.StringVar(&f.poolsFile, "pools", "", "YAML or JSON file with the pools; reloaded on change")
	pf.StringVar(&f.sourceURL, "source-url", "", "HTTP endpoint serving the pools")
	pf.StringVar(&f.listen, "listen", "", "address accepting pushed snapshots on POST /pools, e.g. :9877")
	pf.StringVar(&f.logFile, "log-file", "", "write JSON logs to this file")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.filter, "filter", "", "initial row filter: CEL expression or text")
	cmd.Flags().StringVar(&f.account, "account", "", "account the per-account columns are reported for")
	cmd.Flags().BoolVar(&f.noMouse, "no-mouse", false, "disable mouse support")
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// loadSettings loads the config file, applies the flags that were set and
// validates the result against the preset catalog.
func loadSettings(cmd *cobra.Command, f flags) (config.Config, *columns.Presets, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("preset") {
		cfg.App.Preset = f.preset
	}
	if changed("pools") {
		cfg.Feed.PoolsFile = f.poolsFile
		cfg.Feed.SourceURL = ""
	}
	if changed("source-url") {
		cfg.Feed.SourceURL = f.sourceURL
		if !changed("pools") {
			cfg.Feed.PoolsFile = ""
		}
	}
	if changed("listen") {
		cfg.Feed.Listen = f.listen
	}
	if changed("log-file") {
		cfg.Log.File = f.logFile
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("filter") {
		cfg.UI.Filter = f.filter
	}
	if changed("no-mouse") {
		cfg.UI.Mouse = !f.noMouse
	}

	presets, err := cfg.Catalog(columns.Default())
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("presets: %w", err)
	}
	if err := cfg.Validate(presets); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, presets, nil
}

func printConfig(w io.Writer, cfg config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func printPresets(w io.Writer, presets *columns.Presets) {
	for _, name := range presets.Names() {
		titles, _ := presets.Get(name)
		fmt.Fprintf(w, "%s: %v\n", name, titles)
	}
}

// newSource picks the snapshot source configured in cfg, or nil when pools
// only arrive through the receiver.
func newSource(cfg config.Config, seq *feed.Sequencer, log logr.Logger) pool.Source {
	switch {
	case cfg.Feed.PoolsFile != "":
		return feed.NewFileSource(cfg.Feed.PoolsFile, seq, log.WithName("file"))
	case cfg.Feed.SourceURL != "":
		client := &http.Client{Timeout: cfg.Feed.Timeout}
		return feed.NewHTTPSource(cfg.Feed.SourceURL, client, seq, log.WithName("http"))
	}
	return nil
}

func run(ctx context.Context, cfg config.Config, presets *columns.Presets, account string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if _, err := logger.Setup(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	log := logger.Named("poolboard")
	ctx = logger.WithLogger(ctx, &log)

	tp, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error(err, "telemetry shutdown")
		}
	}()

	seq := &feed.Sequencer{}
	src := newSource(cfg, seq, log.WithName("feed"))
	if setter, ok := src.(pool.ProviderSetter); ok && account != "" {
		if err := setter.SetProvider(ctx, pool.Provider{Account: account}); err != nil {
			return fmt.Errorf("set provider: %w", err)
		}
	}

	model, err := ui.NewAppModel(ui.Options{
		Context:         ctx,
		Registry:        columns.Default(),
		Presets:         presets,
		Preset:          cfg.App.Preset,
		Filter:          cfg.UI.Filter,
		Source:          src,
		Clipboard:       dispatch.SystemClipboard{},
		RefreshInterval: cfg.App.RefreshInterval,
		RequestTimeout:  cfg.Feed.Timeout,
		ToastDuration:   cfg.App.NotifyDuration,
		Logger:          log.WithName("ui"),
		Tracer:          tp.Tracer("poolboard"),
	})
	if err != nil {
		return err
	}
	defer model.Close()

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model.AsTeaModel(), progOpts...)

	if cfg.Feed.Listen != "" {
		recv := feed.NewReceiver(cfg.Feed.Listen, func(s pool.Snapshot) {
			p.Send(ui.SnapshotMsg{Snapshot: s})
		}, seq, log.WithName("receiver"))
		if err := recv.Start(); err != nil {
			return err
		}
		defer func() {
			stopCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			_ = recv.Stop(stopCtx)
		}()
	}

	if fs, ok := src.(*feed.FileSource); ok {
		go func() {
			err := fs.Watch(ctx, func(s pool.Snapshot, err error) {
				p.Send(ui.SnapshotMsg{Snapshot: s, Err: err})
			})
			if err != nil {
				log.Error(err, "pools file watch stopped", "path", fs.Path())
			}
		}()
	}

	log.Info("starting", "preset", cfg.App.Preset, "pools_file", cfg.Feed.PoolsFile,
		"source_url", cfg.Feed.SourceURL, "listen", cfg.Feed.Listen, "tracing", tp.Enabled())
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
