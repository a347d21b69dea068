package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kavia-common/simple-notes-app-45797-45806/internal/config"
)

var (
	cfgPath    string
	dataDir    string
	adapter    string
	storageKey string
	format     string
	readOnly   bool
	verbose    bool

	// settings is the merged configuration, filled in by PersistentPreRun.
	settings config.Config
	logLevel = new(slog.LevelVar)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oceannotes",
	Short: "Ocean Notes: capture ideas, fast",
	Long: `Ocean Notes is a small notes app for the terminal.
Run it without arguments to open the editor, or use the subcommands to script it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		path := cfgPath
		if path == "" {
			if p, err := config.DefaultPath(); err == nil {
				path = p
			}
		}

		cfg, err := config.Load(path)
		if err != nil {
			fatal("Failed to load config", err)
		}
		applyFlags(cmd, &cfg)
		settings = cfg

		level, err := config.ParseLevel(cfg.Log.Level)
		if err != nil {
			fatal("Invalid log level", err)
		}
		if verbose {
			level = slog.LevelDebug
		}
		logLevel.Set(level)

		opts := &slog.HandlerOptions{
			Level: logLevel,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTUI(); err != nil {
			fatal("TUI error", err)
		}
	},
}

// applyFlags lets explicitly set flags win over file and environment settings.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("adapter") {
		cfg.Adapter = adapter
	}
	if flags.Changed("key") {
		cfg.StorageKey = storageKey
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("read-only") {
		cfg.ReadOnly = readOnly
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "Config file (default $XDG_CONFIG_HOME/oceannotes/config.yaml)")
	flags.StringVar(&dataDir, "data-dir", "", "Directory holding the notes")
	flags.StringVar(&adapter, "adapter", "fs", "Storage adapter (fs, bolt, sqlite, memory)")
	flags.StringVar(&storageKey, "key", "", "Key the collection is stored under")
	flags.StringVar(&format, "format", "json", "Collection encoding (json, yaml)")
	flags.BoolVar(&readOnly, "read-only", false, "Open the notes without write access")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
