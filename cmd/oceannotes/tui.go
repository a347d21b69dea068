package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kavia-common/simple-notes-app-45797-45806/internal/tui"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive notes editor",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTUI(); err != nil {
			fatal("TUI error", err)
		}
	},
}

// runTUI runs the editor until the user quits. Errors are returned rather
// than fatal so the store and log file are closed on the way out.
func runTUI() error {
	// The alternate screen owns stderr, so logs go to a file.
	logPath := settings.Log.File
	if logPath == "" {
		logPath = filepath.Join(resolveDataDir(), "oceannotes.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	delay, err := settings.AutosaveDelay()
	if err != nil {
		return err
	}

	svc, err := newService(logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("failed to close notes", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := svc.Watch(ctx)
	if err != nil {
		if !errors.Is(err, core.ErrWatchUnsupported) {
			logger.Warn("live reload disabled", "error", err)
		}
		changes = nil
	}

	model := tui.New(ctx, tui.Config{
		Store:         svc,
		Logger:        logger,
		Changes:       changes,
		AutosaveDelay: delay,
		FlushOnClose:  settings.Autosave.FlushOnClose,
		AppURL:        settings.AppURL,
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if m, ok := final.(tui.Model); ok {
		m.Close()
	}
	return err
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
