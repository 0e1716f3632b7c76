package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/agenda/internal/adapters/driving/tui"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agenda/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for agenda.

The TUI shows the contact list together with the network state, import
progress and the last error, and keeps it current as anything changes.

Controls:
  ↑/k, ↓/j - Navigate contacts
  i        - Import contacts
  e        - Edit contact
  d        - Delete contact
  c / w    - Call / WhatsApp
  s        - Settings
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// importCountSetter is implemented by view models whose default import
// size can change while running.
type importCountSetter interface {
	SetImportCount(n int)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := newTUIApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	restore, err := redirectLogs()
	if err != nil {
		return err
	}
	defer restore()

	ctx, cancel := context.WithCancel(contextOf(cmd))
	defer cancel()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if configWatcher != nil {
		go watchSettings(ctx, p.Send)
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// newTUIApp builds the bubbletea model from the configured services.
func newTUIApp(cmd *cobra.Command) (*tui.App, error) {
	app, err := tui.NewApp(tui.NewPorts(viewModel, actionService, settingsService))
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	return app.WithContext(contextOf(cmd)), nil
}

// redirectLogs sends log output to the log file while the alternate screen
// is active. Without a log path the output is discarded.
func redirectLogs() (func(), error) {
	if logPath == "" {
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(os.Stderr) }, nil
	}

	restore, err := logger.ToFile(logPath)
	if err != nil {
		return nil, err
	}
	return func() {
		//nolint:errcheck // best-effort close of the log file on exit
		restore()
	}, nil
}

// watchSettings applies external edits to the configuration file and tells
// the running program to refresh. Blocks until ctx is cancelled.
func watchSettings(ctx context.Context, send func(tea.Msg)) {
	err := configWatcher.Watch(ctx, func() {
		applySettings()
		send(messages.SettingsChanged{})
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("config watcher stopped: %v", err)
	}
}

// applySettings pushes settings that can change at runtime into the services.
func applySettings() {
	if settingsService == nil {
		return
	}
	s, err := settingsService.Get()
	if err != nil {
		logger.Warn("reloading settings: %v", err)
		return
	}
	if setter, ok := viewModel.(importCountSetter); ok {
		setter.SetImportCount(s.Import.Count)
	}
	logger.Debug("settings reloaded")
}
