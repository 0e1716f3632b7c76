// Package cli provides the cobra command tree for agenda.
//
// Commands read their dependencies from package-level variables. The
// composition root installs a Bootstrap function that builds them once the
// global flags are parsed; tests assign the variables directly.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/agenda/internal/core/ports/driven"
	"github.com/custodia-labs/agenda/internal/core/ports/driving"
	"github.com/custodia-labs/agenda/internal/logger"
)

// Build information, set by SetVersion.
var (
	version = "dev"
	commit  = ""
	date    = ""
	builtBy = ""
)

// Global flags.
var (
	verbose   bool
	dataDir   string
	ephemeral bool
)

// Options carries the parsed global flags to the Bootstrap function.
type Options struct {
	// DataDir overrides the default data directory. Empty means default.
	DataDir string

	// Ephemeral keeps contacts and settings in memory only.
	Ephemeral bool
}

// Services holds everything the commands depend on.
type Services struct {
	Contacts      driving.ContactRepository
	Connectivity  driving.ConnectivityObserver
	ViewModel     driving.ContactsViewModel
	Actions       driving.ContactActionService
	Settings      driving.SettingsService
	ConfigWatcher driven.ConfigWatcher

	// LogPath is where the TUI writes log output. Empty discards it.
	LogPath string

	// Close releases stores and background work. May be nil.
	Close func() error
}

// Bootstrap builds the services for a command invocation.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap Bootstrap
	services  *Services

	contactRepository driving.ContactRepository
	connectivity      driving.ConnectivityObserver
	viewModel         driving.ContactsViewModel
	actionService     driving.ContactActionService
	settingsService   driving.SettingsService
	configWatcher     driven.ConfigWatcher
	logPath           string
)

var rootCmd = &cobra.Command{
	Use:   "agenda",
	Short: "A reactive address book for the terminal",
	Long: `agenda keeps a local address book, imports sample contacts from a
random-user service and lets you call or message them.

Run 'agenda tui' for the interactive interface.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.agenda/data)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep contacts and settings in memory only")
}

// SetBootstrap installs the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the build information reported by the version command.
func SetVersion(v, c, d, by string) {
	version = v
	commit = c
	date = d
	builtBy = by
}

// SetServices assigns the command dependencies directly.
func SetServices(s *Services) {
	services = s
	if s == nil {
		contactRepository = nil
		connectivity = nil
		viewModel = nil
		actionService = nil
		settingsService = nil
		configWatcher = nil
		logPath = ""
		return
	}
	contactRepository = s.Contacts
	connectivity = s.Connectivity
	viewModel = s.ViewModel
	actionService = s.Actions
	settingsService = s.Settings
	configWatcher = s.ConfigWatcher
	logPath = s.LogPath
}

// Execute runs the root command and releases the services it built.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := teardown(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil {
		return nil
	}

	logger.Section("Startup")
	s, err := bootstrap(cmd.Context(), Options{DataDir: dataDir, Ephemeral: ephemeral})
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

func teardown() error {
	if bootstrap == nil || services == nil || services.Close == nil {
		return nil
	}
	closeFn := services.Close
	SetServices(nil)
	return closeFn()
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
