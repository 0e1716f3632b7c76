package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/agenda/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the random-user service, import defaults and
connectivity monitoring.

Durations accept Go duration strings (1m30s) or seconds (90).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a single setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive settings wizard",
	Long:  `Walks through every setting. Leave an answer blank to keep the current value.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  Base URL: %s\n", settings.API.BaseURL)
	cmd.Printf("  Timeout: %s\n", formatDuration(settings.API.Timeout))
	if settings.API.RequestsPerSecond > 0 {
		cmd.Printf("  Requests per second: %g\n", settings.API.RequestsPerSecond)
	} else {
		cmd.Println("  Requests per second: unlimited")
	}
	cmd.Println()

	cmd.Println("[Import]")
	cmd.Printf("  Count: %d\n", settings.Import.Count)
	cmd.Println()

	cmd.Println("[State]")
	cmd.Printf("  Grace window: %s\n", formatDuration(settings.State.GraceWindow))
	cmd.Println()

	cmd.Println("[Network]")
	cmd.Printf("  Poll interval: %s\n", formatDuration(settings.Connectivity.PollInterval))
	if settings.Connectivity.ProbeAddress != "" {
		cmd.Printf("  Probe address: %s\n", settings.Connectivity.ProbeAddress)
	} else {
		cmd.Println("  Probe address: (not set)")
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'agenda settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) && !knownKey(key) {
			return fmt.Errorf("%w\nValid keys: %s", err, strings.Join(settingsService.Keys(), ", "))
		}
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Agenda Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	if err := runSettingsShow(cmd, nil); err != nil {
		return err
	}
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	changed := 0
	for _, key := range settingsService.Keys() {
		cmd.Printf("%s (blank keeps current): ", key)
		input := readLine(reader)
		if input == "" {
			continue
		}
		if err := settingsService.Set(key, input); err != nil {
			cmd.Printf("  Not saved: %v\n", err)
			continue
		}
		changed++
	}

	cmd.Println()
	cmd.Printf("Saved %d setting(s).\n", changed)
	return nil
}

func knownKey(key string) bool {
	for _, k := range settingsService.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "none"
	}
	return d.String()
}
