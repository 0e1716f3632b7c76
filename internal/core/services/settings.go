package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driven"
	"github.com/custodia-labs/agenda/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage. Durations are stored in seconds.
const (
	KeyAPIBaseURL        = "api.base_url"
	KeyAPITimeout        = "api.timeout"
	KeyRequestsPerSecond = "api.requests_per_second"
	KeyImportCount       = "import.count"
	KeyGraceWindow       = "state.grace_window"
	KeyPollInterval      = "network.poll_interval"
	KeyProbeAddress      = "network.probe_address"
)

// settingKeys lists the supported keys in display order.
var settingKeys = []string{
	KeyAPIBaseURL,
	KeyAPITimeout,
	KeyRequestsPerSecond,
	KeyImportCount,
	KeyGraceWindow,
	KeyPollInterval,
	KeyProbeAddress,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing keys take
// their default values.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		API: domain.APISettings{
			BaseURL:           s.getString(KeyAPIBaseURL, defaults.API.BaseURL),
			Timeout:           s.getSeconds(KeyAPITimeout, defaults.API.Timeout),
			RequestsPerSecond: s.getFloat(KeyRequestsPerSecond, defaults.API.RequestsPerSecond),
		},
		Import: domain.ImportSettings{
			Count: s.getInt(KeyImportCount, defaults.Import.Count),
		},
		State: domain.StateSettings{
			GraceWindow: s.getSeconds(KeyGraceWindow, defaults.State.GraceWindow),
		},
		Connectivity: domain.ConnectivitySettings{
			PollInterval: s.getSeconds(KeyPollInterval, defaults.Connectivity.PollInterval),
			ProbeAddress: s.getString(KeyProbeAddress, defaults.Connectivity.ProbeAddress),
		},
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key string
		val any
	}{
		{KeyAPIBaseURL, settings.API.BaseURL},
		{KeyAPITimeout, settings.API.Timeout.Seconds()},
		{KeyRequestsPerSecond, settings.API.RequestsPerSecond},
		{KeyImportCount, settings.Import.Count},
		{KeyGraceWindow, settings.State.GraceWindow.Seconds()},
		{KeyPollInterval, settings.Connectivity.PollInterval.Seconds()},
		{KeyProbeAddress, settings.Connectivity.ProbeAddress},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.val); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key and persists it if the resulting settings
// are valid.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	switch key {
	case KeyAPIBaseURL:
		settings.API.BaseURL = value
	case KeyAPITimeout:
		settings.API.Timeout, err = parseSeconds(key, value)
	case KeyRequestsPerSecond:
		settings.API.RequestsPerSecond, err = parseFloat(key, value)
	case KeyImportCount:
		settings.Import.Count, err = parseInt(key, value)
	case KeyGraceWindow:
		settings.State.GraceWindow, err = parseSeconds(key, value)
	case KeyPollInterval:
		settings.Connectivity.PollInterval, err = parseSeconds(key, value)
	case KeyProbeAddress:
		settings.Connectivity.ProbeAddress = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err != nil {
		return err
	}

	return s.Save(settings)
}

// Keys returns the supported config keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return *domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetFloat(key) * float64(time.Second))
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects an integer: %w", domain.ErrInvalidInput, key, errors.Unwrap(err))
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects a number: %w", domain.ErrInvalidInput, key, errors.Unwrap(err))
	}
	return f, nil
}

// parseSeconds accepts either a number of seconds or a Go duration
// string such as "1m30s".
func parseSeconds(key, value string) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	f, err := parseFloat(key, value)
	if err != nil {
		return 0, err
	}
	return time.Duration(f * float64(time.Second)), nil
}
