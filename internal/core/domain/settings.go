package domain

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// DefaultAPIBaseURL is the sample-data service used for imports.
const DefaultAPIBaseURL = "https://randomuser.me/"

// AppSettings holds user-configurable application settings.
type AppSettings struct {
	API          APISettings
	Import       ImportSettings
	State        StateSettings
	Connectivity ConnectivitySettings
}

// APISettings configures the remote contact source.
type APISettings struct {
	// BaseURL is the root of the random-user service.
	BaseURL string

	// Timeout bounds a single fetch. Zero disables the timeout, which
	// leaves a hung request (and the loading flag) pending indefinitely.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero disables throttling.
	RequestsPerSecond float64
}

// ImportSettings configures the import intent.
type ImportSettings struct {
	// Count is the number of contacts fetched per import.
	Count int
}

// StateSettings configures the combined state stream.
type StateSettings struct {
	// GraceWindow delays releasing upstream sources after the last observer leaves.
	GraceWindow time.Duration
}

// ConnectivitySettings configures the network monitor.
type ConnectivitySettings struct {
	// PollInterval is how often the default route is checked.
	PollInterval time.Duration

	// ProbeAddress is an optional host:port dialled to detect a degrading link.
	// Empty disables probing.
	ProbeAddress string
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		API: APISettings{
			BaseURL:           DefaultAPIBaseURL,
			Timeout:           0,
			RequestsPerSecond: 2,
		},
		Import: ImportSettings{
			Count: DefaultImportCount,
		},
		State: StateSettings{
			GraceWindow: DefaultGraceWindow,
		},
		Connectivity: ConnectivitySettings{
			PollInterval: 2 * time.Second,
		},
	}
}

// Validate checks that the settings are usable.
func (s *AppSettings) Validate() error {
	var errs []error
	u, err := url.Parse(s.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("%w: api base url %q", ErrInvalidInput, s.API.BaseURL))
	}
	if s.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: api timeout must not be negative", ErrInvalidInput))
	}
	if s.API.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("%w: requests per second must not be negative", ErrInvalidInput))
	}
	if s.Import.Count <= 0 {
		errs = append(errs, fmt.Errorf("%w: import count must be positive", ErrInvalidInput))
	}
	if s.State.GraceWindow < 0 {
		errs = append(errs, fmt.Errorf("%w: grace window must not be negative", ErrInvalidInput))
	}
	if s.Connectivity.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: poll interval must be positive", ErrInvalidInput))
	}
	return errors.Join(errs...)
}
