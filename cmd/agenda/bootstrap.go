package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/agenda/internal/adapters/driven/config/file"
	"github.com/custodia-labs/agenda/internal/adapters/driven/network"
	"github.com/custodia-labs/agenda/internal/adapters/driven/randomuser"
	"github.com/custodia-labs/agenda/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/agenda/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/agenda/internal/adapters/driving/cli"
	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driven"
	"github.com/custodia-labs/agenda/internal/core/services"
	"github.com/custodia-labs/agenda/internal/logger"
)

// logFile is the TUI log file name inside the data directory.
const logFile = "agenda.log"

// bootstrap wires the adapters and services for one command invocation.
func bootstrap(_ context.Context, opts cli.Options) (*cli.Services, error) {
	var closers []func() error

	configStore, watcher, err := openConfig(opts)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		logger.Warn("invalid settings, using defaults: %v", err)
		settings = domain.DefaultAppSettings()
	}

	contactStore, dataDir, closeStore, err := openContactStore(opts)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	remote, err := randomuser.NewClient(randomuser.Config{
		BaseURL:           settings.API.BaseURL,
		Timeout:           settings.API.Timeout,
		RequestsPerSecond: settings.API.RequestsPerSecond,
	})
	if err != nil {
		return nil, errors.Join(err, closeAll(closers))
	}

	monitor := network.NewMonitor(network.Config{
		PollInterval: settings.Connectivity.PollInterval,
		ProbeAddress: settings.Connectivity.ProbeAddress,
	})

	repository := services.NewContactRepository(contactStore, remote)
	connectivity := services.NewConnectivityFeed(monitor)
	aggregator := services.NewStateAggregator(repository, connectivity, services.AggregatorConfig{
		GraceWindow: settings.State.GraceWindow,
		ImportCount: settings.Import.Count,
	})
	// The aggregator goes first so no intent writes to a closed store.
	closers = append([]func() error{func() error {
		aggregator.Close()
		return nil
	}}, closers...)

	s := &cli.Services{
		Contacts:      repository,
		Connectivity:  connectivity,
		ViewModel:     aggregator,
		Actions:       services.NewContactActionService(nil),
		Settings:      settingsService,
		ConfigWatcher: watcher,
		Close:         func() error { return closeAll(closers) },
	}
	if dataDir != "" {
		s.LogPath = filepath.Join(dataDir, logFile)
	}
	return s, nil
}

// openConfig returns the settings store. Ephemeral runs keep settings in
// memory and have nothing to watch.
func openConfig(opts cli.Options) (driven.ConfigStore, driven.ConfigWatcher, error) {
	if opts.Ephemeral {
		return memory.NewConfigStore(), nil, nil
	}
	// An explicit data directory also holds the config file.
	store, err := file.NewConfigStore(opts.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	logger.Debug("config file: %s", store.Path())
	return store, store, nil
}

// openContactStore returns the contact store, the directory it lives in
// and a close function. Ephemeral runs only have a directory when one was
// given explicitly.
func openContactStore(opts cli.Options) (driven.ContactStore, string, func() error, error) {
	if opts.Ephemeral {
		return memory.NewContactStore(), opts.DataDir, nil, nil
	}

	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return nil, "", nil, fmt.Errorf("opening contact store: %w", err)
	}
	logger.Debug("database: %s", store.Path())
	return store.ContactStore(), filepath.Dir(store.Path()), store.Close, nil
}

func closeAll(closers []func() error) error {
	var errs []error
	for _, c := range closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
