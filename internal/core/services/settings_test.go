package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agenda/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/agenda/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyAPIBaseURL:        "http://localhost:8080/",
		KeyAPITimeout:        int64(30),
		KeyRequestsPerSecond: 0.5,
		KeyImportCount:       int64(25),
		KeyGraceWindow:       1.5,
		KeyPollInterval:      int64(10),
		KeyProbeAddress:      "1.1.1.1:53",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/", settings.API.BaseURL)
	assert.Equal(t, 30*time.Second, settings.API.Timeout)
	assert.InDelta(t, 0.5, settings.API.RequestsPerSecond, 1e-9)
	assert.Equal(t, 25, settings.Import.Count)
	assert.Equal(t, 1500*time.Millisecond, settings.State.GraceWindow)
	assert.Equal(t, 10*time.Second, settings.Connectivity.PollInterval)
	assert.Equal(t, "1.1.1.1:53", settings.Connectivity.ProbeAddress)
}

func TestSettingsService_Get_ZeroValuesAreKept(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyGraceWindow:       int64(0),
		KeyRequestsPerSecond: int64(0),
	})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Zero(t, settings.State.GraceWindow)
	assert.Zero(t, settings.API.RequestsPerSecond)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings := domain.DefaultAppSettings()
	settings.Import.Count = 42
	settings.API.Timeout = 15 * time.Second
	settings.Connectivity.ProbeAddress = "example.com:443"
	require.NoError(t, service.Save(settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, got)
}

func TestSettingsService_SaveRejectsInvalid(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Import.Count = 0

	err := service.Save(settings)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, exists := store.Get(KeyImportCount)
	assert.False(t, exists)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(t *testing.T, s *domain.AppSettings)
	}{
		{KeyAPIBaseURL, "http://127.0.0.1:9000/", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "http://127.0.0.1:9000/", s.API.BaseURL)
		}},
		{KeyAPITimeout, "1m", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, time.Minute, s.API.Timeout)
		}},
		{KeyRequestsPerSecond, "0.25", func(t *testing.T, s *domain.AppSettings) {
			assert.InDelta(t, 0.25, s.API.RequestsPerSecond, 1e-9)
		}},
		{KeyImportCount, " 50 ", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 50, s.Import.Count)
		}},
		{KeyGraceWindow, "0", func(t *testing.T, s *domain.AppSettings) {
			assert.Zero(t, s.State.GraceWindow)
		}},
		{KeyPollInterval, "3", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 3*time.Second, s.Connectivity.PollInterval)
		}},
		{KeyProbeAddress, "8.8.8.8:53", func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "8.8.8.8:53", s.Connectivity.ProbeAddress)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			require.NoError(t, service.Set(tt.key, tt.value))

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_SetErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "search.mode", "hybrid"},
		{"not an integer", KeyImportCount, "ten"},
		{"not a number", KeyRequestsPerSecond, "fast"},
		{"bad duration", KeyAPITimeout, "soon"},
		{"invalid url", KeyAPIBaseURL, "not a url"},
		{"zero count", KeyImportCount, "0"},
		{"negative grace", KeyGraceWindow, "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			err := service.Set(tt.key, tt.value)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_KeysReturnsCopy(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()
	require.Len(t, keys, 7)
	assert.Equal(t, KeyAPIBaseURL, keys[0])

	keys[0] = "changed"
	assert.Equal(t, KeyAPIBaseURL, service.Keys()[0])
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	require.NoError(t, service.Validate())

	_ = store.Set(KeyPollInterval, int64(-2))
	assert.ErrorIs(t, service.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_NilStore(t *testing.T) {
	service := NewSettingsService(nil)

	_, err := service.Get()
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, service.Set(KeyImportCount, "5"), domain.ErrNotImplemented)
	assert.Equal(t, *domain.DefaultAppSettings(), service.GetDefaults())
}
