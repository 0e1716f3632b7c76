package cli

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agenda/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agenda/internal/core/domain"
	coreservices "github.com/custodia-labs/agenda/internal/core/services"
	"github.com/custodia-labs/agenda/internal/core/stream"
	"github.com/custodia-labs/agenda/internal/logger"
)

// MockTUIViewModel implements driving.ContactsViewModel for TUI tests.
type MockTUIViewModel struct {
	mu          sync.Mutex
	importCount int
}

func (m *MockTUIViewModel) ObserveState() stream.Source[domain.ContactsState] {
	return stream.NewStateFunc(domain.InitialContactsState(), domain.ContactsState.Equal)
}

func (m *MockTUIViewModel) ImportContacts(int)          {}
func (m *MockTUIViewModel) DeleteContact(domain.Contact) {}
func (m *MockTUIViewModel) UpdateContact(domain.Contact) {}
func (m *MockTUIViewModel) DismissError()                {}

func (m *MockTUIViewModel) SetImportCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.importCount = n
}

func (m *MockTUIViewModel) ImportCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.importCount
}

// MockConfigWatcher fires onChange once, then waits for cancellation.
type MockConfigWatcher struct{}

func (MockConfigWatcher) Watch(ctx context.Context, onChange func()) error {
	onChange()
	<-ctx.Done()
	return ctx.Err()
}

func TestTUICmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
}

func TestTUICmd_LongDescription(t *testing.T) {
	assert.Contains(t, tuiCmd.Long, "interactive terminal user interface")
	assert.Contains(t, tuiCmd.Long, "Controls:")
}

func TestTUICmd_HelpOutput(t *testing.T) {
	withServices(t, nil)

	out, err := runCLI(t, "", "tui", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "Launch the interactive terminal user interface")
}

func TestNewTUIApp_RequiresViewModel(t *testing.T) {
	withServices(t, &Services{Actions: &MockActionService{}})

	_, err := newTUIApp(&cobra.Command{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create TUI")
}

func TestNewTUIApp_Success(t *testing.T) {
	withServices(t, &Services{ViewModel: &MockTUIViewModel{}, Actions: &MockActionService{}})

	app, err := newTUIApp(&cobra.Command{})

	require.NoError(t, err)
	require.NotNil(t, app)
	app.Close()
}

func TestRedirectLogs_ToFile(t *testing.T) {
	withServices(t, &Services{LogPath: t.TempDir() + "/logs/agenda.log"})
	logger.SetVerbose(true)
	defer logger.SetVerbose(false)

	restore, err := redirectLogs()
	require.NoError(t, err)
	logger.Debug("inside the tui")
	restore()

	assert.FileExists(t, logPath)
}

func TestRedirectLogs_Discard(t *testing.T) {
	withServices(t, &Services{})

	restore, err := redirectLogs()

	require.NoError(t, err)
	restore()
}

func TestWatchSettings_AppliesImportCount(t *testing.T) {
	vm := &MockTUIViewModel{}
	settings := coreservices.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.Set(coreservices.KeyImportCount, "42"))
	withServices(t, &Services{ViewModel: vm, Settings: settings, ConfigWatcher: MockConfigWatcher{}})

	ctx, cancel := context.WithCancel(context.Background())
	sent := make(chan tea.Msg, 1)
	done := make(chan struct{})
	go func() {
		watchSettings(ctx, func(msg tea.Msg) { sent <- msg })
		close(done)
	}()

	select {
	case msg := <-sent:
		assert.Equal(t, messages.SettingsChanged{}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for settings change")
	}
	assert.Equal(t, 42, vm.ImportCount())

	cancel()
	<-done
}

func TestApplySettings_NoService(t *testing.T) {
	vm := &MockTUIViewModel{}
	withServices(t, &Services{ViewModel: vm})

	applySettings()

	assert.Zero(t, vm.ImportCount())
}
