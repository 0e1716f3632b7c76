package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/stream"
)

// MockContactRepository implements driving.ContactRepository for testing.
type MockContactRepository struct {
	ImportFunc func(ctx context.Context, count int) ([]domain.Contact, error)
	ListFunc   func(ctx context.Context) ([]domain.Contact, error)
	GetFunc    func(ctx context.Context, id string) (*domain.Contact, error)
	UpdateFunc func(ctx context.Context, contact domain.Contact) error
	DeleteFunc func(ctx context.Context, contact domain.Contact) error
}

func (m *MockContactRepository) ObserveContacts() stream.Source[[]domain.Contact] {
	return stream.NewStateFunc([]domain.Contact{}, func(a, b []domain.Contact) bool { return false })
}

func (m *MockContactRepository) Import(ctx context.Context, count int) ([]domain.Contact, error) {
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, count)
	}
	return nil, nil
}

func (m *MockContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockContactRepository) Get(ctx context.Context, id string) (*domain.Contact, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockContactRepository) Update(ctx context.Context, contact domain.Contact) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, contact)
	}
	return nil
}

func (m *MockContactRepository) Delete(ctx context.Context, contact domain.Contact) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, contact)
	}
	return nil
}

// MockConnectivity implements driving.ConnectivityObserver for testing.
type MockConnectivity struct {
	State domain.ConnectivityState
	Err   error
}

func (m *MockConnectivity) Observe() stream.Source[domain.ConnectivityState] {
	return stream.NewState(m.State)
}

func (m *MockConnectivity) Current(context.Context) (domain.ConnectivityState, error) {
	return m.State, m.Err
}

// MockActionService implements driving.ContactActionService for testing.
type MockActionService struct {
	CallFunc    func(ctx context.Context, contact domain.Contact) error
	MessageFunc func(ctx context.Context, contact domain.Contact) error
}

func (m *MockActionService) Call(ctx context.Context, contact domain.Contact) error {
	if m.CallFunc != nil {
		return m.CallFunc(ctx, contact)
	}
	return nil
}

func (m *MockActionService) Message(ctx context.Context, contact domain.Contact) error {
	if m.MessageFunc != nil {
		return m.MessageFunc(ctx, contact)
	}
	return nil
}

func (m *MockActionService) CallURL(contact domain.Contact) (string, error) {
	if contact.Phone == "" {
		return "", domain.ErrInvalidInput
	}
	return "tel:" + contact.DialDigits(), nil
}

func (m *MockActionService) MessageURL(contact domain.Contact) (string, error) {
	if contact.Phone == "" {
		return "", domain.ErrInvalidInput
	}
	return "https://api.whatsapp.com/send?phone=" + strings.TrimPrefix(contact.DialDigits(), "+"), nil
}

// withServices installs s for the duration of the test.
func withServices(t *testing.T, s *Services) {
	t.Helper()
	SetServices(s)
	t.Cleanup(func() { SetServices(nil) })
}

// runCLI executes the root command with args and stdin, returning the
// combined output.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := Execute(context.Background())
	return buf.String(), err
}

// resetFlags restores every flag to its default, since cobra keeps parsed
// values between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		//nolint:errcheck // defaults always parse
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
