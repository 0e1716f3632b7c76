package tui

import (
	"context"
	"sync"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/stream"
)

// MockViewModel implements driving.ContactsViewModel for testing.
type MockViewModel struct {
	state *stream.State[domain.ContactsState]

	mu        sync.Mutex
	imports   []int
	deleted   []domain.Contact
	updated   []domain.Contact
	dismissed int
}

func newMockViewModel() *MockViewModel {
	return &MockViewModel{
		state: stream.NewStateFunc(domain.InitialContactsState(), domain.ContactsState.Equal),
	}
}

func (m *MockViewModel) ObserveState() stream.Source[domain.ContactsState] {
	return m.state
}

func (m *MockViewModel) ImportContacts(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports = append(m.imports, count)
}

func (m *MockViewModel) DeleteContact(contact domain.Contact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, contact)
}

func (m *MockViewModel) UpdateContact(contact domain.Contact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, contact)
}

func (m *MockViewModel) DismissError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dismissed++
}

func (m *MockViewModel) Updated() []domain.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Contact(nil), m.updated...)
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
	return "tel:" + contact.DialDigits(), nil
}

func (m *MockActionService) MessageURL(contact domain.Contact) (string, error) {
	return "https://api.whatsapp.com/send?phone=" + contact.DialDigits(), nil
}
