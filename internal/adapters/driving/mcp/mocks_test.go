package mcp

import (
	"context"
	"strings"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/stream"
)

// mockContactRepository is a mock implementation of driving.ContactRepository.
type mockContactRepository struct {
	contacts  []domain.Contact
	imported  []domain.Contact
	err       error
	importErr error

	importCount int
	updated     []domain.Contact
	deleted     []domain.Contact
}

func (m *mockContactRepository) ObserveContacts() stream.Source[[]domain.Contact] {
	return stream.NewStateFunc(m.contacts, func(a, b []domain.Contact) bool { return false })
}

func (m *mockContactRepository) Import(_ context.Context, count int) ([]domain.Contact, error) {
	m.importCount = count
	return m.imported, m.importErr
}

func (m *mockContactRepository) List(_ context.Context) ([]domain.Contact, error) {
	return m.contacts, m.err
}

func (m *mockContactRepository) Get(_ context.Context, id string) (*domain.Contact, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.contacts {
		if m.contacts[i].ID == id {
			c := m.contacts[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockContactRepository) Update(_ context.Context, c domain.Contact) error {
	m.updated = append(m.updated, c)
	return nil
}

func (m *mockContactRepository) Delete(_ context.Context, c domain.Contact) error {
	m.deleted = append(m.deleted, c)
	return nil
}

// mockActionService is a mock implementation of driving.ContactActionService.
type mockActionService struct{}

func (mockActionService) Call(context.Context, domain.Contact) error    { return nil }
func (mockActionService) Message(context.Context, domain.Contact) error { return nil }

func (mockActionService) CallURL(c domain.Contact) (string, error) {
	if c.Phone == "" {
		return "", domain.ErrInvalidInput
	}
	return "tel:" + c.DialDigits(), nil
}

func (mockActionService) MessageURL(c domain.Contact) (string, error) {
	if c.Phone == "" {
		return "", domain.ErrInvalidInput
	}
	return "https://api.whatsapp.com/send?phone=" + strings.TrimPrefix(c.DialDigits(), "+"), nil
}

// mockConnectivity is a mock implementation of driving.ConnectivityObserver.
type mockConnectivity struct {
	state domain.ConnectivityState
	err   error
}

func (m *mockConnectivity) Observe() stream.Source[domain.ConnectivityState] {
	return stream.NewState(m.state)
}

func (m *mockConnectivity) Current(context.Context) (domain.ConnectivityState, error) {
	return m.state, m.err
}

var (
	ada = domain.Contact{ID: "c-1", Name: "Ada Lovelace", Email: "ada@example.com", Phone: "+44 20 7946 0001"}
	bob = domain.Contact{ID: "c-2", Name: "Bob Martin", Email: "bob@example.org"}
)
