package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agenda/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/agenda/internal/core/domain"
	coreservices "github.com/custodia-labs/agenda/internal/core/services"
)

var (
	ada = domain.Contact{ID: "c-1", Name: "Ada Lovelace", Phone: "+44 20 7946 0001", Email: "ada@example.com"}
	bob = domain.Contact{ID: "c-2", Name: "Bob Martin", Phone: "555-0202"}
)

func repoWith(contacts ...domain.Contact) *MockContactRepository {
	return &MockContactRepository{
		ListFunc: func(context.Context) ([]domain.Contact, error) {
			return contacts, nil
		},
		GetFunc: func(_ context.Context, id string) (*domain.Contact, error) {
			for i := range contacts {
				if contacts[i].ID == id {
					c := contacts[i]
					return &c, nil
				}
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrStorage, domain.ErrNotFound)
		},
	}
}

func withTerminal(t *testing.T, isTerminal bool) {
	t.Helper()
	orig := stdinIsTerminal
	stdinIsTerminal = func() bool { return isTerminal }
	t.Cleanup(func() { stdinIsTerminal = orig })
}

func TestListCmd_NotConfigured(t *testing.T) {
	withServices(t, nil)

	_, err := runCLI(t, "", "list")

	assert.EqualError(t, err, "contact repository not configured")
}

func TestListCmd_Empty(t *testing.T) {
	withServices(t, &Services{Contacts: repoWith()})

	out, err := runCLI(t, "", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No contacts. Run 'agenda import' to add some.")
}

func TestListCmd_Table(t *testing.T) {
	withServices(t, &Services{Contacts: repoWith(ada, bob)})

	out, err := runCLI(t, "", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "c-1  Ada Lovelace")
	assert.Contains(t, out, "Phone: +44 20 7946 0001")
	assert.Contains(t, out, "Email: ada@example.com")
	assert.Contains(t, out, "c-2  Bob Martin")
}

func TestListCmd_JSON(t *testing.T) {
	withServices(t, &Services{Contacts: repoWith(ada)})

	out, err := runCLI(t, "", "list", "--json")

	require.NoError(t, err)
	var got []contactJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].ID)
	assert.Equal(t, "ada@example.com", got[0].Email)
}

func TestListCmd_Error(t *testing.T) {
	withServices(t, &Services{Contacts: &MockContactRepository{
		ListFunc: func(context.Context) ([]domain.Contact, error) {
			return nil, domain.ErrStorage
		},
	}})

	_, err := runCLI(t, "", "list")

	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestImportCmd_Count(t *testing.T) {
	var requested int
	repo := &MockContactRepository{
		ImportFunc: func(_ context.Context, count int) ([]domain.Contact, error) {
			requested = count
			return []domain.Contact{ada, bob}, nil
		},
	}
	withServices(t, &Services{Contacts: repo})

	out, err := runCLI(t, "", "import", "-n", "2")

	require.NoError(t, err)
	assert.Equal(t, 2, requested)
	assert.Contains(t, out, "Imported 2 contacts.")
	assert.Contains(t, out, "Bob Martin")
}

func TestImportCmd_DefaultCount(t *testing.T) {
	var requested int
	repo := &MockContactRepository{
		ImportFunc: func(_ context.Context, count int) ([]domain.Contact, error) {
			requested = count
			return nil, nil
		},
	}
	withServices(t, &Services{Contacts: repo})

	out, err := runCLI(t, "", "import")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultImportCount, requested)
	assert.Contains(t, out, "Imported 0 contacts.")
}

func TestImportCmd_CountFromSettings(t *testing.T) {
	var requested int
	repo := &MockContactRepository{
		ImportFunc: func(_ context.Context, count int) ([]domain.Contact, error) {
			requested = count
			return nil, nil
		},
	}
	settings := coreservices.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.Set(coreservices.KeyImportCount, "7"))
	withServices(t, &Services{Contacts: repo, Settings: settings})

	_, err := runCLI(t, "", "import")

	require.NoError(t, err)
	assert.Equal(t, 7, requested)
}

func TestImportCmd_NetworkError(t *testing.T) {
	repo := &MockContactRepository{
		ImportFunc: func(context.Context, int) ([]domain.Contact, error) {
			return nil, fmt.Errorf("%w: connection refused", domain.ErrNetwork)
		},
	}
	withServices(t, &Services{Contacts: repo})

	_, err := runCLI(t, "", "import")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "import failed")
}

func TestImportCmd_JSON(t *testing.T) {
	repo := &MockContactRepository{
		ImportFunc: func(context.Context, int) ([]domain.Contact, error) {
			return []domain.Contact{bob}, nil
		},
	}
	withServices(t, &Services{Contacts: repo})

	out, err := runCLI(t, "", "import", "--json")

	require.NoError(t, err)
	var got []contactJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Bob Martin", got[0].Name)
}

func TestDeleteCmd_WithYes(t *testing.T) {
	var deleted domain.Contact
	repo := repoWith(ada)
	repo.DeleteFunc = func(_ context.Context, c domain.Contact) error {
		deleted = c
		return nil
	}
	withServices(t, &Services{Contacts: repo})

	out, err := runCLI(t, "", "delete", "c-1", "--yes")

	require.NoError(t, err)
	assert.Equal(t, ada, deleted)
	assert.Contains(t, out, "Deleted Ada Lovelace.")
}

func TestDeleteCmd_Prompt(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		deleted bool
	}{
		{"yes", "y\n", true},
		{"full yes", "YES\n", true},
		{"no", "n\n", false},
		{"blank", "\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withTerminal(t, true)
			called := false
			repo := repoWith(ada)
			repo.DeleteFunc = func(context.Context, domain.Contact) error {
				called = true
				return nil
			}
			withServices(t, &Services{Contacts: repo})

			out, err := runCLI(t, tt.answer, "delete", "c-1")

			require.NoError(t, err)
			assert.Contains(t, out, "Delete Ada Lovelace (c-1)? [y/N]:")
			assert.Equal(t, tt.deleted, called)
			if !tt.deleted {
				assert.Contains(t, out, "Cancelled.")
			}
		})
	}
}

func TestDeleteCmd_RefusesWithoutTerminal(t *testing.T) {
	withTerminal(t, false)
	withServices(t, &Services{Contacts: repoWith(ada)})

	_, err := runCLI(t, "y\n", "delete", "c-1")

	assert.EqualError(t, err, "refusing to delete without --yes when stdin is not a terminal")
}

func TestDeleteCmd_NotFound(t *testing.T) {
	withServices(t, &Services{Contacts: repoWith(ada)})

	_, err := runCLI(t, "", "delete", "missing", "-y")

	assert.EqualError(t, err, "contact missing not found")
}

func TestDeleteCmd_StorageError(t *testing.T) {
	repo := repoWith(ada)
	repo.DeleteFunc = func(context.Context, domain.Contact) error {
		return fmt.Errorf("%w: disk I/O error", domain.ErrStorage)
	}
	withServices(t, &Services{Contacts: repo})

	_, err := runCLI(t, "", "delete", "c-1", "-y")

	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestEditCmd_ChangesOnlyGivenFields(t *testing.T) {
	var updated domain.Contact
	repo := repoWith(ada)
	repo.UpdateFunc = func(_ context.Context, c domain.Contact) error {
		updated = c
		return nil
	}
	withServices(t, &Services{Contacts: repo})

	out, err := runCLI(t, "", "edit", "c-1", "--name", "Ada Byron", "--email", "")

	require.NoError(t, err)
	assert.Equal(t, "Ada Byron", updated.Name)
	assert.Empty(t, updated.Email)
	assert.Equal(t, ada.Phone, updated.Phone)
	assert.Equal(t, ada.ID, updated.ID)
	assert.Contains(t, out, "Updated Ada Byron.")
}

func TestEditCmd_NothingToChange(t *testing.T) {
	withServices(t, &Services{Contacts: repoWith(ada)})

	_, err := runCLI(t, "", "edit", "c-1")

	assert.EqualError(t, err, "nothing to change: pass --name, --phone or --email")
}

func TestCallCmd_PrintLink(t *testing.T) {
	called := false
	actions := &MockActionService{CallFunc: func(context.Context, domain.Contact) error {
		called = true
		return nil
	}}
	withServices(t, &Services{Contacts: repoWith(ada), Actions: actions})

	out, err := runCLI(t, "", "call", "c-1", "--print")

	require.NoError(t, err)
	assert.Contains(t, out, "tel:+442079460001")
	assert.False(t, called)
}

func TestCallCmd_Opens(t *testing.T) {
	var called domain.Contact
	actions := &MockActionService{CallFunc: func(_ context.Context, c domain.Contact) error {
		called = c
		return nil
	}}
	withServices(t, &Services{Contacts: repoWith(ada), Actions: actions})

	out, err := runCLI(t, "", "call", "c-1")

	require.NoError(t, err)
	assert.Equal(t, ada, called)
	assert.Contains(t, out, "Opened tel:+442079460001")
}

func TestWhatsAppCmd_Opens(t *testing.T) {
	var messaged domain.Contact
	actions := &MockActionService{MessageFunc: func(_ context.Context, c domain.Contact) error {
		messaged = c
		return nil
	}}
	withServices(t, &Services{Contacts: repoWith(bob), Actions: actions})

	out, err := runCLI(t, "", "whatsapp", "c-2")

	require.NoError(t, err)
	assert.Equal(t, bob, messaged)
	assert.Contains(t, out, "Opened https://api.whatsapp.com/send?phone=5550202")
}

func TestWhatsAppCmd_OpenerFails(t *testing.T) {
	actions := &MockActionService{MessageFunc: func(context.Context, domain.Contact) error {
		return errors.New("xdg-open not found")
	}}
	withServices(t, &Services{Contacts: repoWith(bob), Actions: actions})

	_, err := runCLI(t, "", "whatsapp", "c-2")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "xdg-open not found")
}

func TestCallCmd_NoPhone(t *testing.T) {
	noPhone := domain.Contact{ID: "c-3", Name: "No Phone"}
	withServices(t, &Services{Contacts: repoWith(noPhone), Actions: &MockActionService{}})

	_, err := runCLI(t, "", "call", "c-3")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCallCmd_NotConfigured(t *testing.T) {
	withServices(t, &Services{Contacts: repoWith(ada)})

	_, err := runCLI(t, "", "call", "c-1")

	assert.EqualError(t, err, "action service not configured")
}

func TestStatusCmd(t *testing.T) {
	tests := []struct {
		name         string
		connectivity *MockConnectivity
		expected     string
	}{
		{"available", &MockConnectivity{State: domain.ConnectivityAvailable}, "Network:  available"},
		{"lost", &MockConnectivity{State: domain.ConnectivityLost}, "Network:  lost"},
		{"error", &MockConnectivity{Err: errors.New("no route table")}, "Network:  unknown (no route table)"},
		{"not monitored", nil, "Network:  not monitored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Services{Contacts: repoWith(ada, bob)}
			if tt.connectivity != nil {
				s.Connectivity = tt.connectivity
			}
			withServices(t, s)

			out, err := runCLI(t, "", "status")

			require.NoError(t, err)
			assert.Contains(t, out, tt.expected)
			assert.Contains(t, out, "Contacts: 2")
		})
	}
}
