package driving

import (
	"context"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/stream"
)

// ContactRepository composes the contact store and the remote source.
type ContactRepository interface {
	// ObserveContacts returns the store's live contact feed unchanged.
	ObserveContacts() stream.Source[[]domain.Contact]

	// Import fetches count remote records and appends them as new contacts.
	// Fails with domain.ErrNetwork, domain.ErrDecode or domain.ErrStorage.
	Import(ctx context.Context, count int) ([]domain.Contact, error)

	// List returns all contacts ordered by name.
	List(ctx context.Context) ([]domain.Contact, error)

	// Get retrieves a contact by ID.
	Get(ctx context.Context, id string) (*domain.Contact, error)

	// Update modifies an existing contact. Fails with domain.ErrStorage.
	Update(ctx context.Context, contact domain.Contact) error

	// Delete removes a contact. Fails with domain.ErrStorage.
	Delete(ctx context.Context, contact domain.Contact) error
}

// ConnectivityObserver reports host reachability as a stream.
type ConnectivityObserver interface {
	// Observe returns a deduplicated stream of connectivity states. The
	// first value reflects whether a default route exists at subscription.
	Observe() stream.Source[domain.ConnectivityState]

	// Current returns the connectivity state right now.
	Current(ctx context.Context) (domain.ConnectivityState, error)
}

// ContactsViewModel is the single authoritative UI state for the contact
// list, plus the intents a rendering layer may invoke.
//
// Intents are fire-and-forget: they return immediately and their outcome
// is observable only through later state emissions.
type ContactsViewModel interface {
	// ObserveState returns a replay-latest stream of combined snapshots.
	ObserveState() stream.Source[domain.ContactsState]

	// ImportContacts imports count remote contacts. A count of zero or
	// less uses the configured default.
	ImportContacts(count int)

	// DeleteContact removes a contact.
	DeleteContact(contact domain.Contact)

	// UpdateContact saves edits to a contact.
	UpdateContact(contact domain.Contact)

	// DismissError clears the current error message.
	DismissError()
}
