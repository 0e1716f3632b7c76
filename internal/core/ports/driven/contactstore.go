package driven

import (
	"context"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/stream"
)

// ContactStore persists contacts and exposes them as a live, ordered view.
// Implementations serialise their own writes; reads reflect the latest
// committed write.
type ContactStore interface {
	// Watch returns a live view of all contacts ordered ascending by name.
	// Each subscriber receives the current list immediately and a fresh
	// list after every committed mutation.
	Watch() stream.Source[[]domain.Contact]

	// List returns all contacts ordered ascending by name.
	List(ctx context.Context) ([]domain.Contact, error)

	// Get retrieves a contact by ID.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Contact, error)

	// InsertMany stores contacts as new rows, assigning fresh IDs.
	// Any ID already set on the input is ignored. Returns the stored rows.
	InsertMany(ctx context.Context, contacts []domain.Contact) ([]domain.Contact, error)

	// Update replaces the mutable fields of an existing contact.
	// Returns domain.ErrNotFound if no row has the contact's ID.
	Update(ctx context.Context, contact domain.Contact) error

	// Delete removes a contact.
	// Returns domain.ErrNotFound if no row has the contact's ID.
	Delete(ctx context.Context, contact domain.Contact) error
}
