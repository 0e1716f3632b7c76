package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driven"
	"github.com/custodia-labs/agenda/internal/core/ports/driving"
	"github.com/custodia-labs/agenda/internal/core/stream"
	"github.com/custodia-labs/agenda/internal/logger"
)

// Ensure ContactRepository implements the interface.
var _ driving.ContactRepository = (*ContactRepository)(nil)

// ContactRepository composes the contact store with the remote source.
type ContactRepository struct {
	store  driven.ContactStore
	remote driven.RemoteContactSource
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(store driven.ContactStore, remote driven.RemoteContactSource) *ContactRepository {
	return &ContactRepository{
		store:  store,
		remote: remote,
	}
}

// ObserveContacts returns the store's live contact feed.
func (r *ContactRepository) ObserveContacts() stream.Source[[]domain.Contact] {
	if r.store == nil {
		return stream.FromFunc(func(context.Context, func([]domain.Contact)) error {
			return domain.ErrNotImplemented
		})
	}
	return r.store.Watch()
}

// Import fetches count remote users and inserts them as new contacts.
// Existing contacts are never matched or replaced.
func (r *ContactRepository) Import(ctx context.Context, count int) ([]domain.Contact, error) {
	if r.store == nil || r.remote == nil {
		return nil, domain.ErrNotImplemented
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: import count must be positive", domain.ErrInvalidInput)
	}

	users, err := r.remote.FetchUsers(ctx, count)
	if err != nil {
		return nil, err
	}
	logger.Debug("fetched %d remote users", len(users))

	contacts := make([]domain.Contact, 0, len(users))
	for _, u := range users {
		contacts = append(contacts, u.ToContact())
	}

	stored, err := r.store.InsertMany(ctx, contacts)
	if err != nil {
		return nil, storageErr("insert contacts", err)
	}
	return stored, nil
}

// List returns all contacts ordered by name.
func (r *ContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	if r.store == nil {
		return nil, domain.ErrNotImplemented
	}
	contacts, err := r.store.List(ctx)
	if err != nil {
		return nil, storageErr("list contacts", err)
	}
	return contacts, nil
}

// Get retrieves a contact by ID.
func (r *ContactRepository) Get(ctx context.Context, id string) (*domain.Contact, error) {
	if r.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return r.store.Get(ctx, id)
}

// Update modifies an existing contact.
func (r *ContactRepository) Update(ctx context.Context, contact domain.Contact) error {
	if r.store == nil {
		return domain.ErrNotImplemented
	}
	// A blank name is rejected like any other failed write.
	err := contact.Validate()
	if err == nil {
		err = r.store.Update(ctx, contact)
	}
	if err != nil {
		return storageErr("update contact "+contact.ID, err)
	}
	return nil
}

// Delete removes a contact.
func (r *ContactRepository) Delete(ctx context.Context, contact domain.Contact) error {
	if r.store == nil {
		return domain.ErrNotImplemented
	}
	if err := r.store.Delete(ctx, contact); err != nil {
		return storageErr("delete contact "+contact.ID, err)
	}
	return nil
}

// storageErr tags err as a storage failure unless it already is one.
func storageErr(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
