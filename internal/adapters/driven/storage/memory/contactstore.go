package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driven"
	"github.com/custodia-labs/agenda/internal/core/stream"
)

// Ensure ContactStore implements the interface.
var _ driven.ContactStore = (*ContactStore)(nil)

// ContactStore is an in-memory implementation of driven.ContactStore.
// Used by tests and by ephemeral runs.
type ContactStore struct {
	mu       sync.RWMutex
	contacts map[string]entry
	seq      int64

	// version is bumped after every committed mutation.
	version *stream.State[uint64]
}

type entry struct {
	seq     int64
	contact domain.Contact
}

// NewContactStore creates a new in-memory contact store.
func NewContactStore() *ContactStore {
	return &ContactStore{
		contacts: make(map[string]entry),
		version:  stream.NewState[uint64](0),
	}
}

// Watch returns the live, name-ordered contact list.
func (s *ContactStore) Watch() stream.Source[[]domain.Contact] {
	return stream.FromFunc(func(ctx context.Context, emit func([]domain.Contact)) error {
		changes := s.version.Subscribe()
		defer changes.Close()
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-changes.C():
				if !ok {
					return nil
				}
				contacts, err := s.List(ctx)
				if err != nil {
					return err
				}
				emit(contacts)
			}
		}
	})
}

// List returns all contacts ordered by name, then insertion order.
func (s *ContactStore) List(_ context.Context) ([]domain.Contact, error) {
	s.mu.RLock()
	entries := make([]entry, 0, len(s.contacts))
	for _, e := range s.contacts {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	slices.SortFunc(entries, func(a, b entry) int {
		if c := strings.Compare(a.contact.Name, b.contact.Name); c != 0 {
			return c
		}
		return int(a.seq - b.seq)
	})

	contacts := make([]domain.Contact, len(entries))
	for i, e := range entries {
		contacts[i] = e.contact
	}
	return contacts, nil
}

// Get retrieves a contact by ID.
func (s *ContactStore) Get(_ context.Context, id string) (*domain.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.contacts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := e.contact
	return &c, nil
}

// InsertMany stores contacts as new rows with fresh IDs.
func (s *ContactStore) InsertMany(_ context.Context, contacts []domain.Contact) ([]domain.Contact, error) {
	if len(contacts) == 0 {
		return []domain.Contact{}, nil
	}

	stored := make([]domain.Contact, len(contacts))
	s.mu.Lock()
	for i, c := range contacts {
		c.ID = uuid.New().String()
		s.seq++
		s.contacts[c.ID] = entry{seq: s.seq, contact: c}
		stored[i] = c
	}
	s.mu.Unlock()

	s.bump()
	return stored, nil
}

// Update replaces an existing contact's fields.
func (s *ContactStore) Update(_ context.Context, contact domain.Contact) error {
	s.mu.Lock()
	e, ok := s.contacts[contact.ID]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	e.contact = contact
	s.contacts[contact.ID] = e
	s.mu.Unlock()

	s.bump()
	return nil
}

// Delete removes a contact.
func (s *ContactStore) Delete(_ context.Context, contact domain.Contact) error {
	s.mu.Lock()
	if _, ok := s.contacts[contact.ID]; !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(s.contacts, contact.ID)
	s.mu.Unlock()

	s.bump()
	return nil
}

// Count returns the number of stored contacts.
func (s *ContactStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contacts)
}

func (s *ContactStore) bump() {
	s.version.Update(func(v uint64) uint64 { return v + 1 })
}
