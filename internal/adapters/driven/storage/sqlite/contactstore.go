package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driven"
	"github.com/custodia-labs/agenda/internal/core/stream"
	"github.com/custodia-labs/agenda/internal/logger"
)

// contactStore implements driven.ContactStore.
type contactStore struct {
	store *Store
}

var _ driven.ContactStore = (*contactStore)(nil)

const selectContacts = `
	SELECT id, name, email, phone, picture_url
	FROM contacts
`

// Watch returns the live contact list. A fresh list is read after every
// write through this store and after commits seen via data_version.
func (s *contactStore) Watch() stream.Source[[]domain.Contact] {
	return stream.FromFunc(func(ctx context.Context, emit func([]domain.Contact)) error {
		changes := s.store.changes.Subscribe()
		defer changes.Close()

		var tick <-chan time.Time
		var conn *sql.Conn
		var lastVersion int64
		if every := time.Duration(s.store.pollInterval.Load()); every > 0 {
			c, err := s.store.db.Conn(ctx)
			if err != nil {
				return fmt.Errorf("%w: reserving watch connection: %w", domain.ErrStorage, err)
			}
			conn = c
			defer conn.Close()
			if lastVersion, err = dataVersion(ctx, conn); err != nil {
				return err
			}
			ticker := time.NewTicker(every)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-changes.C():
				if !ok {
					return nil
				}
			case <-tick:
				v, err := dataVersion(ctx, conn)
				if err != nil {
					return err
				}
				if v == lastVersion {
					continue
				}
				lastVersion = v
				logger.Debug("sqlite: external commit detected")
			}

			contacts, err := s.List(ctx)
			if err != nil {
				return err
			}
			emit(contacts)
		}
	})
}

// List returns all contacts ordered by name, then insertion order.
func (s *contactStore) List(ctx context.Context) ([]domain.Contact, error) {
	rows, err := s.store.db.QueryContext(ctx, selectContacts+" ORDER BY name ASC, seq ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: querying contacts: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.PictureURL); err != nil {
			return nil, fmt.Errorf("%w: scanning contact: %w", domain.ErrStorage, err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating contacts: %w", domain.ErrStorage, err)
	}
	return contacts, nil
}

// Get retrieves a contact by ID.
func (s *contactStore) Get(ctx context.Context, id string) (*domain.Contact, error) {
	row := s.store.db.QueryRowContext(ctx, selectContacts+" WHERE id = ?", id)

	var c domain.Contact
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.PictureURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning contact: %w", domain.ErrStorage, err)
	}
	return &c, nil
}

// InsertMany stores contacts as new rows in a single transaction.
func (s *contactStore) InsertMany(ctx context.Context, contacts []domain.Contact) ([]domain.Contact, error) {
	if len(contacts) == 0 {
		return []domain.Contact{}, nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: beginning transaction: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contacts (id, name, email, phone, picture_url)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: preparing insert: %w", domain.ErrStorage, err)
	}
	defer stmt.Close()

	stored := make([]domain.Contact, len(contacts))
	for i, c := range contacts {
		c.ID = uuid.New().String()
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Email, c.Phone, c.PictureURL); err != nil {
			return nil, fmt.Errorf("%w: inserting contact: %w", domain.ErrStorage, err)
		}
		stored[i] = c
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing insert: %w", domain.ErrStorage, err)
	}
	s.store.notify()
	return stored, nil
}

// Update replaces an existing contact's fields.
func (s *contactStore) Update(ctx context.Context, contact domain.Contact) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE contacts
		SET name = ?, email = ?, phone = ?, picture_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, contact.Name, contact.Email, contact.Phone, contact.PictureURL, contact.ID)
	if err != nil {
		return fmt.Errorf("%w: updating contact: %w", domain.ErrStorage, err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	s.store.notify()
	return nil
}

// Delete removes a contact.
func (s *contactStore) Delete(ctx context.Context, contact domain.Contact) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", contact.ID)
	if err != nil {
		return fmt.Errorf("%w: deleting contact: %w", domain.ErrStorage, err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	s.store.notify()
	return nil
}

// requireRow maps "no rows affected" to domain.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: reading affected rows: %w", domain.ErrStorage, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// dataVersion reads the connection's view of external commits.
func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	if err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("%w: reading data_version: %w", domain.ErrStorage, err)
	}
	return v, nil
}
