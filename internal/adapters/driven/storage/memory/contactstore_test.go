package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agenda/internal/core/domain"
)

func names(contacts []domain.Contact) []string {
	out := make([]string, len(contacts))
	for i, c := range contacts {
		out[i] = c.Name
	}
	return out
}

func TestContactStore_InsertManyAssignsIDs(t *testing.T) {
	store := NewContactStore()
	ctx := context.Background()

	stored, err := store.InsertMany(ctx, []domain.Contact{
		{ID: "ignored", Name: "Zoe"},
		{Name: "Adam"},
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)

	assert.NotEqual(t, "ignored", stored[0].ID)
	assert.NotEmpty(t, stored[1].ID)
	assert.NotEqual(t, stored[0].ID, stored[1].ID)
	assert.Equal(t, 2, store.Count())
}

func TestContactStore_ListOrdersByNameThenInsertion(t *testing.T) {
	store := NewContactStore()
	ctx := context.Background()

	first, err := store.InsertMany(ctx, []domain.Contact{{Name: "Bob", Phone: "1"}, {Name: "Ann"}})
	require.NoError(t, err)
	second, err := store.InsertMany(ctx, []domain.Contact{{Name: "Bob", Phone: "2"}})
	require.NoError(t, err)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Bob", "Bob"}, names(list))
	assert.Equal(t, first[0].ID, list[1].ID)
	assert.Equal(t, second[0].ID, list[2].ID)
}

func TestContactStore_GetUpdateDelete(t *testing.T) {
	store := NewContactStore()
	ctx := context.Background()

	stored, err := store.InsertMany(ctx, []domain.Contact{{Name: "Ann", Phone: "555"}})
	require.NoError(t, err)
	c := stored[0]

	got, err := store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, *got)

	c.Name = "Anna"
	require.NoError(t, store.Update(ctx, c))
	got, err = store.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)

	require.NoError(t, store.Delete(ctx, c))
	_, err = store.Get(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContactStore_MissingRow(t *testing.T) {
	store := NewContactStore()
	ctx := context.Background()
	missing := domain.Contact{ID: "nope", Name: "Ghost"}

	assert.ErrorIs(t, store.Update(ctx, missing), domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, missing), domain.ErrNotFound)
}

func TestContactStore_InsertManyEmpty(t *testing.T) {
	store := NewContactStore()

	stored, err := store.InsertMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Zero(t, store.Count())
}

func TestContactStore_WatchEmitsCurrentThenChanges(t *testing.T) {
	store := NewContactStore()
	ctx := context.Background()

	sub := store.Watch().Subscribe()
	defer sub.Close()

	select {
	case list := <-sub.C():
		assert.Empty(t, list)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial emission")
	}

	_, err := store.InsertMany(ctx, []domain.Contact{{Name: "Ann"}})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case list := <-sub.C():
			return len(list) == 1 && list[0].Name == "Ann"
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
