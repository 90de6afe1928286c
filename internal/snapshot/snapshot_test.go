package snapshot

import (
	"context"
	"testing"
	"time"

	"ticketdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "formState:abc", Key("abc"))
}

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "s1", Snapshot{EventID: "ev-1", Form: models.RegistrationForm{Email: "first@example.com"}}))
	require.NoError(t, store.Save(ctx, "s1", Snapshot{EventID: "ev-1", Form: models.RegistrationForm{Email: "second@example.com"}}))

	snap, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "ev-1", snap.EventID)
	assert.Equal(t, "second@example.com", snap.Form.Email)

	snap.Form.Email = "mutated@example.com"
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", again.Form.Email)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "s1", Snapshot{Form: models.RegistrationForm{FirstName: "Ana"}}))

	now = now.Add(30 * time.Second)
	_, err := store.Load(ctx, "s1")
	assert.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}
