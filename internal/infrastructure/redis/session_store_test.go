package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/pkg/config"
)

// Requiere un Redis real: TEST_REDIS_ADDR=localhost:6379 go test ./internal/infrastructure/redis/...
func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client)
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	s := &entity.Session{
		ID:          uuid.NewString(),
		UserID:      "u1",
		Role:        entity.RoleVendedor,
		LocationIDs: []string{"STR002"},
		Permissions: []string{"/sales"},
		ExpiresAt:   time.Now().Add(time.Minute).UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.UserID, got.UserID)
	assert.Equal(t, s.LocationIDs, got.LocationIDs)
	assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, store.Delete(ctx, s.ID))
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_RejectsExpired(t *testing.T) {
	store := newTestStore(t)
	err := store.Save(context.Background(), &entity.Session{ID: uuid.NewString(), ExpiresAt: time.Now().Add(-time.Second)})
	assert.Error(t, err)
}
