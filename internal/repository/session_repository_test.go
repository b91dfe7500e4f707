package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siakad-cli/internal/session"
)

func exerciseStore(t *testing.T, store session.Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "token", "t1"))
	require.NoError(t, store.Set(ctx, "user", `{"username":"admin1"}`))

	value, ok, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", value)

	require.NoError(t, store.Delete(ctx, "token", "user"))
	_, ok, err = store.Get(ctx, "user")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySessionRepository(t *testing.T) {
	store := NewMemorySessionRepository()
	exerciseStore(t, store)
	assert.Equal(t, 0, store.Len())
}

func TestFileSessionRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileSessionRepository(path, nil)
	exerciseStore(t, store)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file is removed once empty")

	require.NoError(t, store.Set(context.Background(), "token", "t1"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened := NewFileSessionRepository(path, nil)
	value, ok, err := reopened.Get(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", value)
}

func TestFileSessionRepositoryCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	ctx := context.Background()
	store := NewFileSessionRepository(path, nil)

	_, _, err := store.Get(ctx, "token")
	require.Error(t, err)

	sess := session.New(store, nil)
	require.Error(t, sess.Restore(ctx))
	assert.Equal(t, session.StateAnonymous, sess.State())

	sess.Clear(ctx)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "logout must remove the unreadable file")

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	require.NoError(t, sess.Establish(ctx, "t1", adminUser))

	reopened := session.New(NewFileSessionRepository(path, nil), nil)
	require.NoError(t, reopened.Restore(ctx))
	assert.True(t, reopened.Authenticated())
	assert.Equal(t, "t1", reopened.Token())
}

func TestRedisSessionRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisSessionRepository(client, "siakad:session:", nil)
	require.NoError(t, store.Set(context.Background(), "token", "t1"))
	stored, err := mr.Get("siakad:session:token")
	require.NoError(t, err)
	assert.Equal(t, "t1", stored)
	assert.Equal(t, 0, int(mr.TTL("siakad:session:token")))
	require.NoError(t, store.Delete(context.Background(), "token"))

	exerciseStore(t, store)
	require.NoError(t, store.Delete(context.Background()))
}

func TestRedisSessionRepositoryUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, _, err = NewRedisSessionRepository(client, "p:", nil).Get(context.Background(), "token")
	require.Error(t, err)
}

func TestSessionRoundTripThroughFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	first := session.New(NewFileSessionRepository(path, nil), nil)
	require.NoError(t, first.Restore(context.Background()))
	assert.Equal(t, session.StateAnonymous, first.State())

	require.NoError(t, first.Establish(context.Background(), "t1", adminUser))

	second := session.New(NewFileSessionRepository(path, nil), nil)
	require.NoError(t, second.Restore(context.Background()))
	assert.True(t, second.Authenticated())
	assert.Equal(t, "t1", second.Token())
}
