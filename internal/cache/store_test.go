package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallard/rollcall/pkg/errors"
	"github.com/jmallard/rollcall/pkg/identity"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

type fakeSet struct {
	Name  string   `json:"name"`
	Emoji []string `json:"emoji"`
}

func TestStorePutGet(t *testing.T) {
	store := openStore(t)

	var missing fakeSet
	ok, err := store.GetStickerSet("gophers", time.Hour, &missing)
	require.NoError(t, err)
	assert.False(t, ok)

	want := fakeSet{Name: "gophers", Emoji: []string{"🎉", "🚀"}}
	require.NoError(t, store.PutStickerSet("gophers", want))

	var got fakeSet
	ok, err = store.GetStickerSet("gophers", time.Hour, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestStoreTTLExpiry(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.PutStickerSet("gophers", fakeSet{Name: "gophers"}))

	var got fakeSet
	// A tiny positive TTL has already elapsed by read time.
	time.Sleep(5 * time.Millisecond)
	ok, err := store.GetStickerSet("gophers", time.Nanosecond, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	// Zero TTL means no expiry.
	ok, err = store.GetStickerSet("gophers", 0, &got)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.bolt")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.PutStickerSet("gophers", fakeSet{Name: "gophers"}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer func() {
		_ = store.Close()
	}()

	var got fakeSet
	ok, err := store.GetStickerSet("gophers", 0, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "gophers", got.Name)
}

func TestCachingResolver(t *testing.T) {
	store := openStore(t)
	subject := identity.SubjectIDFromInt64(101)

	calls := 0
	inner := identity.ResolverFunc(func(_ context.Context, id identity.SubjectID) (identity.Fragment, error) {
		calls++
		return identity.Fragment{Handle: "alice", FirstName: "Alice"}, nil
	})

	resolver := NewResolver(store, inner, 0)

	frag, err := resolver.ResolveSubject(context.Background(), subject)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, subject, frag.Subject)
	assert.Equal(t, "alice", frag.Handle)

	// Second lookup is served from the store.
	frag, err = resolver.ResolveSubject(context.Background(), subject)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "alice", frag.Handle)
	assert.Equal(t, subject, frag.Subject)
}

func TestCachingResolverDoesNotCacheFailures(t *testing.T) {
	store := openStore(t)
	subject := identity.SubjectIDFromInt64(404)

	calls := 0
	inner := identity.ResolverFunc(func(_ context.Context, id identity.SubjectID) (identity.Fragment, error) {
		calls++
		if calls == 1 {
			return identity.Fragment{}, errors.NewNotFoundError("subject", id.String())
		}
		return identity.Fragment{Handle: "back"}, nil
	})

	resolver := NewResolver(store, inner, 0)

	_, err := resolver.ResolveSubject(context.Background(), subject)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	// The failure was not cached, so the retry reaches the inner resolver.
	frag, err := resolver.ResolveSubject(context.Background(), subject)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "back", frag.Handle)
}
