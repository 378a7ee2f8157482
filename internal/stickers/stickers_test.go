package stickers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmallard/rollcall/internal/cache"
	"github.com/jmallard/rollcall/pkg/errors"
)

type fakeFetcher struct {
	calls int
	set   *Set
	err   error
}

func (f *fakeFetcher) GetStickerSet(_ context.Context, _ string) (*Set, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

type fakeSender struct {
	chat   string
	fileID string
	calls  int
}

func (s *fakeSender) SendSticker(_ context.Context, chat, fileID string) error {
	s.calls++
	s.chat = chat
	s.fileID = fileID
	return nil
}

func openStore(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func gopherSet() *Set {
	return &Set{
		Name:  "GopherPack",
		Title: "Gophers",
		Stickers: []Sticker{
			{FileID: "file-wave", Emoji: "👋"},
			{FileID: "file-party", Emoji: "🎉"},
			{FileID: "file-party-2", Emoji: "🎉"},
		},
	}
}

func TestPickByEmoji(t *testing.T) {
	set := gopherSet()

	st, ok := set.PickByEmoji("🎉")
	require.True(t, ok)
	// First match wins when the emoji repeats.
	assert.Equal(t, "file-party", st.FileID)

	_, ok = set.PickByEmoji("🚀")
	assert.False(t, ok)
}

func TestCatalogSetCaches(t *testing.T) {
	fetch := &fakeFetcher{set: gopherSet()}
	catalog := NewCatalog(openStore(t), fetch)

	set, err := catalog.Set(context.Background(), "GopherPack")
	require.NoError(t, err)
	assert.Equal(t, 1, fetch.calls)
	assert.Equal(t, "Gophers", set.Title)

	// Second request is a cache hit.
	set, err = catalog.Set(context.Background(), "GopherPack")
	require.NoError(t, err)
	assert.Equal(t, 1, fetch.calls)
	assert.Len(t, set.Stickers, 3)
}

func TestCatalogSetValidation(t *testing.T) {
	catalog := NewCatalog(openStore(t), &fakeFetcher{set: gopherSet()})
	_, err := catalog.Set(context.Background(), "")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestCatalogSetFetchError(t *testing.T) {
	fetch := &fakeFetcher{err: errors.NewNotFoundError("sticker set", "Missing")}
	catalog := NewCatalog(openStore(t), fetch)

	_, err := catalog.Set(context.Background(), "Missing")
	assert.True(t, errors.IsNotFound(err))

	// Errors are not cached.
	_, _ = catalog.Set(context.Background(), "Missing")
	assert.Equal(t, 2, fetch.calls)
}

func TestCatalogSend(t *testing.T) {
	catalog := NewCatalog(openStore(t), &fakeFetcher{set: gopherSet()})
	sender := &fakeSender{}

	require.NoError(t, catalog.Send(context.Background(), sender, "@gophers", "GopherPack", "👋"))
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "@gophers", sender.chat)
	assert.Equal(t, "file-wave", sender.fileID)
}

func TestCatalogSendUnknownEmoji(t *testing.T) {
	catalog := NewCatalog(openStore(t), &fakeFetcher{set: gopherSet()})
	sender := &fakeSender{}

	err := catalog.Send(context.Background(), sender, "@gophers", "GopherPack", "🚀")
	assert.True(t, errors.IsNotFound(err))
	assert.Zero(t, sender.calls)
}
