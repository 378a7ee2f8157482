// Package stickers picks and sends stickers from named sets, caching set
// catalogs locally so repeated sends do not refetch them.
package stickers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jmallard/rollcall/internal/cache"
	"github.com/jmallard/rollcall/pkg/errors"
	"github.com/jmallard/rollcall/pkg/logging"
)

// DefaultSetTTL is how long a cached sticker set stays valid. Sets change
// rarely; a week is generous.
const DefaultSetTTL = 7 * 24 * time.Hour

// Sticker is one sticker inside a set.
type Sticker struct {
	FileID string `json:"file_id"`
	Emoji  string `json:"emoji,omitempty"`
}

// Set is a named sticker set.
type Set struct {
	Name     string    `json:"name"`
	Title    string    `json:"title,omitempty"`
	Stickers []Sticker `json:"stickers"`
}

// PickByEmoji returns the first sticker associated with the given emoji.
func (s *Set) PickByEmoji(emoji string) (Sticker, bool) {
	for _, st := range s.Stickers {
		if st.Emoji == emoji {
			return st, true
		}
	}
	return Sticker{}, false
}

// Fetcher retrieves a sticker set from the remote service.
type Fetcher interface {
	GetStickerSet(ctx context.Context, name string) (*Set, error)
}

// Sender delivers one sticker to a chat.
type Sender interface {
	SendSticker(ctx context.Context, chat string, fileID string) error
}

// Catalog serves sticker sets through the local cache.
type Catalog struct {
	store  *cache.Store
	fetch  Fetcher
	ttl    time.Duration
	logger *zerolog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithSetTTL overrides the cache lifetime for sticker sets.
func WithSetTTL(ttl time.Duration) CatalogOption {
	return func(c *Catalog) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the catalog logger.
func WithLogger(logger *zerolog.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCatalog creates a catalog backed by store and fetch.
func NewCatalog(store *cache.Store, fetch Fetcher, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		store:  store,
		fetch:  fetch,
		ttl:    DefaultSetTTL,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set returns the sticker set with the given name, from cache when fresh.
func (c *Catalog) Set(ctx context.Context, name string) (*Set, error) {
	if name == "" {
		return nil, errors.NewValidationError("set", name, "sticker set name required")
	}

	var cached Set
	if ok, _ := c.store.GetStickerSet(name, c.ttl, &cached); ok {
		c.logger.Debug().Str("set", name).Msg("Sticker set served from cache")
		return &cached, nil
	}

	set, err := c.fetch.GetStickerSet(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := c.store.PutStickerSet(name, set); err != nil {
		c.logger.Warn().Str("set", name).Err(err).Msg("Could not cache sticker set")
	}
	return set, nil
}

// Send looks up the set, picks the sticker for emoji, and sends it.
func (c *Catalog) Send(ctx context.Context, sender Sender, chatRef, setName, emoji string) error {
	set, err := c.Set(ctx, setName)
	if err != nil {
		return err
	}
	sticker, ok := set.PickByEmoji(emoji)
	if !ok {
		return errors.NewNotFoundError("sticker for emoji "+emoji, setName)
	}
	c.logger.Info().Str("chat", chatRef).Str("set", setName).Str("emoji", emoji).Msg("Sending sticker")
	return sender.SendSticker(ctx, chatRef, sticker.FileID)
}
