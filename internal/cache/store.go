// Package cache provides the local bolt-backed store shared by the sticker
// catalog and the caching resolver. The reconciliation engine itself never
// touches it: a run's directory always starts empty, and the cache only
// memoizes answers from the remote service.
package cache

import (
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"

	"github.com/jmallard/rollcall/pkg/errors"
)

// The store is divided into two buckets.
var (
	stickerSetsBucket = []byte("sticker_sets") // set name -> entry(stickers.Set)
	identitiesBucket  = []byte("identities")   // subject id -> entry(identity.Fragment)
)

// entry wraps a cached payload with its storage time, for TTL checks.
type entry struct {
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// Store is a bolt database holding rollcall's local caches.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the store at path and ensures all buckets
// exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(stickerSetsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(identitiesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("create", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetStickerSet loads a cached sticker set into v. Returns false on a miss
// or when the entry is older than ttl.
func (s *Store) GetStickerSet(name string, ttl time.Duration, v any) (bool, error) {
	return s.getJSON(stickerSetsBucket, name, ttl, v)
}

// PutStickerSet caches a sticker set under its name.
func (s *Store) PutStickerSet(name string, v any) error {
	return s.putJSON(stickerSetsBucket, name, v)
}

// putJSON stores v under key, stamped with the current time.
func (s *Store) putJSON(bucket []byte, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.WrapParse("json", key, err)
	}
	value, err := json.Marshal(entry{StoredAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return errors.WrapParse("json", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), value)
	})
}

// getJSON loads the value under key into v. When ttl is positive, entries
// older than ttl are treated as absent. Returns false when the key is
// missing or stale.
func (s *Store) getJSON(bucket []byte, key string, ttl time.Duration, v any) (bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if value := tx.Bucket(bucket).Get([]byte(key)); value != nil {
			raw = append([]byte(nil), value...)
		}
		return nil
	})
	if err != nil {
		return false, errors.WrapIO("read", key, err)
	}
	if raw == nil {
		return false, nil
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		// A corrupt entry behaves like a miss; the caller refetches.
		return false, nil
	}
	if ttl > 0 && time.Since(e.StoredAt) > ttl {
		return false, nil
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return false, nil
	}
	return true, nil
}
