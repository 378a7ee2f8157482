package cache

import (
	"context"
	"time"

	"github.com/jmallard/rollcall/pkg/identity"
)

// DefaultIdentityTTL is how long a cached lookup answer stays valid.
// Handles and names drift slowly; a day keeps repeat runs cheap without
// serving stale identities for long.
const DefaultIdentityTTL = 24 * time.Hour

// Resolver wraps an identity.Resolver with a read-through cache so repeat
// runs do not hit the remote directory for subjects it has already
// answered. Failed lookups are not cached; a subject that was inaccessible
// yesterday may be visible today.
type Resolver struct {
	store *Store
	next  identity.Resolver
	ttl   time.Duration
}

// NewResolver creates a caching resolver in front of next. A ttl of 0 uses
// DefaultIdentityTTL.
func NewResolver(store *Store, next identity.Resolver, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = DefaultIdentityTTL
	}
	return &Resolver{store: store, next: next, ttl: ttl}
}

// ResolveSubject implements identity.Resolver.
func (r *Resolver) ResolveSubject(ctx context.Context, id identity.SubjectID) (identity.Fragment, error) {
	var cached identity.Fragment
	if ok, _ := r.store.getJSON(identitiesBucket, id.String(), r.ttl, &cached); ok {
		cached.Subject = id
		return cached, nil
	}

	frag, err := r.next.ResolveSubject(ctx, id)
	if err != nil {
		return identity.Fragment{}, err
	}
	frag.Subject = id
	// Best effort: a failed cache write only costs a future lookup.
	_ = r.store.putJSON(identitiesBucket, id.String(), frag)
	return frag, nil
}
