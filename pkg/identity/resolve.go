package identity

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Resolver looks up identity fields for a subject in an external directory.
// Implementations report inaccessible or deleted subjects with
// errors.ErrNotFound / errors.ErrAccessDenied from pkg/errors.
type Resolver interface {
	ResolveSubject(ctx context.Context, id SubjectID) (Fragment, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, id SubjectID) (Fragment, error)

// ResolveSubject implements Resolver.
func (f ResolverFunc) ResolveSubject(ctx context.Context, id SubjectID) (Fragment, error) {
	return f(ctx, id)
}

// ResolveOption configures a resolution pass.
type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	concurrency int
}

// WithConcurrency bounds how many lookups run at once. The merge is
// commutative per field, so out-of-order completion is safe. Values below 1
// fall back to sequential resolution.
func WithConcurrency(n int) ResolveOption {
	return func(cfg *resolveConfig) {
		cfg.concurrency = n
	}
}

// Resolve issues exactly one external lookup for every bare record and
// merges the returned fields under the fill-missing rule. A failed lookup
// leaves that record as an identifier-only entry and never aborts the pass;
// only context cancellation stops resolution early, and the directory is
// still a consistent snapshot when it does.
func (d *Directory) Resolve(ctx context.Context, resolver Resolver, opts ...ResolveOption) error {
	cfg := resolveConfig{concurrency: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}

	bare := d.Bare()
	if len(bare) == 0 {
		return nil
	}
	d.logger.Debug().Int("subjects", len(bare)).Int("concurrency", cfg.concurrency).Msg("Resolving bare records")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	var mu sync.Mutex
	for _, id := range bare {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frag, err := resolver.ResolveSubject(ctx, id)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				// Inaccessible subject: the record stays bare.
				d.logger.Debug().Stringer("subject", id).Err(err).Msg("Lookup failed, keeping bare record")
				return nil
			}
			frag.Subject = id
			frag.Source = SourceLookup
			mu.Lock()
			d.Fold(frag)
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
