package asset

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Prefetch loads every request in parallel so later Load calls hit the
// memo. Individual load failures are kept for Load to report; only context
// cancellation is returned.
func (l *Loader) Prefetch(ctx context.Context, reqs []Request) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	seen := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		req := req
		key := req.key()
		if seen[key] {
			continue
		}
		seen[key] = true

		g.Go(func() error {
			_, err := l.Load(ctx, req)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				l.logger.Debug("prefetch failed", "kind", req.Kind, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}
