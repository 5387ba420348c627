package images

import (
	"context"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/api"
	"golang.org/x/sync/errgroup"
)

// Options bounds photo resolution.
type Options struct {
	// Concurrency is the number of fetches in flight; values below 1 mean 1.
	Concurrency int `yaml:"concurrency" json:"concurrency"`
	// PerImageTimeout bounds one reference, 0 for no bound.
	PerImageTimeout time.Duration `yaml:"perImageTimeout" json:"perImageTimeout"`
	// TotalTimeout bounds the whole batch, 0 for no bound.
	TotalTimeout time.Duration `yaml:"totalTimeout" json:"totalTimeout"`
}

func DefaultOptions() Options {
	return Options{Concurrency: 4, PerImageTimeout: 15 * time.Second, TotalTimeout: 2 * time.Minute}
}

// Prefetch resolves refs concurrently. The returned slice is indexed like
// refs regardless of completion order; failures, including timeouts, are
// reported per result and never cancel the other fetches.
func Prefetch(ctx context.Context, r Resolver, refs []api.ImageRef, opts Options) []Result {
	results := make([]Result, len(refs))
	if len(refs) == 0 {
		return results
	}

	if opts.TotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TotalTimeout)
		defer cancel()
	}

	var g errgroup.Group
	g.SetLimit(max(1, opts.Concurrency))
	start := time.Now()

	for i, ref := range refs {
		g.Go(func() error {
			ictx := ctx
			if opts.PerImageTimeout > 0 {
				var cancel context.CancelFunc
				ictx, cancel = context.WithTimeout(ctx, opts.PerImageTimeout)
				defer cancel()
			}
			results[i] = Load(ictx, r, ref)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
			logger.Debugf("photo %s: %v", res.Ref, res.Err)
		}
	}
	logger.Debugf("resolved %d photos (%d failed) in %s", len(refs), failed, time.Since(start))
	return results
}
