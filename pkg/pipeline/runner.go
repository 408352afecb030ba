package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardpress/pkg/asset"
	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/observability"
	"github.com/matzehuels/cardpress/pkg/render/layout"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete validate → render pipeline on decoded JSON.
func (r *Runner) Execute(ctx context.Context, raw any, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	records, err := r.Validate(ctx, raw)
	if err != nil {
		return nil, err
	}
	validateTime := time.Since(start)

	result, err := r.Render(ctx, records, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ValidateTime = validateTime
	return result, nil
}

// Validate runs the validation stage.
func (r *Runner) Validate(ctx context.Context, raw any) ([]cards.Record, error) {
	records, err := ValidateRecords(ctx, raw)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("validated cards", "count", len(records))
	return records, nil
}

// Render runs the render stage on validated records, serving the document
// from the cache when an identical one was rendered before. Documents with
// degraded cards are not cached.
func (r *Runner) Render(ctx context.Context, records []cards.Record, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "at least one card is required")
	}

	expanded := layout.Repeat(records, opts.Duplicate)
	result := &Result{
		Format:  opts.Format,
		Records: records,
		Info:    Describe(len(expanded), *opts.Template),
	}
	if err := ValidatePageCount(opts.Format, result.Info.Pages); err != nil {
		return nil, err
	}

	loader := asset.NewLoader(
		asset.WithBaseDir(opts.BaseDir),
		asset.WithDPI(opts.Template.Card.Logo.DPI),
		asset.WithCache(r.Cache, r.Keyer),
		asset.WithLogger(opts.Logger),
	)
	cacheKey := r.Keyer.ArtifactKey(opts.ArtifactKeyOpts(records, assetFingerprints(records, loader)))
	hooks := observability.Cache()

	if !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact")
			r.Logger.Debug("document served from cache", "format", opts.Format)
			result.Artifact = data
			result.CacheHit = true
			return result, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	pipelineHooks := observability.Pipeline()
	pipelineHooks.OnRenderStart(ctx, opts.Format, len(expanded))
	start := time.Now()
	data, res, err := RenderDocument(ctx, expanded, opts, loader)
	result.Stats.RenderTime = time.Since(start)
	if err != nil {
		pipelineHooks.OnRenderComplete(ctx, opts.Format, 0, 0, result.Stats.RenderTime, err)
		return nil, err
	}
	pipelineHooks.OnRenderComplete(ctx, opts.Format, res.Pages, len(res.Warnings), result.Stats.RenderTime, nil)

	result.Artifact = data
	result.Warnings = res.Warnings
	r.Logger.Info("rendered document",
		"format", opts.Format,
		"pages", res.Pages,
		"cards", res.Cards,
		"warnings", len(res.Warnings),
		"duration", result.Stats.RenderTime)

	if !opts.NoCache && len(res.Warnings) == 0 {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
