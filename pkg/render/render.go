package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardpress/pkg/asset"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/card"
	"github.com/matzehuels/cardpress/pkg/render/draw"
	"github.com/matzehuels/cardpress/pkg/render/layout"
	"github.com/matzehuels/cardpress/pkg/render/sink"
	"github.com/matzehuels/cardpress/pkg/template"
)

// Option configures [Render].
type Option func(*assembler)

// WithAssets sets the image provider. Without one, cards are drawn without
// logos or QR codes.
func WithAssets(a card.Assets) Option { return func(r *assembler) { r.assets = a } }

// WithLogger sets the logger for page progress and card warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *assembler) {
		if l != nil {
			r.logger = l
		}
	}
}

// prefetcher is implemented by asset providers that can load ahead.
type prefetcher interface {
	Prefetch(ctx context.Context, reqs []asset.Request) error
}

type assembler struct {
	assets card.Assets
	logger *log.Logger
}

// Warning is a card warning located in the document.
type Warning struct {
	card.Warning
	Page int    // 1-based page number
	Slot int    // 0-based position on the page
	Card int    // 1-based position in the run
	Name string // record name
}

// String formats the warning for logs and reports.
func (w Warning) String() string {
	return fmt.Sprintf("card %d (%s) on page %d: %s", w.Card, w.Name, w.Page, w.Warning)
}

// Result summarises a finished document.
type Result struct {
	Pages    int
	Cards    int
	Warnings []Warning
	Duration time.Duration
}

// Render draws pages onto s and finalizes it. The first page is the sink's
// initial page; each later page starts with one NewPage call. Card warnings
// never fail the run. A page holding more records than the grid has slots
// is an INVALID_CONFIG error, and a sink that cannot be finalized yields an
// IO_ERROR.
func Render(ctx context.Context, pages []layout.Page, tpl template.Template, s sink.Sink, opts ...Option) (*Result, error) {
	start := time.Now()
	r := assembler{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&r)
	}

	grid := layout.ComputeGrid(tpl)
	if len(grid) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "template grid has no slots")
	}
	for _, p := range pages {
		if len(p.Records) > len(grid) {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"page %d holds %d cards but the grid has %d slots", p.Number, len(p.Records), len(grid))
		}
	}

	if err := r.prefetch(ctx, pages, tpl); err != nil {
		return nil, err
	}

	compositor := card.New(tpl, r.assets)
	res := &Result{}
	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			s.NewPage()
		}
		for _, slot := range p.Bind(grid) {
			ops, warnings := compositor.Compose(ctx, slot.Rect, slot.Record)
			draw.Replay(s, ops)
			res.Cards++
			for _, w := range warnings {
				located := Warning{Warning: w, Page: p.Number, Slot: slot.Index, Card: res.Cards, Name: slot.Record.Name}
				r.logger.Warn("card degraded", "card", located.Card, "name", located.Name, "page", located.Page,
					"layer", w.Layer, "error", w.Err)
				res.Warnings = append(res.Warnings, located)
			}
		}
		res.Pages++
		r.logger.Debug("rendered page", "page", p.Number, "cards", len(p.Records))
	}

	if err := s.Finalize(); err != nil {
		if errors.Is(err, errors.ErrCodeIO) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "finalize document")
	}
	res.Duration = time.Since(start)
	return res, nil
}

func (r *assembler) prefetch(ctx context.Context, pages []layout.Page, tpl template.Template) error {
	p, ok := r.assets.(prefetcher)
	if !ok {
		return nil
	}
	var reqs []asset.Request
	for _, page := range pages {
		for _, rec := range page.Records {
			reqs = append(reqs, card.Requests(tpl, rec)...)
		}
	}
	if len(reqs) == 0 {
		return nil
	}
	r.logger.Debug("prefetching images", "requests", len(reqs))
	return p.Prefetch(ctx, reqs)
}
