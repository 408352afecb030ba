package pipeline

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/matzehuels/cardpress/pkg/asset"
	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/render"
	"github.com/matzehuels/cardpress/pkg/render/layout"
	"github.com/matzehuels/cardpress/pkg/render/sink"
)

// RenderDocument paginates records and renders them in opts.Format using
// loader for images. records must already be duplicated.
func RenderDocument(ctx context.Context, records []cards.Record, opts Options, loader *asset.Loader) ([]byte, *render.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	tpl := *opts.Template

	pages, err := layout.Paginate(records, tpl.Grid.Capacity())
	if err != nil {
		return nil, nil, err
	}
	if err := ValidatePageCount(opts.Format, len(pages)); err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	s, err := sink.New(opts.Format, &buf, tpl.Page, opts.sinkOptions())
	if err != nil {
		return nil, nil, err
	}

	renderOpts := []render.Option{render.WithLogger(opts.Logger)}
	if loader != nil {
		renderOpts = append(renderOpts, render.WithAssets(loader))
	}
	res, err := render.Render(ctx, pages, tpl, s, renderOpts...)
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), res, nil
}

// hashRecords hashes the canonical JSON of records.
func hashRecords(records []cards.Record) string {
	data, _ := json.Marshal(records)
	return cache.Hash(data)
}

// assetFingerprints returns the fingerprint of every logo in card order.
func assetFingerprints(records []cards.Record, loader *asset.Loader) []string {
	var out []string
	for _, r := range records {
		if r.LogoPath != "" {
			out = append(out, loader.Fingerprint(r.LogoPath))
		}
	}
	return out
}
