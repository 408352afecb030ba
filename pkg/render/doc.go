// Package render assembles card sheets into documents.
//
// # Overview
//
// Rendering is split across subpackages that each do one job:
//
//   - [draw]: rectangles, colors and the replayable draw operations
//   - [layout]: the card grid of a page and pagination of records
//   - [card]: the compositor turning one record into draw operations
//   - [sink]: PDF, JSON and PNG document targets
//
// [Render] ties them together. For each page it binds records to grid
// slots by position, composes every card and replays its operations on the
// sink, then finalizes the sink exactly once:
//
//	pages, err := layout.Paginate(records, tpl.Grid.Capacity())
//	s, err := sink.New(sink.FormatPDF, w, tpl.Page, sink.Options{})
//	res, err := render.Render(ctx, pages, tpl, s, render.WithAssets(loader))
//
// The sink is written from one goroutine in page and card order. Only image
// loading runs ahead in parallel, when the asset provider supports
// prefetching.
//
// [draw]: github.com/matzehuels/cardpress/pkg/render/draw
// [layout]: github.com/matzehuels/cardpress/pkg/render/layout
// [card]: github.com/matzehuels/cardpress/pkg/render/card
// [sink]: github.com/matzehuels/cardpress/pkg/render/sink
package render
