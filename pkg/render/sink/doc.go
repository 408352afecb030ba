// Package sink provides the document targets that card draw operations are
// replayed against.
//
// # Overview
//
// A [Sink] is a paged [draw.Surface]. The first page exists as soon as the
// sink is constructed; [Sink.NewPage] starts every following page, and
// [Sink.Finalize] writes the finished document exactly once.
//
// This package provides:
//
//   - PDF: print-ready output through gofpdf, in points
//   - JSON: the recorded draw calls, page by page, for inspection and tests
//   - PNG: a raster preview with all pages stacked vertically
//
// # Usage
//
//	s, err := sink.New(sink.FormatPDF, w, tpl.Page, sink.Options{Title: "Business cards"})
//	if err != nil {
//	    return err
//	}
//	draw.Replay(s, ops)
//	return s.Finalize()
//
// Sinks are stateful and single-writer. Calls must come from one goroutine
// in paint order.
package sink
