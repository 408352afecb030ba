// Package pkg provides the core libraries for cardpress business-card sheets.
//
// # Overview
//
// Cardpress turns a JSON list of people into print-ready A4 sheets of
// business cards. Each sheet carries a grid of equally sized cards, with
// optional logos, QR codes and crop marks. The pkg directory is organized
// into four areas:
//
//  1. Domain: [cards] (records and validation), [template] (page geometry
//     and styling)
//  2. Rendering: [render] and its subpackages (layout, card composition,
//     drawing commands, output sinks)
//  3. Infrastructure: [cache], [asset], [io], [fonts], [observability]
//  4. Orchestration: [pipeline] (validate, render, cache) and [server]
//     (HTTP API)
//
// # Architecture
//
// The data flow for one document:
//
//	cards.json
//	     ↓
//	[cards] validate every record, collecting all issues
//	     ↓
//	[render/layout] duplicate and paginate onto the template grid
//	     ↓
//	[render/card] compose each card into drawing commands
//	     ↓
//	[render/sink] PDF, PNG or JSON
//
// # Quick Start
//
//	raw, _ := io.ImportRecords("cards.json")
//	records, err := pipeline.ValidateRecords(ctx, raw)
//	if err != nil {
//	    // *errors.ValidationError lists every failing card
//	}
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Render(ctx, records, pipeline.Options{
//	    Format:    pipeline.FormatPDF,
//	    Duplicate: 10,
//	})
//	os.WriteFile("cards.pdf", result.Artifact, 0o644)
//
// # Main Packages
//
// [cards] - The card record, field aliases, validation rules and the
// sample records.
//
// [template] - Page size, grid, margins, fonts, colours, gradients, QR and
// crop-mark settings. Loaded from TOML and adjusted with overrides.
//
// [render/layout] - Grid geometry and pagination. Duplicates every record
// and splits the result into pages that fill row by row.
//
// [render/card] - Composes one card: background, logo, QR code, text
// blocks with line fitting.
//
// [render/draw] - The drawing command list shared by every sink, so a
// page can be recorded once and replayed.
//
// [render/sink] - Output formats: PDF (gofpdf), PNG preview (gg) and a
// JSON recording for tests and tooling.
//
// [asset] - Loads logos and generates QR images, cached per file
// fingerprint.
//
// [cache] - File, Redis and null caches with namespaced keys.
//
// [pipeline] - The validate and render stages shared by the CLI and the
// HTTP API.
//
// [server] - The chi-based HTTP API.
//
// # Testing
//
//	go test ./pkg/...
package pkg
