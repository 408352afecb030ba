// Package pipeline provides the card-sheet pipeline shared by the CLI and the
// HTTP API.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Validate: turn decoded JSON into validated [cards.Record] values,
//     reporting every failing card at once
//  2. Render: repeat records for the duplicate option, paginate them onto
//     the template grid, compose every card and write one document
//
// Rendered documents are cached under a key covering the records, the
// resolved template, the format, the duplicate count and the fingerprints of
// every logo file, so editing any of them produces a fresh document.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	raw, err := io.ImportRecords("cards.json")
//	result, err := runner.Execute(ctx, raw, pipeline.Options{
//	    Format:  pipeline.FormatPDF,
//	    BaseDir: ".",
//	})
//	os.WriteFile("cards.pdf", result.Artifact, 0o644)
//
// Stages can also run on their own:
//
//	records, err := runner.Validate(ctx, raw)
//	result, err := runner.Render(ctx, records, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cardpress/pkg/buildinfo"
	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render"
	"github.com/matzehuels/cardpress/pkg/render/sink"
	"github.com/matzehuels/cardpress/pkg/template"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFormat is the output format when none is given.
	DefaultFormat = FormatPDF

	// DefaultDuplicate renders every record once.
	DefaultDuplicate = 1

	// MaxDuplicate bounds the duplicate option.
	MaxDuplicate = 100

	// MaxPNGPages bounds PNG previews, which hold every page raster in
	// memory until the sheet is stitched.
	MaxPNGPages = 20

	// DefaultTitle is the PDF title when none is given.
	DefaultTitle = "Business Cards"
)

// Format constants for output formats.
const (
	FormatPDF  = sink.FormatPDF
	FormatJSON = sink.FormatJSON
	FormatPNG  = sink.FormatPNG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatJSON: true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Format    string  `json:"format,omitempty"`
	Duplicate int     `json:"duplicate,omitempty"`
	Scale     float64 `json:"scale,omitempty"` // PNG pixels per point
	Title     string  `json:"title,omitempty"`
	Author    string  `json:"author,omitempty"`
	NoCache   bool    `json:"no_cache,omitempty"`

	// Runtime options (not serialized)
	Template   *template.Template `json:"-"` // nil means template.Default()
	BaseDir    string             `json:"-"` // directory logo paths are relative to
	DocumentID string             `json:"-"` // generated when empty
	Logger     *log.Logger        `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifact is the rendered document.
	Artifact []byte

	// Format is the artifact format.
	Format string

	// Records are the validated input records, before duplication.
	Records []cards.Record

	// Info describes the sheet layout of the document.
	Info Info

	// Warnings lists degraded cards. Empty on a cache hit.
	Warnings []render.Warning

	// Stats contains timing information.
	Stats Stats

	// CacheHit reports whether the artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ValidateTime time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pdf, json, png)", format)
	}
	return nil
}

// ValidateDuplicate checks that a duplicate count is within range.
func ValidateDuplicate(n int) error {
	if n < 1 || n > MaxDuplicate {
		return errors.New(errors.ErrCodeInvalidInput, "duplicate must be between 1 and %d, got %d", MaxDuplicate, n)
	}
	return nil
}

// ValidatePageCount rejects documents the format cannot hold.
func ValidatePageCount(format string, pages int) error {
	if format == FormatPNG && pages > MaxPNGPages {
		return errors.New(errors.ErrCodeInvalidInput,
			"png output is limited to %d pages, got %d; use pdf or fewer cards", MaxPNGPages, pages)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Duplicate == 0 {
		o.Duplicate = DefaultDuplicate
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.DocumentID == "" {
		o.DocumentID = uuid.NewString()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Template == nil {
		tpl := template.Default()
		o.Template = &tpl
	}

	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := ValidateDuplicate(o.Duplicate); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative, got %g", o.Scale)
	}
	if err := o.Template.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for a document of records.
// assets holds the logo fingerprints in card order.
func (o *Options) ArtifactKeyOpts(records []cards.Record, assets []string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		RecordsHash:  hashRecords(records),
		TemplateHash: cache.Hash(o.Template.Fingerprint()),
		Format:       o.Format,
		Duplicate:    o.Duplicate,
		Assets:       assets,
	}
	switch o.Format {
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatPDF:
		opts.Title, opts.Author = o.Title, o.Author
	}
	return opts
}

func (o *Options) sinkOptions() sink.Options {
	return sink.Options{
		Title:      o.Title,
		Author:     o.Author,
		DocumentID: o.DocumentID,
		Creator:    buildinfo.Producer(),
		Scale:      o.Scale,
	}
}
