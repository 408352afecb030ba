package sink

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/draw"
	"github.com/matzehuels/cardpress/pkg/template"
)

// Sink is a paged drawing surface that produces one document.
type Sink interface {
	draw.Surface
	// NewPage starts a new page. The first page exists from construction.
	NewPage()
	// Finalize writes the document. It must be called exactly once.
	Finalize() error
}

// Output formats.
const (
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatPNG  = "png"
)

// Formats lists the supported output formats.
var Formats = []string{FormatPDF, FormatJSON, FormatPNG}

// Options carries document metadata and format-specific settings.
type Options struct {
	Title      string
	Author     string
	DocumentID string  // recorded in the PDF keywords
	Creator    string  // producing application; "cardpress" when empty
	Scale      float64 // PNG pixels per point; 0 means 2
}

// New returns a sink of the given format writing to w. An unknown format is
// an INVALID_FORMAT error.
func New(format string, w io.Writer, page template.Page, opts Options) (Sink, error) {
	switch format {
	case FormatPDF:
		creator := opts.Creator
		if creator == "" {
			creator = "cardpress"
		}
		pdfOpts := []PDFOption{WithCreator(creator)}
		if opts.Title != "" {
			pdfOpts = append(pdfOpts, WithTitle(opts.Title))
		}
		if opts.Author != "" {
			pdfOpts = append(pdfOpts, WithAuthor(opts.Author))
		}
		if opts.DocumentID != "" {
			pdfOpts = append(pdfOpts, WithDocumentID(opts.DocumentID))
		}
		return NewPDF(w, page.Width, page.Height, pdfOpts...), nil
	case FormatJSON:
		return NewJSON(w, page.Width, page.Height), nil
	case FormatPNG:
		var pngOpts []PNGOption
		if opts.Scale > 0 {
			pngOpts = append(pngOpts, WithScale(opts.Scale))
		}
		return NewPNG(w, page.Width, page.Height, pngOpts...)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat,
		"invalid format %q (must be one of: %s)", format, strings.Join(Formats, ", "))
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Extension returns the file extension of a format, with the dot.
func Extension(format string) string {
	return fmt.Sprintf(".%s", format)
}
