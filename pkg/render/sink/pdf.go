package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/draw"
)

// PDFOption configures a [PDF] sink.
type PDFOption func(*PDF)

// WithTitle sets the document title.
func WithTitle(s string) PDFOption { return func(p *PDF) { p.pdf.SetTitle(s, true) } }

// WithAuthor sets the document author.
func WithAuthor(s string) PDFOption { return func(p *PDF) { p.pdf.SetAuthor(s, true) } }

// WithCreator sets the producing application.
func WithCreator(s string) PDFOption { return func(p *PDF) { p.pdf.SetCreator(s, true) } }

// WithDocumentID records a run identifier in the document keywords.
func WithDocumentID(id string) PDFOption {
	return func(p *PDF) { p.pdf.SetKeywords("cardpress "+id, true) }
}

// PDF draws into a gofpdf document measured in points with the origin at
// the top-left page corner.
type PDF struct {
	w      io.Writer
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	images map[string]bool
	seq    int
	done   bool
}

// NewPDF returns a PDF sink of the given page size. The first page is
// already open.
func NewPDF(w io.Writer, width, height float64, opts ...PDFOption) *PDF {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)

	p := &PDF{
		w:      w,
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		images: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	pdf.AddPage()
	return p
}

// NewPage implements Sink.
func (p *PDF) NewPage() { p.pdf.AddPage() }

// FillRect implements draw.Surface.
func (p *PDF) FillRect(r draw.Rect, c color.NRGBA, radius float64) {
	p.withAlpha(c.A, func() {
		p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		if radius > 0 {
			p.roundedRect(r, radius, "F")
			return
		}
		p.pdf.Rect(r.X, r.Y, r.W, r.H, "F")
	})
}

// StrokeRect implements draw.Surface.
func (p *PDF) StrokeRect(r draw.Rect, s draw.Stroke, radius float64) {
	p.withStroke(s, func() {
		if radius > 0 {
			p.roundedRect(r, radius, "D")
			return
		}
		p.pdf.Rect(r.X, r.Y, r.W, r.H, "D")
	})
}

// kappa places Bezier control points for a quarter circle.
const kappa = 0.5522847498

// roundedRect paints a rectangle path with circular corners. The radius is
// capped at half the shorter side.
func (p *PDF) roundedRect(r draw.Rect, radius float64, style string) {
	radius = min(radius, r.W/2, r.H/2)
	k := radius * kappa
	x0, y0, x1, y1 := r.X, r.Y, r.Right(), r.Bottom()

	p.pdf.MoveTo(x0+radius, y0)
	p.pdf.LineTo(x1-radius, y0)
	p.pdf.CurveBezierCubicTo(x1-radius+k, y0, x1, y0+radius-k, x1, y0+radius)
	p.pdf.LineTo(x1, y1-radius)
	p.pdf.CurveBezierCubicTo(x1, y1-radius+k, x1-radius+k, y1, x1-radius, y1)
	p.pdf.LineTo(x0+radius, y1)
	p.pdf.CurveBezierCubicTo(x0+radius-k, y1, x0, y1-radius+k, x0, y1-radius)
	p.pdf.LineTo(x0, y0+radius)
	p.pdf.CurveBezierCubicTo(x0, y0+radius-k, x0+radius-k, y0, x0+radius, y0)
	p.pdf.ClosePath()
	p.pdf.DrawPath(style)
}

// Line implements draw.Surface.
func (p *PDF) Line(x1, y1, x2, y2 float64, s draw.Stroke) {
	p.withStroke(s, func() {
		p.pdf.Line(x1, y1, x2, y2)
	})
}

// Gradient implements draw.Surface. The gradient vector runs from the top
// edge (from) to the bottom edge (to).
func (p *PDF) Gradient(r draw.Rect, from, to color.NRGBA, radius float64) {
	p.withAlpha(from.A, func() {
		if radius > 0 {
			p.pdf.ClipRoundedRect(r.X, r.Y, r.W, r.H, radius, false)
			defer p.pdf.ClipEnd()
		}
		p.pdf.LinearGradient(r.X, r.Y, r.W, r.H,
			int(from.R), int(from.G), int(from.B),
			int(to.R), int(to.G), int(to.B),
			0, 1, 0, 0)
	})
}

// Text implements draw.Surface. Each line is a cell of height LineHeight
// with the text vertically centred.
func (p *PDF) Text(t draw.TextBlock) {
	style := ""
	if t.Font.Bold {
		style = "B"
	}
	p.pdf.SetFont(coreFont(t.Font.Family), style, t.Font.Size)
	p.withAlpha(t.Color.A, func() {
		p.pdf.SetTextColor(int(t.Color.R), int(t.Color.G), int(t.Color.B))
		align := cellAlign(t.Align)
		for i, line := range t.Lines {
			p.pdf.SetXY(t.X, t.Y+float64(i)*t.LineHeight)
			p.pdf.CellFormat(t.Width, t.LineHeight, p.tr(line), "", 0, align, false, 0, "")
		}
	})
}

// Image implements draw.Surface. Images sharing a key are embedded once.
func (p *PDF) Image(img draw.Image, r draw.Rect) {
	key := img.Key
	if key == "" {
		p.seq++
		key = fmt.Sprintf("image-%d", p.seq)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	if !p.images[key] {
		p.pdf.RegisterImageOptionsReader(key, opts, bytes.NewReader(img.Data))
		p.images[key] = true
	}
	p.pdf.ImageOptions(key, r.X, r.Y, r.W, r.H, false, opts, 0, "")
}

// Finalize implements Sink. Errors raised while drawing surface here, since
// gofpdf records the first failure and ignores later calls.
func (p *PDF) Finalize() error {
	if p.done {
		return errors.New(errors.ErrCodeInternal, "document already finalized")
	}
	p.done = true
	if err := p.pdf.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "build PDF")
	}
	if err := p.pdf.Output(p.w); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write PDF")
	}
	return nil
}

func (p *PDF) withAlpha(a uint8, fn func()) {
	if a == 0xff {
		fn()
		return
	}
	p.pdf.SetAlpha(float64(a)/255, "Normal")
	fn()
	p.pdf.SetAlpha(1, "Normal")
}

func (p *PDF) withStroke(s draw.Stroke, fn func()) {
	p.withAlpha(s.Color.A, func() {
		p.pdf.SetDrawColor(int(s.Color.R), int(s.Color.G), int(s.Color.B))
		p.pdf.SetLineWidth(s.Width)
		if len(s.Dash) > 0 {
			p.pdf.SetDashPattern(s.Dash, 0)
		}
		fn()
		if len(s.Dash) > 0 {
			p.pdf.SetDashPattern([]float64{}, 0)
		}
	})
}

// coreFont maps a family onto one of the PDF core fonts.
func coreFont(family string) string {
	switch strings.ToLower(family) {
	case "times", "times-roman", "serif":
		return "Times"
	case "courier", "monospace":
		return "Courier"
	}
	return "Helvetica"
}

func cellAlign(a draw.Align) string {
	switch a {
	case draw.AlignCenter:
		return "CM"
	case draw.AlignRight:
		return "RM"
	}
	return "LM"
}
