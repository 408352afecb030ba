package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	cperrors "github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/draw"
	"github.com/matzehuels/cardpress/pkg/template"
)

var a4 = template.Page{Width: 595.28, Height: 841.89}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func tinyPNG(t *testing.T) draw.Image {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error: %v", err)
	}
	return draw.Image{Key: "tiny", Data: buf.Bytes(), PixelW: 4, PixelH: 4}
}

// paint issues one call of every kind.
func paint(t *testing.T, s Sink) {
	t.Helper()
	blue := color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	r := draw.Rect{X: 28, Y: 28, W: 241, H: 156}
	s.FillRect(r, color.NRGBA{A: 0x15}, 8)
	s.Gradient(r, blue, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, 8)
	s.StrokeRect(r, draw.Stroke{Color: blue, Width: 0.5}, 8)
	s.StrokeRect(r, draw.Stroke{Color: blue, Width: 0.3, Dash: []float64{3, 3}}, 0)
	s.Line(28, 20, 28, 26, draw.Stroke{Color: blue, Width: 0.3})
	s.Text(draw.TextBlock{
		X: 40, Y: 40, Width: 200,
		Lines:      []string{"João Silva", "Cardiologista"},
		Font:       draw.Font{Family: "Helvetica", Bold: true, Size: 16},
		Color:      blue,
		LineHeight: 19.2,
	})
	img := tinyPNG(t)
	s.Image(img, draw.Rect{X: 200, Y: 120, W: 50, H: 50})
	s.Image(img, draw.Rect{X: 200, Y: 300, W: 50, H: 50})
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("svg", &bytes.Buffer{}, a4, Options{})
	if !cperrors.Is(err, cperrors.ErrCodeInvalidFormat) {
		t.Fatalf("New() error = %v, want INVALID_FORMAT", err)
	}
}

func TestNewFormats(t *testing.T) {
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			s, err := New(format, &buf, a4, Options{Title: "cards", DocumentID: "run-1"})
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			paint(t, s)
			if err := s.Finalize(); err != nil {
				t.Fatalf("Finalize() error: %v", err)
			}
			if buf.Len() == 0 {
				t.Fatal("Finalize() wrote nothing")
			}
			if ContentType(format) == "application/octet-stream" {
				t.Errorf("ContentType(%q) not mapped", format)
			}
		})
	}
}

func TestRecorderPages(t *testing.T) {
	r := NewRecorder(a4.Width, a4.Height)
	paint(t, r)
	r.NewPage()
	r.FillRect(draw.Rect{W: 1, H: 1}, color.NRGBA{A: 0xff}, 0)

	if r.PageBreaks != 1 {
		t.Errorf("PageBreaks = %d, want 1", r.PageBreaks)
	}
	if len(r.Pages) != 2 {
		t.Fatalf("Pages = %d, want 2", len(r.Pages))
	}
	if got := len(r.Pages[1].Calls); got != 1 {
		t.Errorf("page 2 calls = %d, want 1", got)
	}

	first := r.Pages[0].Calls
	want := []string{
		draw.KindFillRect, draw.KindGradient, draw.KindStrokeRect, draw.KindStrokeRect,
		draw.KindLine, draw.KindText, draw.KindImage, draw.KindImage,
	}
	if len(first) != len(want) {
		t.Fatalf("page 1 calls = %d, want %d", len(first), len(want))
	}
	for i, op := range want {
		if first[i].Op != op {
			t.Errorf("call %d = %s, want %s", i, first[i].Op, op)
		}
	}
	if first[0].Color != "#00000015" {
		t.Errorf("shadow color = %s, want #00000015", first[0].Color)
	}
	if text := first[5]; text.Rect.H != 38.4 {
		t.Errorf("text height = %v, want 38.4", text.Rect.H)
	}
	if len(r.Calls()) != len(want)+1 {
		t.Errorf("Calls() = %d, want %d", len(r.Calls()), len(want)+1)
	}
}

func TestJSONDocument(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSON(&buf, a4.Width, a4.Height)
	paint(t, s)
	s.NewPage()
	if err := s.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	var doc struct {
		Width float64 `json:"width"`
		Pages []struct {
			Number int    `json:"number"`
			Calls  []Call `json:"calls"`
		} `json:"pages"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if doc.Width != a4.Width {
		t.Errorf("Width = %v, want %v", doc.Width, a4.Width)
	}
	if len(doc.Pages) != 2 || doc.Pages[1].Number != 2 {
		t.Fatalf("pages = %+v, want 2 numbered pages", doc.Pages)
	}
	if err := s.Finalize(); err == nil {
		t.Error("second Finalize() should fail")
	}
}

func TestPDFOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPDF(&buf, a4.Width, a4.Height, WithTitle("Business cards"), WithAuthor("cardpress"))
	paint(t, p)
	p.NewPage()
	paint(t, p)
	if err := p.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
	if err := p.Finalize(); !cperrors.Is(err, cperrors.ErrCodeInternal) {
		t.Errorf("second Finalize() error = %v, want INTERNAL_ERROR", err)
	}
}

func TestPDFRoundedRectsArePaths(t *testing.T) {
	tests := []struct {
		name  string
		paint func(p *PDF)
		want  string
	}{
		{"stroke", func(p *PDF) {
			p.StrokeRect(draw.Rect{X: 10, Y: 10, W: 100, H: 50}, draw.Stroke{Width: 1, Color: color.NRGBA{A: 0xff}}, 6)
		}, "h\nS\n"},
		{"fill", func(p *PDF) {
			p.FillRect(draw.Rect{X: 10, Y: 10, W: 100, H: 50}, color.NRGBA{R: 0xff, A: 0xff}, 6)
		}, "h\nf\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPDF(&buf, a4.Width, a4.Height)
			p.pdf.SetCompression(false)
			tt.paint(p)
			if err := p.Finalize(); err != nil {
				t.Fatalf("Finalize() error: %v", err)
			}
			out := buf.String()
			if strings.Contains(out, " W n") || strings.Contains(out, " W S") {
				t.Error("rounded rect left a clipping path in the page")
			}
			if strings.Count(out, " c\n") != 4 {
				t.Errorf("corner curves = %d, want 4", strings.Count(out, " c\n"))
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("page lacks closed path painted with %q", tt.want)
			}
		})
	}
}

func TestFinalizeWriteFailure(t *testing.T) {
	pngSink, err := NewPNG(failWriter{}, 100, 100)
	if err != nil {
		t.Fatalf("NewPNG() error: %v", err)
	}
	sinks := map[string]Sink{
		"pdf":  NewPDF(failWriter{}, 100, 100),
		"json": NewJSON(failWriter{}, 100, 100),
		"png":  pngSink,
	}
	for name, s := range sinks {
		t.Run(name, func(t *testing.T) {
			if err := s.Finalize(); !cperrors.Is(err, cperrors.ErrCodeIO) {
				t.Errorf("Finalize() error = %v, want IO_ERROR", err)
			}
		})
	}
}

func TestPNGStacksPages(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPNG(&buf, 100, 50, WithScale(1))
	if err != nil {
		t.Fatalf("NewPNG() error: %v", err)
	}
	p.FillRect(draw.Rect{X: 10, Y: 10, W: 20, H: 20}, color.NRGBA{R: 0xff, A: 0xff}, 0)
	p.NewPage()
	if err := p.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 2*50+pageGap {
		t.Errorf("bounds = %dx%d, want 100x%d", b.Dx(), b.Dy(), 2*50+pageGap)
	}
	r, _, _, _ := img.At(20, 20).RGBA()
	if r>>8 != 0xff {
		t.Errorf("filled pixel red = %#x, want 0xff", r>>8)
	}
}
