package sink

import (
	"bytes"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/fonts"
	"github.com/matzehuels/cardpress/pkg/render/draw"
)

// pageGap is the gutter between stacked pages, in points.
const pageGap = 12

// PNGOption configures a [PNG] sink.
type PNGOption func(*PNG)

// WithScale sets the number of pixels per point (default 2.0).
func WithScale(s float64) PNGOption {
	return func(p *PNG) { p.scale = s }
}

type faceKey struct {
	bold bool
	size float64
}

// PNG rasterises pages with gg and writes them stacked top to bottom as one
// image. Text uses the Go fonts, so glyph shapes differ from the PDF core
// fonts; the preview is for layout checks.
type PNG struct {
	w             io.Writer
	scale         float64
	width, height float64

	dc      *gg.Context
	pages   []image.Image
	regular *truetype.Font
	bold    *truetype.Font
	faces   map[faceKey]font.Face
	decoded map[string]image.Image
	done    bool
}

// NewPNG returns a PNG sink with its first page open.
func NewPNG(w io.Writer, width, height float64, opts ...PNGOption) (*PNG, error) {
	regular, err := fonts.Regular()
	if err != nil {
		return nil, err
	}
	bold, err := fonts.Bold()
	if err != nil {
		return nil, err
	}
	p := &PNG{
		w:       w,
		scale:   2.0,
		width:   width,
		height:  height,
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
		decoded: make(map[string]image.Image),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.scale <= 0 {
		p.scale = 2.0
	}
	p.dc = p.blankPage()
	return p, nil
}

func (p *PNG) blankPage() *gg.Context {
	dc := gg.NewContext(p.px(p.width), p.px(p.height))
	dc.SetColor(color.White)
	dc.Clear()
	return dc
}

func (p *PNG) px(v float64) int { return int(math.Round(v * p.scale)) }

func (p *PNG) s(v float64) float64 { return v * p.scale }

// NewPage implements Sink.
func (p *PNG) NewPage() {
	p.pages = append(p.pages, p.dc.Image())
	p.dc = p.blankPage()
}

// FillRect implements draw.Surface.
func (p *PNG) FillRect(r draw.Rect, c color.NRGBA, radius float64) {
	p.path(r, radius)
	p.dc.SetColor(c)
	p.dc.Fill()
}

// StrokeRect implements draw.Surface.
func (p *PNG) StrokeRect(r draw.Rect, s draw.Stroke, radius float64) {
	p.path(r, radius)
	p.stroke(s)
}

// Line implements draw.Surface.
func (p *PNG) Line(x1, y1, x2, y2 float64, s draw.Stroke) {
	p.dc.DrawLine(p.s(x1), p.s(y1), p.s(x2), p.s(y2))
	p.stroke(s)
}

// Gradient implements draw.Surface.
func (p *PNG) Gradient(r draw.Rect, from, to color.NRGBA, radius float64) {
	g := gg.NewLinearGradient(p.s(r.X), p.s(r.Y), p.s(r.X), p.s(r.Bottom()))
	g.AddColorStop(0, from)
	g.AddColorStop(1, to)
	p.path(r, radius)
	p.dc.SetFillStyle(g)
	p.dc.Fill()
}

// Text implements draw.Surface.
func (p *PNG) Text(t draw.TextBlock) {
	p.dc.SetFontFace(p.face(t.Font))
	p.dc.SetColor(t.Color)
	x, ax := t.X, 0.0
	switch t.Align {
	case draw.AlignCenter:
		x, ax = t.X+t.Width/2, 0.5
	case draw.AlignRight:
		x, ax = t.X+t.Width, 1
	}
	for i, line := range t.Lines {
		mid := t.Y + (float64(i)+0.5)*t.LineHeight
		p.dc.DrawStringAnchored(line, p.s(x), p.s(mid), ax, 0.35)
	}
}

// Image implements draw.Surface. Undecodable image data is skipped.
func (p *PNG) Image(img draw.Image, r draw.Rect) {
	src, ok := p.decoded[img.Key]
	if !ok || img.Key == "" {
		var err error
		src, _, err = image.Decode(bytes.NewReader(img.Data))
		if err != nil {
			return
		}
		if img.Key != "" {
			p.decoded[img.Key] = src
		}
	}
	w, h := p.px(r.W), p.px(r.H)
	if w <= 0 || h <= 0 {
		return
	}
	p.dc.DrawImage(imaging.Resize(src, w, h, imaging.Lanczos), p.px(r.X), p.px(r.Y))
}

// Finalize implements Sink.
func (p *PNG) Finalize() error {
	if p.done {
		return errors.New(errors.ErrCodeInternal, "document already finalized")
	}
	p.done = true
	pages := append(p.pages, p.dc.Image())

	pw, ph, gap := p.px(p.width), p.px(p.height), p.px(pageGap)
	sheet := imaging.New(pw, len(pages)*ph+(len(pages)-1)*gap, color.NRGBA{R: 0xcb, G: 0xd5, B: 0xe1, A: 0xff})
	for i, page := range pages {
		sheet = imaging.Paste(sheet, page, image.Pt(0, i*(ph+gap)))
	}
	if err := imaging.Encode(p.w, sheet, imaging.PNG); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write PNG")
	}
	return nil
}

func (p *PNG) path(r draw.Rect, radius float64) {
	if radius > 0 {
		p.dc.DrawRoundedRectangle(p.s(r.X), p.s(r.Y), p.s(r.W), p.s(r.H), p.s(radius))
		return
	}
	p.dc.DrawRectangle(p.s(r.X), p.s(r.Y), p.s(r.W), p.s(r.H))
}

func (p *PNG) stroke(s draw.Stroke) {
	p.dc.SetColor(s.Color)
	p.dc.SetLineWidth(p.s(s.Width))
	if len(s.Dash) > 0 {
		dash := make([]float64, len(s.Dash))
		for i, d := range s.Dash {
			dash[i] = p.s(d)
		}
		p.dc.SetDash(dash...)
	}
	p.dc.Stroke()
	p.dc.SetDash()
}

func (p *PNG) face(f draw.Font) font.Face {
	key := faceKey{bold: f.Bold, size: f.Size}
	if face, ok := p.faces[key]; ok {
		return face
	}
	ttf := p.regular
	if f.Bold {
		ttf = p.bold
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: p.s(f.Size)})
	p.faces[key] = face
	return face
}
