package draw

import "image/color"

// Op is one replayable draw operation.
type Op interface {
	// Kind names the operation, e.g. "fill-rect".
	Kind() string
	// Layer names the card layer the operation belongs to, e.g. "shadow".
	Layer() string
	// Replay issues the operation against s.
	Replay(s Surface)
}

// Operation kinds.
const (
	KindFillRect   = "fill-rect"
	KindStrokeRect = "stroke-rect"
	KindLine       = "line"
	KindGradient   = "gradient"
	KindText       = "text-block"
	KindImage      = "image"
	KindCodedImage = "coded-image"
)

// FillRectOp fills a (possibly rounded) rectangle.
type FillRectOp struct {
	Role   string
	Rect   Rect
	Color  color.NRGBA
	Radius float64
}

func (o FillRectOp) Kind() string     { return KindFillRect }
func (o FillRectOp) Layer() string    { return o.Role }
func (o FillRectOp) Replay(s Surface) { s.FillRect(o.Rect, o.Color, o.Radius) }

// StrokeRectOp outlines a (possibly rounded) rectangle.
type StrokeRectOp struct {
	Role   string
	Rect   Rect
	Stroke Stroke
	Radius float64
}

func (o StrokeRectOp) Kind() string     { return KindStrokeRect }
func (o StrokeRectOp) Layer() string    { return o.Role }
func (o StrokeRectOp) Replay(s Surface) { s.StrokeRect(o.Rect, o.Stroke, o.Radius) }

// LineOp draws a straight segment.
type LineOp struct {
	Role           string
	X1, Y1, X2, Y2 float64
	Stroke         Stroke
}

func (o LineOp) Kind() string     { return KindLine }
func (o LineOp) Layer() string    { return o.Role }
func (o LineOp) Replay(s Surface) { s.Line(o.X1, o.Y1, o.X2, o.Y2, o.Stroke) }

// GradientOp fills a rectangle with a vertical two-stop gradient.
type GradientOp struct {
	Role     string
	Rect     Rect
	From, To color.NRGBA
	Radius   float64
}

func (o GradientOp) Kind() string     { return KindGradient }
func (o GradientOp) Layer() string    { return o.Role }
func (o GradientOp) Replay(s Surface) { s.Gradient(o.Rect, o.From, o.To, o.Radius) }

// TextOp draws a text block.
type TextOp struct {
	Role  string
	Block TextBlock
}

func (o TextOp) Kind() string     { return KindText }
func (o TextOp) Layer() string    { return o.Role }
func (o TextOp) Replay(s Surface) { s.Text(o.Block) }

// ImageOp draws a raster image into a rectangle.
type ImageOp struct {
	Role  string
	Image Image
	Rect  Rect
}

func (o ImageOp) Kind() string     { return KindImage }
func (o ImageOp) Layer() string    { return o.Role }
func (o ImageOp) Replay(s Surface) { s.Image(o.Image, o.Rect) }

// CodedImageOp draws a generated machine-readable code (a QR code).
// Surfaces see it as an ordinary image.
type CodedImageOp struct {
	Role    string
	Content string
	Image   Image
	Rect    Rect
}

func (o CodedImageOp) Kind() string     { return KindCodedImage }
func (o CodedImageOp) Layer() string    { return o.Role }
func (o CodedImageOp) Replay(s Surface) { s.Image(o.Image, o.Rect) }

// Replay issues every op against s in order.
func Replay(s Surface, ops []Op) {
	for _, op := range ops {
		op.Replay(s)
	}
}
