package draw

import "image/color"

// Align is the horizontal alignment of a text block.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Font selects a typeface for a text block.
type Font struct {
	Family string  `json:"family"`
	Bold   bool    `json:"bold,omitempty"`
	Size   float64 `json:"size"`
}

// Stroke describes a line style. An empty Dash draws a solid line.
type Stroke struct {
	Color color.NRGBA
	Width float64
	Dash  []float64
}

// TextBlock is a run of already-broken lines. Line i is drawn with its top
// at Y + i*LineHeight.
type TextBlock struct {
	X, Y       float64
	Width      float64
	Lines      []string
	Font       Font
	Color      color.NRGBA
	Align      Align
	LineHeight float64
}

// Height returns the vertical space the block occupies.
func (t TextBlock) Height() float64 {
	return float64(len(t.Lines)) * t.LineHeight
}

// Image is an encoded raster ready for embedding. Data holds PNG bytes;
// Key identifies the image so sinks can embed repeated images once.
type Image struct {
	Key    string
	Data   []byte
	PixelW int
	PixelH int
}

// Surface is the drawing target that operations replay against. It is
// stateful and single-writer: calls must be issued in paint order from one
// goroutine.
type Surface interface {
	FillRect(r Rect, c color.NRGBA, radius float64)
	StrokeRect(r Rect, s Stroke, radius float64)
	Line(x1, y1, x2, y2 float64, s Stroke)
	// Gradient fills r with a vertical two-stop gradient from top to bottom.
	Gradient(r Rect, from, to color.NRGBA, radius float64)
	Text(t TextBlock)
	Image(img Image, r Rect)
}
