package sink

import (
	"encoding/json"
	"image/color"
	"io"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/draw"
)

// Call is one recorded surface call. Colors are "#rrggbb[aa]"; Rect holds
// the text box for text calls.
type Call struct {
	Op         string     `json:"op"`
	Rect       *draw.Rect `json:"rect,omitempty"`
	Points     []float64  `json:"points,omitempty"` // x1, y1, x2, y2 of a line
	Color      string     `json:"color,omitempty"`
	To         string     `json:"to,omitempty"` // gradient end color
	Radius     float64    `json:"radius,omitempty"`
	Width      float64    `json:"width,omitempty"` // stroke width
	Dash       []float64  `json:"dash,omitempty"`
	Lines      []string   `json:"lines,omitempty"`
	Font       *draw.Font `json:"font,omitempty"`
	Align      draw.Align `json:"align,omitempty"`
	LineHeight float64    `json:"line_height,omitempty"`
	Image      string     `json:"image,omitempty"` // image key
}

// RecordedPage holds the calls made on one page.
type RecordedPage struct {
	Number int    `json:"number"`
	Calls  []Call `json:"calls"`
}

// Recorder is an in-memory sink that keeps every call. It backs the JSON
// format and serves as the test double for draw-call assertions.
type Recorder struct {
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Pages      []RecordedPage `json:"pages"`
	PageBreaks int            `json:"-"` // NewPage calls
	Finalized  int            `json:"-"` // Finalize calls
}

// NewRecorder returns a recorder with its first page open.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{
		Width:  width,
		Height: height,
		Pages:  []RecordedPage{{Number: 1}},
	}
}

// NewPage implements Sink.
func (r *Recorder) NewPage() {
	r.PageBreaks++
	r.Pages = append(r.Pages, RecordedPage{Number: len(r.Pages) + 1})
}

// Finalize implements Sink.
func (r *Recorder) Finalize() error {
	r.Finalized++
	return nil
}

// Calls returns every call across all pages, in order.
func (r *Recorder) Calls() []Call {
	var all []Call
	for _, p := range r.Pages {
		all = append(all, p.Calls...)
	}
	return all
}

func (r *Recorder) add(c Call) {
	last := &r.Pages[len(r.Pages)-1]
	last.Calls = append(last.Calls, c)
}

// FillRect implements draw.Surface.
func (r *Recorder) FillRect(rect draw.Rect, c color.NRGBA, radius float64) {
	r.add(Call{Op: draw.KindFillRect, Rect: &rect, Color: draw.Hex(c), Radius: radius})
}

// StrokeRect implements draw.Surface.
func (r *Recorder) StrokeRect(rect draw.Rect, s draw.Stroke, radius float64) {
	r.add(Call{
		Op:     draw.KindStrokeRect,
		Rect:   &rect,
		Color:  draw.Hex(s.Color),
		Radius: radius,
		Width:  s.Width,
		Dash:   s.Dash,
	})
}

// Line implements draw.Surface.
func (r *Recorder) Line(x1, y1, x2, y2 float64, s draw.Stroke) {
	r.add(Call{
		Op:     draw.KindLine,
		Points: []float64{x1, y1, x2, y2},
		Color:  draw.Hex(s.Color),
		Width:  s.Width,
		Dash:   s.Dash,
	})
}

// Gradient implements draw.Surface.
func (r *Recorder) Gradient(rect draw.Rect, from, to color.NRGBA, radius float64) {
	r.add(Call{Op: draw.KindGradient, Rect: &rect, Color: draw.Hex(from), To: draw.Hex(to), Radius: radius})
}

// Text implements draw.Surface.
func (r *Recorder) Text(t draw.TextBlock) {
	font := t.Font
	r.add(Call{
		Op:         draw.KindText,
		Rect:       &draw.Rect{X: t.X, Y: t.Y, W: t.Width, H: t.Height()},
		Color:      draw.Hex(t.Color),
		Lines:      t.Lines,
		Font:       &font,
		Align:      t.Align,
		LineHeight: t.LineHeight,
	})
}

// Image implements draw.Surface.
func (r *Recorder) Image(img draw.Image, rect draw.Rect) {
	r.add(Call{Op: draw.KindImage, Rect: &rect, Image: img.Key})
}

// JSON writes the recorded calls as an indented JSON document on Finalize.
type JSON struct {
	*Recorder
	w io.Writer
}

// NewJSON returns a JSON sink writing to w.
func NewJSON(w io.Writer, width, height float64) *JSON {
	return &JSON{Recorder: NewRecorder(width, height), w: w}
}

// Finalize implements Sink.
func (j *JSON) Finalize() error {
	if j.Finalized > 0 {
		return errors.New(errors.ErrCodeInternal, "document already finalized")
	}
	_ = j.Recorder.Finalize()
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j.Recorder); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write JSON")
	}
	return nil
}
