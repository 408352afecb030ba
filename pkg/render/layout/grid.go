package layout

import (
	"github.com/matzehuels/cardpress/pkg/render/draw"
	"github.com/matzehuels/cardpress/pkg/template"
)

// ComputeGrid returns the card rectangles of one page in row-major order:
// index row*columns+col, row 0 at the top, filled left to right.
//
// It is plain arithmetic and does not check that the cards fit; call
// Template.Validate first. A single column or row has no gap.
func ComputeGrid(t template.Template) []draw.Rect {
	cols, rows := t.Grid.Columns, t.Grid.Rows
	if cols <= 0 || rows <= 0 {
		return nil
	}
	hGap, vGap := t.Gaps()
	w, h := t.Card.Width, t.Card.Height

	rects := make([]draw.Rect, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			rects = append(rects, draw.Rect{
				X: t.Margins.Left + float64(col)*(w+hGap),
				Y: t.Margins.Top + float64(row)*(h+vGap),
				W: w,
				H: h,
			})
		}
	}
	return rects
}
