package template

import "slices"

// Override modifies a template copy inside [Template.With].
type Override func(t *Template)

// With returns a copy of t with the overrides applied in order. The copy
// shares no slices with t.
func (t Template) With(overrides ...Override) Template {
	c := t.clone()
	for _, o := range overrides {
		o(&c)
	}
	return c.resolved()
}

// WithMargin sets all four page margins, in points.
func WithMargin(pt float64) Override {
	return func(t *Template) {
		t.Margins = Margins{Top: pt, Right: pt, Bottom: pt, Left: pt}
	}
}

// WithSpacing switches to the fixed spacing policy with the given gap, in
// points. The grid is re-centred on the page, replacing the margins.
func WithSpacing(pt float64) Override {
	return func(t *Template) {
		t.Spacing = Spacing{Policy: SpacingFixed, Gap: pt}
	}
}

// WithoutCutLines disables crop marks.
func WithoutCutLines() Override {
	return func(t *Template) { t.CutLines.Enabled = false }
}

// WithoutQR disables the coded image.
func WithoutQR() Override {
	return func(t *Template) { t.QR.Enabled = false }
}

func (t Template) clone() Template {
	t.CutLines.Dash = slices.Clone(t.CutLines.Dash)
	return t
}

// resolved applies the fixed spacing policy by recomputing symmetric margins
// so that the distribute formula yields exactly Spacing.Gap.
func (t Template) resolved() Template {
	if t.Spacing.Policy != SpacingFixed {
		return t
	}
	gap := t.Spacing.Gap
	totalW := float64(t.Grid.Columns)*t.Card.Width + float64(max(t.Grid.Columns-1, 0))*gap
	totalH := float64(t.Grid.Rows)*t.Card.Height + float64(max(t.Grid.Rows-1, 0))*gap
	side := (t.Page.Width - totalW) / 2
	vert := (t.Page.Height - totalH) / 2
	t.Margins = Margins{Top: vert, Right: side, Bottom: vert, Left: side}
	return t
}
