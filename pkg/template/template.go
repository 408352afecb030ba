// Package template holds the page template: every layout and style constant
// of one rendering run.
//
// A [Template] is a plain value. [Default] returns the stock A4 2x5 sheet,
// [Load] decodes a TOML file over it, and [Template.With] derives a modified
// copy. Nothing mutates a template in place, so one value can be shared by
// the layout engine, the compositor and concurrent HTTP requests.
package template

// PointsPerMM converts millimetres to PDF points.
const PointsPerMM = 72 / 25.4

// MM converts millimetres to points.
func MM(mm float64) float64 { return mm * PointsPerMM }

// ToMM converts points to millimetres.
func ToMM(pt float64) float64 { return pt / PointsPerMM }

// Spacing policies.
const (
	// SpacingDistribute spreads leftover space evenly between cards.
	SpacingDistribute = "distribute"
	// SpacingFixed uses Spacing.Gap between cards and centres the grid.
	SpacingFixed = "fixed"
)

// Logo placements.
const (
	LogoBackground = "background"
	LogoCorner     = "corner"
)

// Cut-line styles.
const (
	CutMarks = "marks"
	CutLines = "lines"
)

// QR corner anchors.
const (
	TopLeft     = "top-left"
	TopRight    = "top-right"
	BottomLeft  = "bottom-left"
	BottomRight = "bottom-right"
)

// QR encoders.
const (
	EncoderQRCode  = "qrcode"
	EncoderBarcode = "barcode"
)

// Template is the full set of constants governing one rendering run.
// Lengths are in points unless noted.
type Template struct {
	Page      Page      `toml:"page" json:"page"`
	Grid      Grid      `toml:"grid" json:"grid"`
	Margins   Margins   `toml:"margins" json:"margins"`
	Spacing   Spacing   `toml:"spacing" json:"spacing"`
	Card      Card      `toml:"card" json:"card"`
	Fonts     Fonts     `toml:"fonts" json:"fonts"`
	Colors    Colors    `toml:"colors" json:"colors"`
	Gradients Gradients `toml:"gradients" json:"gradients"`
	CutLines  CutLine   `toml:"cut_lines" json:"cut_lines"`
	QR        QR        `toml:"qr" json:"qr"`
}

// Page is the sheet size.
type Page struct {
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
}

// Grid is the card arrangement on one page.
type Grid struct {
	Columns int `toml:"columns" json:"columns"`
	Rows    int `toml:"rows" json:"rows"`
}

// Capacity is the number of cards per page.
func (g Grid) Capacity() int { return g.Columns * g.Rows }

// Margins are the page margins.
type Margins struct {
	Top    float64 `toml:"top" json:"top"`
	Right  float64 `toml:"right" json:"right"`
	Bottom float64 `toml:"bottom" json:"bottom"`
	Left   float64 `toml:"left" json:"left"`
}

// Spacing selects how the gap between cards is chosen.
type Spacing struct {
	Policy string  `toml:"policy" json:"policy"`
	Gap    float64 `toml:"gap" json:"gap"` // used by the fixed policy
}

// Card holds the size and inner layout of one card.
type Card struct {
	Width          float64 `toml:"width" json:"width"`
	Height         float64 `toml:"height" json:"height"`
	Padding        float64 `toml:"padding" json:"padding"`
	LineSpacing    float64 `toml:"line_spacing" json:"line_spacing"`
	SectionSpacing float64 `toml:"section_spacing" json:"section_spacing"`
	Radius         float64 `toml:"radius" json:"radius"`
	Shadow         Shadow  `toml:"shadow" json:"shadow"`
	Border         Border  `toml:"border" json:"border"`
	TopRule        TopRule `toml:"top_rule" json:"top_rule"`
	Chip           Chip    `toml:"chip" json:"chip"`
	Logo           Logo    `toml:"logo" json:"logo"`
}

// Shadow is the offset rectangle painted beneath each card.
type Shadow struct {
	Enabled bool    `toml:"enabled" json:"enabled"`
	Offset  float64 `toml:"offset" json:"offset"`
	Color   string  `toml:"color" json:"color"`
}

// Border is the card outline.
type Border struct {
	Enabled bool    `toml:"enabled" json:"enabled"`
	Width   float64 `toml:"width" json:"width"`
}

// TopRule is the pair of decorative lines across the top of a card.
type TopRule struct {
	Enabled bool    `toml:"enabled" json:"enabled"`
	Width   float64 `toml:"width" json:"width"` // stroke width of each line
	Gap     float64 `toml:"gap" json:"gap"`     // distance between the two lines
}

// Chip is the rounded background behind the credential line.
type Chip struct {
	PaddingX float64 `toml:"padding_x" json:"padding_x"`
	PaddingY float64 `toml:"padding_y" json:"padding_y"`
	Radius   float64 `toml:"radius" json:"radius"`
	Label    string  `toml:"label" json:"label"` // prefix of the CRM line
}

// Logo controls how a record's image is placed.
type Logo struct {
	Placement string  `toml:"placement" json:"placement"`
	Width     float64 `toml:"width" json:"width"`
	Height    float64 `toml:"height" json:"height"`
	Gap       float64 `toml:"gap" json:"gap"`
	// Opacity of a background-placed image over the card background.
	Opacity float64 `toml:"opacity" json:"opacity"`
	// DPI used to rasterise images before embedding.
	DPI float64 `toml:"dpi" json:"dpi"`
}

// Fonts holds the typeface and per-role sizes.
type Fonts struct {
	Family     string  `toml:"family" json:"family"`
	LineHeight float64 `toml:"line_height" json:"line_height"` // multiple of the font size
	Name       float64 `toml:"name" json:"name"`
	Identity   float64 `toml:"professional" json:"professional"`
	Credential float64 `toml:"crm" json:"crm"`
	Contact    float64 `toml:"contact" json:"contact"`
}

// Colors is the palette. Values are "#rrggbb" or "#rrggbbaa".
type Colors struct {
	Primary     string `toml:"primary" json:"primary"`
	Secondary   string `toml:"secondary" json:"secondary"`
	Accent      string `toml:"accent" json:"accent"`
	Highlight   string `toml:"highlight" json:"highlight"`
	Medical     string `toml:"medical" json:"medical"`
	Background  string `toml:"background" json:"background"`
	Border      string `toml:"border" json:"border"`
	ChipCRM     string `toml:"chip_crm" json:"chip_crm"`
	ChipCompany string `toml:"chip_company" json:"chip_company"`
}

// Gradient is a vertical two-stop gradient.
type Gradient struct {
	From string `toml:"from" json:"from"`
	To   string `toml:"to" json:"to"`
}

// Gradients are the named gradients.
type Gradients struct {
	Enabled bool     `toml:"enabled" json:"enabled"`
	Primary Gradient `toml:"primary" json:"primary"` // card background fallback
	Accent  Gradient `toml:"accent" json:"accent"`
}

// CutLine styles the crop marks.
type CutLine struct {
	Enabled bool      `toml:"enabled" json:"enabled"`
	Style   string    `toml:"style" json:"style"`
	Color   string    `toml:"color" json:"color"`
	Width   float64   `toml:"width" json:"width"`
	Dash    []float64 `toml:"dash" json:"dash"`
	Length  float64   `toml:"length" json:"length"` // mark length for the marks style
}

// QR styles the coded image.
type QR struct {
	Enabled      bool    `toml:"enabled" json:"enabled"`
	Size         float64 `toml:"size" json:"size"`
	Margin       float64 `toml:"margin" json:"margin"`
	Gap          float64 `toml:"gap" json:"gap"` // space kept between the code and text
	Position     string  `toml:"position" json:"position"`
	Level        string  `toml:"quality" json:"quality"` // L, M, Q or H
	Color        string  `toml:"color" json:"color"`
	Background   string  `toml:"background" json:"background"`
	Border       bool    `toml:"border" json:"border"`
	BorderColor  string  `toml:"border_color" json:"border_color"`
	BorderWidth  float64 `toml:"border_width" json:"border_width"`
	CornerRadius float64 `toml:"corner_radius" json:"corner_radius"`
	Resolution   int     `toml:"resolution" json:"resolution"` // pixels per point
	Sharpen      bool    `toml:"sharpen" json:"sharpen"`
	Encoder      string  `toml:"encoder" json:"encoder"`
}

// PixelSize is the side length in pixels of the generated code image.
func (q QR) PixelSize() int {
	res := q.Resolution
	if res <= 0 {
		res = 1
	}
	return int(q.Size) * res
}

// Usable returns the width and height inside the page margins.
func (t Template) Usable() (w, h float64) {
	return t.Page.Width - t.Margins.Left - t.Margins.Right,
		t.Page.Height - t.Margins.Top - t.Margins.Bottom
}

// Gaps returns the horizontal and vertical gap between adjacent cards. A
// single column or row has no gap.
func (t Template) Gaps() (h, v float64) {
	uw, uh := t.Usable()
	if t.Grid.Columns > 1 {
		h = (uw - float64(t.Grid.Columns)*t.Card.Width) / float64(t.Grid.Columns-1)
	}
	if t.Grid.Rows > 1 {
		v = (uh - float64(t.Grid.Rows)*t.Card.Height) / float64(t.Grid.Rows-1)
	}
	return h, v
}
