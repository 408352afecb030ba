package template

import (
	"fmt"
	"strings"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/draw"
)

// fitTolerance absorbs rounding in mm-to-point conversions.
const fitTolerance = 1e-6

// Validate reports the first configuration problem as an INVALID_CONFIG
// error. A valid template yields a grid whose cards lie inside the margins
// and never overlap.
func (t Template) Validate() error {
	t = t.resolved()
	invalid := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}

	switch {
	case t.Page.Width <= 0 || t.Page.Height <= 0:
		return invalid("page size must be positive, got %gx%g", t.Page.Width, t.Page.Height)
	case t.Card.Width <= 0 || t.Card.Height <= 0:
		return invalid("card size must be positive, got %gx%g", t.Card.Width, t.Card.Height)
	case t.Grid.Columns < 1 || t.Grid.Rows < 1:
		return invalid("grid needs at least one column and one row, got %dx%d", t.Grid.Columns, t.Grid.Rows)
	case t.Margins.Top < 0 || t.Margins.Right < 0 || t.Margins.Bottom < 0 || t.Margins.Left < 0:
		return invalid("margins must not be negative")
	case t.Card.Padding < 0 || t.Card.LineSpacing < 0 || t.Card.SectionSpacing < 0 || t.Card.Radius < 0:
		return invalid("card padding, spacing and radius must not be negative")
	case t.Fonts.Family == "":
		return invalid("font family is required")
	case t.Fonts.LineHeight <= 0:
		return invalid("font line height must be positive")
	case t.Fonts.Name <= 0 || t.Fonts.Identity <= 0 || t.Fonts.Credential <= 0 || t.Fonts.Contact <= 0:
		return invalid("font sizes must be positive")
	}

	if err := t.validateChoices(); err != nil {
		return err
	}
	if err := t.validateColors(); err != nil {
		return err
	}
	if t.QR.Enabled && (t.QR.Size <= 0 || t.QR.Margin < 0 || t.QR.Resolution <= 0) {
		return invalid("qr size and resolution must be positive and margin not negative")
	}
	if t.Card.Logo.Opacity < 0 || t.Card.Logo.Opacity > 1 {
		return invalid("logo opacity must be between 0 and 1, got %g", t.Card.Logo.Opacity)
	}
	if t.Card.Logo.DPI <= 0 {
		return invalid("logo dpi must be positive, got %g", t.Card.Logo.DPI)
	}
	if t.Card.Logo.Placement == LogoCorner && (t.Card.Logo.Width <= 0 || t.Card.Logo.Height <= 0) {
		return invalid("corner logo needs a positive width and height")
	}
	for _, d := range t.CutLines.Dash {
		if d < 0 {
			return invalid("cut line dash lengths must not be negative")
		}
	}
	return t.validateFit()
}

func (t Template) validateChoices() error {
	choices := []struct {
		name  string
		value string
		valid []string
	}{
		{"spacing policy", t.Spacing.Policy, []string{SpacingDistribute, SpacingFixed}},
		{"logo placement", t.Card.Logo.Placement, []string{LogoBackground, LogoCorner}},
		{"cut line style", t.CutLines.Style, []string{CutMarks, CutLines}},
		{"qr position", t.QR.Position, []string{TopLeft, TopRight, BottomLeft, BottomRight}},
		{"qr quality", t.QR.Level, []string{"L", "M", "Q", "H"}},
		{"qr encoder", t.QR.Encoder, []string{EncoderQRCode, EncoderBarcode}},
	}
	for _, c := range choices {
		if !contains(c.valid, c.value) {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid %s %q (must be one of: %s)",
				c.name, c.value, strings.Join(c.valid, ", "))
		}
	}
	if t.Spacing.Policy == SpacingFixed && t.Spacing.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fixed spacing gap must not be negative")
	}
	return nil
}

func (t Template) validateColors() error {
	colors := []struct{ key, value string }{
		{"colors.primary", t.Colors.Primary},
		{"colors.secondary", t.Colors.Secondary},
		{"colors.accent", t.Colors.Accent},
		{"colors.highlight", t.Colors.Highlight},
		{"colors.medical", t.Colors.Medical},
		{"colors.background", t.Colors.Background},
		{"colors.border", t.Colors.Border},
		{"colors.chip_crm", t.Colors.ChipCRM},
		{"colors.chip_company", t.Colors.ChipCompany},
		{"gradients.primary.from", t.Gradients.Primary.From},
		{"gradients.primary.to", t.Gradients.Primary.To},
		{"gradients.accent.from", t.Gradients.Accent.From},
		{"gradients.accent.to", t.Gradients.Accent.To},
		{"card.shadow.color", t.Card.Shadow.Color},
		{"cut_lines.color", t.CutLines.Color},
		{"qr.color", t.QR.Color},
		{"qr.background", t.QR.Background},
		{"qr.border_color", t.QR.BorderColor},
	}
	for _, c := range colors {
		if _, err := draw.ParseColor(c.value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", c.key)
		}
	}
	return nil
}

// validateFit rejects grids whose cards do not fit the usable area, which
// would give a negative gap and overlapping cards.
func (t Template) validateFit() error {
	uw, uh := t.Usable()
	needW := float64(t.Grid.Columns) * t.Card.Width
	needH := float64(t.Grid.Rows) * t.Card.Height
	if needW > uw+fitTolerance {
		return errors.New(errors.ErrCodeInvalidConfig,
			"%d columns of %gpt cards need %.2fpt but only %.2fpt fit between the margins",
			t.Grid.Columns, t.Card.Width, needW, uw)
	}
	if needH > uh+fitTolerance {
		return errors.New(errors.ErrCodeInvalidConfig,
			"%d rows of %gpt cards need %.2fpt but only %.2fpt fit between the margins",
			t.Grid.Rows, t.Card.Height, needH, uh)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// String summarizes the sheet geometry, e.g. for debug logs.
func (t Template) String() string {
	return fmt.Sprintf("%gx%gpt page, %dx%d grid of %gx%gpt cards",
		t.Page.Width, t.Page.Height, t.Grid.Columns, t.Grid.Rows, t.Card.Width, t.Card.Height)
}
