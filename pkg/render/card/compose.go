package card

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/matzehuels/cardpress/pkg/asset"
	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/draw"
	"github.com/matzehuels/cardpress/pkg/template"
)

// Layer roles, in paint order.
const (
	LayerShadow          = "shadow"
	LayerBackground      = "background"
	LayerBackgroundImage = "background-image"
	LayerGradient        = "background-gradient"
	LayerLogo            = "logo"
	LayerTopRule         = "top-rule"
	LayerName            = "name"
	LayerIdentity        = "identity"
	LayerCredentialChip  = "credential-chip"
	LayerCredential      = "credential"
	LayerContact         = "contact"
	LayerQRFrame         = "qr-frame"
	LayerQR              = "qr"
	LayerBorder          = "border"
	LayerCropMarks       = "crop-marks"
)

// Contact line tags.
const (
	TagPhone   = "T:"
	TagEmail   = "E:"
	TagWebsite = "W:"
)

// Assets supplies the images a card needs.
type Assets interface {
	Load(ctx context.Context, req asset.Request) (draw.Image, error)
}

// Warning is a non-fatal problem met while composing a card. The layer it
// names was skipped or cut.
type Warning struct {
	Layer string
	Err   error
}

// String formats the warning for logs.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Layer, w.Err)
}

// palette holds the template colors, parsed once.
type palette struct {
	primary, secondary, accent, highlight, medical color.NRGBA
	background, border, chipCRM, chipCompany       color.NRGBA
	shadow, cut                                    color.NRGBA
	gradFrom, gradTo, accentFrom, accentTo         color.NRGBA
	qrBackground, qrBorder                         color.NRGBA
}

func newPalette(t template.Template) palette {
	c := draw.MustColor
	return palette{
		primary:      c(t.Colors.Primary),
		secondary:    c(t.Colors.Secondary),
		accent:       c(t.Colors.Accent),
		highlight:    c(t.Colors.Highlight),
		medical:      c(t.Colors.Medical),
		background:   c(t.Colors.Background),
		border:       c(t.Colors.Border),
		chipCRM:      c(t.Colors.ChipCRM),
		chipCompany:  c(t.Colors.ChipCompany),
		shadow:       c(t.Card.Shadow.Color),
		cut:          c(t.CutLines.Color),
		gradFrom:     c(t.Gradients.Primary.From),
		gradTo:       c(t.Gradients.Primary.To),
		accentFrom:   c(t.Gradients.Accent.From),
		accentTo:     c(t.Gradients.Accent.To),
		qrBackground: c(t.QR.Background),
		qrBorder:     c(t.QR.BorderColor),
	}
}

// Compositor turns records into draw operations for one template. It holds
// no per-card state and is safe for concurrent use if its Assets are.
type Compositor struct {
	tpl    template.Template
	colors palette
	assets Assets
}

// New returns a compositor. A nil assets skips every image layer without
// warnings.
func New(tpl template.Template, assets Assets) *Compositor {
	return &Compositor{tpl: tpl, colors: newPalette(tpl), assets: assets}
}

// Compose returns the draw operations for rec inside rect, bottom layer
// first, and the warnings raised on the way.
func (c *Compositor) Compose(ctx context.Context, rect draw.Rect, rec cards.Record) ([]draw.Op, []Warning) {
	pad := c.tpl.Card.Padding
	b := &builder{
		Compositor: c,
		rect:       rect,
		x:          rect.X + pad,
		width:      rect.W - 2*pad,
		y:          rect.Y + pad,
		limit:      rect.Bottom() - pad,
	}

	b.shadow()
	b.background(ctx, rec)
	b.cornerLogo(ctx, rec)
	b.topRule()
	code, hasCode := b.reserveQR(ctx, rec)
	b.name(rec)
	b.identity(rec)
	b.credential(rec)
	b.contact(rec)
	if hasCode {
		b.codedImage(rec, code)
	}
	b.border()
	b.cropMarks()
	return b.ops, b.warnings
}

// Requests lists the images Compose will ask for rec, so they can be
// loaded ahead of time.
func Requests(tpl template.Template, rec cards.Record) []asset.Request {
	var reqs []asset.Request
	if rec.LogoPath != "" {
		switch tpl.Card.Logo.Placement {
		case template.LogoCorner:
			reqs = append(reqs, logoRequest(tpl, rec))
		default:
			reqs = append(reqs, backgroundRequest(tpl, rec))
		}
	}
	if tpl.QR.Enabled && rec.Website != "" {
		reqs = append(reqs, qrRequest(tpl, rec))
	}
	return reqs
}

func backgroundRequest(t template.Template, rec cards.Record) asset.Request {
	return asset.Request{
		Kind:       asset.KindBackground,
		Path:       rec.LogoPath,
		Width:      t.Card.Width,
		Height:     t.Card.Height,
		Background: draw.MustColor(t.Colors.Background),
		Opacity:    t.Card.Logo.Opacity,
		Radius:     t.Card.Radius,
	}
}

func logoRequest(t template.Template, rec cards.Record) asset.Request {
	return asset.Request{
		Kind:   asset.KindLogo,
		Path:   rec.LogoPath,
		Width:  t.Card.Logo.Width,
		Height: t.Card.Logo.Height,
	}
}

func qrRequest(t template.Template, rec cards.Record) asset.Request {
	return asset.Request{Kind: asset.KindQR, Content: rec.WebsiteURL(), QR: t.QR}
}

// builder carries the state of one Compose call.
type builder struct {
	*Compositor
	rect     draw.Rect
	ops      []draw.Op
	warnings []Warning

	x, width float64    // text column
	y        float64    // top of the next section
	limit    float64    // lowest y text may reach
	qr       *draw.Rect // area kept free for the QR code
}

func (b *builder) add(op draw.Op) { b.ops = append(b.ops, op) }

func (b *builder) warn(layer string, err error) {
	b.warnings = append(b.warnings, Warning{Layer: layer, Err: err})
}

func (b *builder) load(ctx context.Context, req asset.Request) (draw.Image, error) {
	if b.assets == nil {
		return draw.Image{}, errNoAssets
	}
	return b.assets.Load(ctx, req)
}

var errNoAssets = errors.New(errors.ErrCodeAssetUnavailable, "no asset provider")

func (b *builder) shadow() {
	s := b.tpl.Card.Shadow
	if !s.Enabled {
		return
	}
	b.add(draw.FillRectOp{
		Role:   LayerShadow,
		Rect:   b.rect.Offset(s.Offset, s.Offset),
		Color:  b.colors.shadow,
		Radius: b.tpl.Card.Radius,
	})
}

func (b *builder) background(ctx context.Context, rec cards.Record) {
	radius := b.tpl.Card.Radius
	b.add(draw.FillRectOp{Role: LayerBackground, Rect: b.rect, Color: b.colors.background, Radius: radius})

	if rec.LogoPath != "" && b.tpl.Card.Logo.Placement != template.LogoCorner {
		img, err := b.load(ctx, backgroundRequest(b.tpl, rec))
		if err == nil {
			b.add(draw.ImageOp{Role: LayerBackgroundImage, Image: img, Rect: b.rect})
			return
		}
		if err != errNoAssets {
			b.warn(LayerBackgroundImage, err)
		}
	}
	if b.tpl.Gradients.Enabled {
		b.add(draw.GradientOp{
			Role:   LayerGradient,
			Rect:   b.rect,
			From:   b.colors.gradFrom,
			To:     b.colors.gradTo,
			Radius: radius,
		})
	}
}

// cornerLogo draws the logo at the top-left padding corner and moves the
// text column right of it.
func (b *builder) cornerLogo(ctx context.Context, rec cards.Record) {
	logo := b.tpl.Card.Logo
	if rec.LogoPath == "" || logo.Placement != template.LogoCorner {
		return
	}
	img, err := b.load(ctx, logoRequest(b.tpl, rec))
	if err != nil {
		if err != errNoAssets {
			b.warn(LayerLogo, err)
		}
		return
	}
	box := draw.Rect{X: b.rect.X + b.tpl.Card.Padding, Y: b.rect.Y + b.tpl.Card.Padding, W: logo.Width, H: logo.Height}
	b.add(draw.ImageOp{Role: LayerLogo, Image: img, Rect: containRect(box, img.PixelW, img.PixelH)})

	shift := logo.Width + logo.Gap
	b.x += shift
	b.width -= shift
}

// containRect fits a pw x ph image into box at its top-left corner.
func containRect(box draw.Rect, pw, ph int) draw.Rect {
	if pw <= 0 || ph <= 0 {
		return box
	}
	s := math.Min(box.W/float64(pw), box.H/float64(ph))
	return draw.Rect{X: box.X, Y: box.Y, W: float64(pw) * s, H: float64(ph) * s}
}

func (b *builder) topRule() {
	rule := b.tpl.Card.TopRule
	if !rule.Enabled {
		return
	}
	pad := b.tpl.Card.Padding
	x1, x2 := b.rect.X+pad, b.rect.Right()-pad
	y := b.rect.Y + pad/2
	b.add(draw.LineOp{Role: LayerTopRule, X1: x1, Y1: y, X2: x2, Y2: y,
		Stroke: draw.Stroke{Color: b.colors.accent, Width: rule.Width}})
	y += rule.Gap
	b.add(draw.LineOp{Role: LayerTopRule, X1: x1, Y1: y, X2: x2, Y2: y,
		Stroke: draw.Stroke{Color: b.colors.highlight, Width: rule.Width}})
}

// reserveQR loads the QR image and, when it is available, claims its box
// so text sections flow around it.
func (b *builder) reserveQR(ctx context.Context, rec cards.Record) (draw.Image, bool) {
	q := b.tpl.QR
	if !q.Enabled || rec.Website == "" {
		return draw.Image{}, false
	}
	img, err := b.load(ctx, qrRequest(b.tpl, rec))
	if err != nil {
		if err != errNoAssets {
			b.warn(LayerQR, err)
		}
		return draw.Image{}, false
	}
	box := QRBox(b.rect, b.tpl)
	b.qr = &box
	return img, true
}

// QRBox returns the square the QR code occupies inside rect.
func QRBox(rect draw.Rect, t template.Template) draw.Rect {
	pad, size := t.Card.Padding, t.QR.Size
	box := draw.Rect{X: rect.X + pad, Y: rect.Y + pad, W: size, H: size}
	switch t.QR.Position {
	case template.TopRight, template.BottomRight:
		box.X = rect.Right() - pad - size
	}
	switch t.QR.Position {
	case template.BottomLeft, template.BottomRight:
		box.Y = rect.Bottom() - pad - size
	}
	return box
}

// column returns the text column for a section spanning [y, y+h], narrowed
// beside the QR box when the two meet vertically.
func (b *builder) column(y, h float64) (x, width float64) {
	x, width = b.x, b.width
	if b.qr == nil || y >= b.qr.Bottom() || y+h <= b.qr.Y {
		return x, width
	}
	shift := b.qr.W + b.tpl.QR.Gap
	if b.tpl.QR.Position == template.TopLeft || b.tpl.QR.Position == template.BottomLeft {
		x += shift
	}
	return x, width - shift
}

func (b *builder) lineHeight(size float64) float64 {
	return size*b.tpl.Fonts.LineHeight + b.tpl.Card.LineSpacing
}

func (b *builder) font(size float64, bold bool) draw.Font {
	return draw.Font{Family: b.tpl.Fonts.Family, Bold: bold, Size: size}
}

// section wraps text at the cursor, cuts it at the bottom padding, and
// advances the cursor past it. Empty text emits nothing and takes no space.
func (b *builder) section(role, text string, font draw.Font, c color.NRGBA) {
	lh := b.lineHeight(font.Size)
	x, w := b.column(b.y, lh)
	lines := Wrap(text, font.Size, w)
	if len(lines) == 0 {
		return
	}
	if nx, nw := b.column(b.y, lh*float64(len(lines))); nw != w {
		x, w = nx, nw
		lines = Wrap(text, font.Size, w)
	}
	lines = b.fit(role, lines, lh)
	if len(lines) == 0 {
		return
	}
	block := draw.TextBlock{
		X:          x,
		Y:          b.y,
		Width:      w,
		Lines:      lines,
		Font:       font,
		Color:      c,
		Align:      draw.AlignLeft,
		LineHeight: lh,
	}
	b.add(draw.TextOp{Role: role, Block: block})
	b.y += block.Height() + b.tpl.Card.SectionSpacing
}

// fit drops the lines that would cross the bottom padding and marks the
// cut with an ellipsis.
func (b *builder) fit(role string, lines []string, lh float64) []string {
	room := int(math.Floor((b.limit-b.y)/lh + 1e-9))
	if room >= len(lines) {
		return lines
	}
	b.warn(role, errors.New(errors.ErrCodeOverflow, "%d of %d lines do not fit on the card", len(lines)-max(room, 0), len(lines)))
	if room <= 0 {
		return nil
	}
	kept := append([]string(nil), lines[:room]...)
	kept[room-1] += ellipsis
	return kept
}

func (b *builder) name(rec cards.Record) {
	b.section(LayerName, rec.Name, b.font(b.tpl.Fonts.Name, true), b.colors.primary)
}

func (b *builder) identity(rec cards.Record) {
	b.section(LayerIdentity, rec.Identity(), b.font(b.tpl.Fonts.Identity, false), b.colors.secondary)
}

// credential draws the CRM chip, or the company chip for records without a
// registration.
func (b *builder) credential(rec cards.Record) {
	var (
		label string
		chip  draw.Op
		ink   color.NRGBA
		bold  bool
	)
	chipStyle := b.tpl.Card.Chip
	size := b.tpl.Fonts.Credential
	lh := size * b.tpl.Fonts.LineHeight
	h := lh + 2*chipStyle.PaddingY
	x, w := b.column(b.y, h)

	switch {
	case rec.HasCRM():
		label = fmt.Sprintf("%s: %s/%s", chipStyle.Label, rec.CRMNumber, rec.CRMRegion)
		ink, bold = b.colors.medical, true
	case rec.Company != "":
		label = rec.Company
		ink = b.colors.secondary
	default:
		return
	}

	if b.y+h > b.limit+1e-9 {
		b.warn(LayerCredential, errors.New(errors.ErrCodeOverflow, "credential chip does not fit on the card"))
		return
	}

	avail := w - 2*chipStyle.PaddingX
	if cut, ok := Truncate(label, size, avail); !ok {
		label = cut
		b.warn(LayerCredential, errors.New(errors.ErrCodeOverflow, "credential text does not fit the card width"))
	}
	textW := math.Min(EstimateWidth(label, size), avail)
	box := draw.Rect{X: x, Y: b.y, W: textW + 2*chipStyle.PaddingX, H: h}
	switch {
	case !rec.HasCRM():
		chip = draw.FillRectOp{Role: LayerCredentialChip, Rect: box, Color: b.colors.chipCompany, Radius: chipStyle.Radius}
	case b.tpl.Gradients.Enabled:
		chip = draw.GradientOp{Role: LayerCredentialChip, Rect: box, From: b.colors.accentFrom, To: b.colors.accentTo, Radius: chipStyle.Radius}
	default:
		chip = draw.FillRectOp{Role: LayerCredentialChip, Rect: box, Color: b.colors.chipCRM, Radius: chipStyle.Radius}
	}
	b.add(chip)
	b.add(draw.TextOp{Role: LayerCredential, Block: draw.TextBlock{
		X:          x + chipStyle.PaddingX,
		Y:          b.y + chipStyle.PaddingY,
		Width:      textW,
		Lines:      []string{label},
		Font:       b.font(size, bold),
		Color:      ink,
		Align:      draw.AlignLeft,
		LineHeight: lh,
	}})
	b.y += h + b.tpl.Card.SectionSpacing
}

// ContactLines returns the tagged contact lines of rec, skipping empty
// fields.
func ContactLines(rec cards.Record) []string {
	var lines []string
	for _, f := range []struct{ tag, value string }{
		{TagPhone, rec.Phone},
		{TagEmail, rec.Email},
		{TagWebsite, rec.Website},
	} {
		if f.value != "" {
			lines = append(lines, f.tag+" "+f.value)
		}
	}
	return lines
}

func (b *builder) contact(rec cards.Record) {
	text := strings.Join(ContactLines(rec), "\n")
	b.section(LayerContact, text, b.font(b.tpl.Fonts.Contact, false), b.colors.secondary)
}

func (b *builder) codedImage(rec cards.Record, img draw.Image) {
	q := b.tpl.QR
	box := *b.qr
	inner := box
	if q.Border {
		b.add(draw.FillRectOp{Role: LayerQRFrame, Rect: box, Color: b.colors.qrBackground, Radius: q.CornerRadius})
		b.add(draw.StrokeRectOp{
			Role:   LayerQRFrame,
			Rect:   box,
			Stroke: draw.Stroke{Color: b.colors.qrBorder, Width: q.BorderWidth},
			Radius: q.CornerRadius,
		})
		inner = box.Inset(q.Margin / 4)
	}
	b.add(draw.CodedImageOp{Role: LayerQR, Content: rec.WebsiteURL(), Image: img, Rect: inner})
}

func (b *builder) border() {
	border := b.tpl.Card.Border
	if !border.Enabled {
		return
	}
	b.add(draw.StrokeRectOp{
		Role:   LayerBorder,
		Rect:   b.rect,
		Stroke: draw.Stroke{Color: b.colors.border, Width: border.Width},
		Radius: b.tpl.Card.Radius,
	})
}

// cropMarks draws two short segments at each corner, extending outward
// along the card edges, or a dashed outline for the lines style.
func (b *builder) cropMarks() {
	cut := b.tpl.CutLines
	if !cut.Enabled {
		return
	}
	stroke := draw.Stroke{Color: b.colors.cut, Width: cut.Width, Dash: cut.Dash}
	if cut.Style == template.CutLines {
		b.add(draw.StrokeRectOp{Role: LayerCropMarks, Rect: b.rect, Stroke: stroke})
		return
	}
	r, l := b.rect, cut.Length
	for _, c := range []struct{ x, y, dx, dy float64 }{
		{r.X, r.Y, -1, -1},
		{r.Right(), r.Y, 1, -1},
		{r.X, r.Bottom(), -1, 1},
		{r.Right(), r.Bottom(), 1, 1},
	} {
		b.add(draw.LineOp{Role: LayerCropMarks, X1: c.x, Y1: c.y, X2: c.x + c.dx*l, Y2: c.y, Stroke: stroke})
		b.add(draw.LineOp{Role: LayerCropMarks, X1: c.x, Y1: c.y, X2: c.x, Y2: c.y + c.dy*l, Stroke: stroke})
	}
}
