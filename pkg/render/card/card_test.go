package card

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/cardpress/pkg/asset"
	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/draw"
	"github.com/matzehuels/cardpress/pkg/template"
)

type fakeAssets struct {
	fail  map[asset.Kind]bool
	calls []asset.Request
}

func (f *fakeAssets) Load(_ context.Context, req asset.Request) (draw.Image, error) {
	f.calls = append(f.calls, req)
	if f.fail[req.Kind] {
		return draw.Image{}, errors.New(errors.ErrCodeAssetUnavailable, "broken %s", req.Kind)
	}
	return draw.Image{Key: string(req.Kind), PixelW: 100, PixelH: 50}, nil
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

var cardRect = draw.Rect{X: 28.3465, Y: 28.3465, W: 241, H: 156}

func fullRecord() cards.Record {
	return cards.Record{
		Name:         "Dra. Ana Souza",
		Professional: "Cardiologista\nEcocardiografia e Ergometria",
		Company:      "Clínica Coração",
		CRMNumber:    "123456",
		CRMRegion:    "BA",
		Phone:        "(71) 3333-4444",
		Email:        "ana.souza@clinica.com.br",
		Website:      "clinica.com.br",
		LogoPath:     "logo.png",
	}
}

func roles(ops []draw.Op) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Layer()
	}
	return out
}

func find(ops []draw.Op, role string) []draw.Op {
	var out []draw.Op
	for _, op := range ops {
		if op.Layer() == role {
			out = append(out, op)
		}
	}
	return out
}

func textOf(t *testing.T, ops []draw.Op, role string) draw.TextBlock {
	t.Helper()
	found := find(ops, role)
	if len(found) != 1 {
		t.Fatalf("%s ops = %d, want 1", role, len(found))
	}
	op, ok := found[0].(draw.TextOp)
	if !ok {
		t.Fatalf("%s op is %T, want draw.TextOp", role, found[0])
	}
	return op.Block
}

func TestComposePaintOrder(t *testing.T) {
	c := New(template.Default(), &fakeAssets{})
	ops, warnings := c.Compose(context.Background(), cardRect, fullRecord())
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}

	want := []string{
		LayerShadow, LayerBackground, LayerBackgroundImage,
		LayerTopRule, LayerTopRule,
		LayerName, LayerIdentity, LayerCredentialChip, LayerCredential, LayerContact,
		LayerQRFrame, LayerQRFrame, LayerQR,
		LayerBorder,
	}
	for i := 0; i < 8; i++ {
		want = append(want, LayerCropMarks)
	}
	got := roles(ops)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("paint order:\n got %v\nwant %v", got, want)
	}

	if qr, ok := find(ops, LayerQR)[0].(draw.CodedImageOp); !ok || qr.Content != "https://clinica.com.br" {
		t.Errorf("QR op = %#v, want coded image of https://clinica.com.br", find(ops, LayerQR)[0])
	}
}

func TestComposeLayoutCollapse(t *testing.T) {
	tpl := template.Default()
	c := New(tpl, nil)
	rec := cards.Record{Name: "Ana", Title: "Engenheira", Phone: "(11) 98765-4321"}

	ops, _ := c.Compose(context.Background(), cardRect, rec)
	if n := len(find(ops, LayerCredentialChip)) + len(find(ops, LayerCredential)); n != 0 {
		t.Errorf("credential ops = %d, want 0", n)
	}

	name := textOf(t, ops, LayerName)
	identity := textOf(t, ops, LayerIdentity)
	contact := textOf(t, ops, LayerContact)

	if name.Y != cardRect.Y+tpl.Card.Padding {
		t.Errorf("name Y = %v, want %v", name.Y, cardRect.Y+tpl.Card.Padding)
	}
	if want := name.Y + name.Height() + tpl.Card.SectionSpacing; !approx(identity.Y, want) {
		t.Errorf("identity Y = %v, want %v", identity.Y, want)
	}
	if want := identity.Y + identity.Height() + tpl.Card.SectionSpacing; !approx(contact.Y, want) {
		t.Errorf("contact Y = %v, want %v (no gap for the missing chip)", contact.Y, want)
	}
	if len(contact.Lines) != 1 || contact.Lines[0] != "T: (11) 98765-4321" {
		t.Errorf("contact lines = %q", contact.Lines)
	}
}

func TestComposeCredential(t *testing.T) {
	tests := []struct {
		name      string
		rec       cards.Record
		wantLabel string
		wantKind  string
	}{
		{
			name:      "crm wins over company",
			rec:       cards.Record{Name: "Ana", Company: "Clínica", CRMNumber: "123", CRMRegion: "SP"},
			wantLabel: "CRM: 123/SP",
			wantKind:  draw.KindGradient,
		},
		{
			name:      "company chip",
			rec:       cards.Record{Name: "Ana", Company: "Acme"},
			wantLabel: "Acme",
			wantKind:  draw.KindFillRect,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, _ := New(template.Default(), nil).Compose(context.Background(), cardRect, tt.rec)
			chips := find(ops, LayerCredentialChip)
			if len(chips) != 1 {
				t.Fatalf("chips = %d, want 1", len(chips))
			}
			if chips[0].Kind() != tt.wantKind {
				t.Errorf("chip kind = %s, want %s", chips[0].Kind(), tt.wantKind)
			}
			label := textOf(t, ops, LayerCredential)
			if len(label.Lines) != 1 || label.Lines[0] != tt.wantLabel {
				t.Errorf("label = %q, want %q", label.Lines, tt.wantLabel)
			}
		})
	}
}

func TestComposeCredentialTooWide(t *testing.T) {
	tpl := template.Default()
	rec := cards.Record{Name: "Ana", Company: strings.Repeat("Clinica ", 10)}
	ops, warnings := New(tpl, nil).Compose(context.Background(), cardRect, rec)

	right := cardRect.Right() - tpl.Card.Padding
	chips := find(ops, LayerCredentialChip)
	if len(chips) != 1 {
		t.Fatalf("chips = %d, want 1", len(chips))
	}
	chip, ok := chips[0].(draw.FillRectOp)
	if !ok {
		t.Fatalf("chip is %T, want draw.FillRectOp", chips[0])
	}
	if chip.Rect.Right() > right+1e-9 {
		t.Errorf("chip right = %.1f, card content ends at %.1f", chip.Rect.Right(), right)
	}

	label := textOf(t, ops, LayerCredential)
	if len(label.Lines) != 1 || !strings.HasSuffix(label.Lines[0], ellipsis) {
		t.Fatalf("label = %q, want one line cut with an ellipsis", label.Lines)
	}
	if end := label.X + EstimateWidth(label.Lines[0], label.Font.Size); end > right+1e-9 {
		t.Errorf("text right = %.1f, card content ends at %.1f", end, right)
	}

	var overflow int
	for _, w := range warnings {
		if w.Layer == LayerCredential && errors.Is(w.Err, errors.ErrCodeOverflow) {
			overflow++
		}
	}
	if overflow != 1 {
		t.Errorf("credential overflow warnings = %d, want 1 (all: %v)", overflow, warnings)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		width  float64
		want   string
		wantOK bool
	}{
		{"fits", "Acme", 60, "Acme", true},
		{"cut at width", "abcdefghij", 42, "abcd...", false},
		{"trailing space dropped", "ab cdefghij", 30, "ab...", false},
		{"nothing fits", "abcdef", 6, "...", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// size 10: each rune is 6pt wide.
			got, ok := Truncate(tt.text, 10, tt.width)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Truncate() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestComposeIdentityWrap(t *testing.T) {
	tpl := template.Default()
	rec := cards.Record{
		Name:         "Ana",
		Title:        "ignored",
		Professional: "Cardiologista\nEcocardiografia, Ergometria, Holter e Mapa de Pressão Arterial Ambulatorial",
	}
	ops, _ := New(tpl, nil).Compose(context.Background(), cardRect, rec)
	block := textOf(t, ops, LayerIdentity)

	if block.Lines[0] != "Cardiologista" {
		t.Errorf("first line = %q, want the first segment", block.Lines[0])
	}
	if len(block.Lines) < 3 {
		t.Errorf("lines = %q, want the long segment wrapped", block.Lines)
	}
	for _, line := range block.Lines {
		if EstimateWidth(line, tpl.Fonts.Identity) > block.Width {
			t.Errorf("line %q wider than %v", line, block.Width)
		}
		if strings.Contains(line, "ignored") {
			t.Error("title rendered although professional is set")
		}
	}
}

func TestComposeAssetFailureDegrades(t *testing.T) {
	assets := &fakeAssets{fail: map[asset.Kind]bool{asset.KindBackground: true, asset.KindQR: true}}
	ops, warnings := New(template.Default(), assets).Compose(context.Background(), cardRect, fullRecord())

	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
	for _, w := range warnings {
		if !errors.Is(w.Err, errors.ErrCodeAssetUnavailable) {
			t.Errorf("warning %s has code %s", w, errors.GetCode(w.Err))
		}
	}
	if len(find(ops, LayerBackgroundImage)) != 0 || len(find(ops, LayerQR)) != 0 {
		t.Error("failed layers were still drawn")
	}
	if len(find(ops, LayerGradient)) != 1 {
		t.Error("gradient fallback missing")
	}
	if len(find(ops, LayerName)) != 1 {
		t.Error("card text missing after asset failure")
	}
}

func TestComposeNilAssets(t *testing.T) {
	ops, warnings := New(template.Default(), nil).Compose(context.Background(), cardRect, fullRecord())
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none without an asset provider", warnings)
	}
	for _, op := range ops {
		if op.Kind() == draw.KindImage || op.Kind() == draw.KindCodedImage {
			t.Errorf("unexpected %s op", op.Kind())
		}
	}
}

func TestComposeCornerLogo(t *testing.T) {
	tpl := template.Default()
	tpl.Card.Logo.Placement = template.LogoCorner
	tpl.QR.Enabled = false

	ops, _ := New(tpl, &fakeAssets{}).Compose(context.Background(), cardRect, fullRecord())
	logos := find(ops, LayerLogo)
	if len(logos) != 1 {
		t.Fatalf("logo ops = %d, want 1", len(logos))
	}
	logo := logos[0].(draw.ImageOp)
	if !approx(logo.Rect.W, tpl.Card.Logo.Width) || !approx(logo.Rect.H, tpl.Card.Logo.Height/2) {
		t.Errorf("logo rect = %+v, want contain-fit of a 2:1 image", logo.Rect)
	}
	if len(find(ops, LayerBackgroundImage)) != 0 {
		t.Error("corner placement also drew a background image")
	}

	name := textOf(t, ops, LayerName)
	if want := cardRect.X + tpl.Card.Padding + tpl.Card.Logo.Width + tpl.Card.Logo.Gap; !approx(name.X, want) {
		t.Errorf("name X = %v, want %v", name.X, want)
	}

	failed := &fakeAssets{fail: map[asset.Kind]bool{asset.KindLogo: true}}
	ops, _ = New(tpl, failed).Compose(context.Background(), cardRect, fullRecord())
	if name := textOf(t, ops, LayerName); !approx(name.X, cardRect.X+tpl.Card.Padding) {
		t.Errorf("name X = %v, want no shift when the logo fails", name.X)
	}
}

func TestComposeQRNarrowsText(t *testing.T) {
	tests := []struct {
		position string
		shiftX   bool
	}{
		{template.TopRight, false},
		{template.TopLeft, true},
	}
	for _, tt := range tests {
		t.Run(tt.position, func(t *testing.T) {
			tpl := template.Default()
			tpl.QR.Position = tt.position
			ops, _ := New(tpl, &fakeAssets{}).Compose(context.Background(), cardRect, fullRecord())

			name := textOf(t, ops, LayerName)
			full := cardRect.W - 2*tpl.Card.Padding
			shift := tpl.QR.Size + tpl.QR.Gap
			if !approx(name.Width, full-shift) {
				t.Errorf("name width = %v, want %v", name.Width, full-shift)
			}
			wantX := cardRect.X + tpl.Card.Padding
			if tt.shiftX {
				wantX += shift
			}
			if !approx(name.X, wantX) {
				t.Errorf("name X = %v, want %v", name.X, wantX)
			}

			box := QRBox(cardRect, tpl)
			frame := find(ops, LayerQRFrame)[0].(draw.FillRectOp)
			if frame.Rect != box {
				t.Errorf("frame = %+v, want %+v", frame.Rect, box)
			}
			code := find(ops, LayerQR)[0].(draw.CodedImageOp)
			if code.Rect != box.Inset(tpl.QR.Margin/4) {
				t.Errorf("code rect = %+v, want inset frame", code.Rect)
			}
		})
	}
}

func TestComposeOverflow(t *testing.T) {
	t.Run("ellipsis on the last kept line", func(t *testing.T) {
		tpl := template.Default()
		tpl.Card.Height = 75
		rect := draw.Rect{W: tpl.Card.Width, H: tpl.Card.Height}
		rec := cards.Record{Name: "Ana", Title: "one\ntwo\nthree"}

		ops, warnings := New(tpl, nil).Compose(context.Background(), rect, rec)
		identity := textOf(t, ops, LayerIdentity)
		if len(identity.Lines) != 2 || identity.Lines[1] != "two..." {
			t.Errorf("identity lines = %q, want [one two...]", identity.Lines)
		}
		if len(warnings) != 1 || !errors.Is(warnings[0].Err, errors.ErrCodeOverflow) {
			t.Errorf("warnings = %v, want one overflow", warnings)
		}
	})

	t.Run("sections below the padding are dropped", func(t *testing.T) {
		tpl := template.Default()
		tpl.Card.Height = 60
		rect := draw.Rect{W: tpl.Card.Width, H: tpl.Card.Height}
		rec := cards.Record{Name: "Ana", Title: "Engenheira", Phone: "(11) 98765-4321"}

		ops, warnings := New(tpl, nil).Compose(context.Background(), rect, rec)
		if len(find(ops, LayerIdentity)) != 0 || len(find(ops, LayerContact)) != 0 {
			t.Error("sections past the bottom padding were drawn")
		}
		if len(warnings) != 2 {
			t.Errorf("warnings = %v, want 2", warnings)
		}
	})
}

func TestComposeCropMarks(t *testing.T) {
	t.Run("marks extend outward", func(t *testing.T) {
		tpl := template.Default()
		ops, _ := New(tpl, nil).Compose(context.Background(), cardRect, cards.Record{Name: "Ana"})
		marks := find(ops, LayerCropMarks)
		if len(marks) != 8 {
			t.Fatalf("marks = %d, want 8", len(marks))
		}
		for _, op := range marks {
			l := op.(draw.LineOp)
			inside := cardRect.Contains(draw.Rect{X: l.X2, Y: l.Y2})
			if inside {
				t.Errorf("mark %+v ends inside the card", l)
			}
			if len(l.Stroke.Dash) == 0 {
				t.Error("mark is not dashed")
			}
		}
	})

	t.Run("lines style outlines the card", func(t *testing.T) {
		tpl := template.Default()
		tpl.CutLines.Style = template.CutLines
		ops, _ := New(tpl, nil).Compose(context.Background(), cardRect, cards.Record{Name: "Ana"})
		marks := find(ops, LayerCropMarks)
		if len(marks) != 1 || marks[0].Kind() != draw.KindStrokeRect {
			t.Fatalf("marks = %v, want one dashed outline", roles(marks))
		}
	})

	t.Run("disabled", func(t *testing.T) {
		tpl := template.Default()
		tpl.CutLines.Enabled = false
		ops, _ := New(tpl, nil).Compose(context.Background(), cardRect, cards.Record{Name: "Ana"})
		if len(find(ops, LayerCropMarks)) != 0 {
			t.Error("crop marks drawn while disabled")
		}
	})
}

func TestRequests(t *testing.T) {
	tpl := template.Default()
	reqs := Requests(tpl, fullRecord())
	if len(reqs) != 2 || reqs[0].Kind != asset.KindBackground || reqs[1].Kind != asset.KindQR {
		t.Fatalf("Requests() = %+v, want background and QR", reqs)
	}
	if reqs[1].Content != "https://clinica.com.br" {
		t.Errorf("QR content = %q", reqs[1].Content)
	}

	tpl.Card.Logo.Placement = template.LogoCorner
	tpl.QR.Enabled = false
	reqs = Requests(tpl, fullRecord())
	if len(reqs) != 1 || reqs[0].Kind != asset.KindLogo {
		t.Errorf("Requests() = %+v, want a single logo", reqs)
	}

	if reqs := Requests(tpl, cards.Record{Name: "Ana"}); len(reqs) != 0 {
		t.Errorf("Requests() = %+v, want none", reqs)
	}
}

func TestComposeMatchesRequests(t *testing.T) {
	assets := &fakeAssets{}
	tpl := template.Default()
	New(tpl, assets).Compose(context.Background(), cardRect, fullRecord())

	want := Requests(tpl, fullRecord())
	if len(assets.calls) != len(want) {
		t.Fatalf("loads = %d, want %d", len(assets.calls), len(want))
	}
	for i := range want {
		if assets.calls[i] != want[i] {
			t.Errorf("load %d = %+v, want %+v", i, assets.calls[i], want[i])
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"empty", "", 100, nil},
		{"fits", "Ana Souza", 100, []string{"Ana Souza"}},
		{"breaks at words", "aaaa bbbb cccc", 60, []string{"aaaa bbbb", "cccc"}},
		{"long word keeps its line", "abcdefghijklmnop", 30, []string{"abcdefghijklmnop"}},
		{"explicit newlines", "one\n\ntwo", 100, []string{"one", "two"}},
		{"collapses spaces", "a   b", 100, []string{"a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// size 10: each rune is 6pt wide.
			got := Wrap(tt.text, 10, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("Wrap() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContactLines(t *testing.T) {
	got := ContactLines(cards.Record{Email: "a@b.com", Website: "b.com"})
	want := []string{"E: a@b.com", "W: b.com"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("ContactLines() = %q, want %q", got, want)
	}
}
