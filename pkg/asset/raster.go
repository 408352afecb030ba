package asset

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Cover scales img to fill w x h and crops the overflow around the centre.
func Cover(img image.Image, w, h int) *image.NRGBA {
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}

// Contain scales img down to fit inside w x h, keeping its aspect ratio.
// Images that already fit are returned at their own size.
func Contain(img image.Image, w, h int) *image.NRGBA {
	return imaging.Fit(img, w, h, imaging.Lanczos)
}

// Fade draws img over a solid bg at the given opacity and returns the
// opaque result.
func Fade(img image.Image, bg color.NRGBA, opacity float64) *image.NRGBA {
	b := img.Bounds()
	base := imaging.New(b.Dx(), b.Dy(), color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 0xff})
	return imaging.Overlay(base, img, image.Pt(0, 0), opacity)
}

// Round makes the corners of img transparent outside a rounded rectangle of
// radius r pixels. A non-positive radius returns img unchanged.
func Round(img image.Image, r float64) image.Image {
	if r <= 0 {
		return img
	}
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawRoundedRectangle(0, 0, float64(b.Dx()), float64(b.Dy()), r)
	dc.Clip()
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	return dc.Image()
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pixels converts a length in points to pixels at dpi, at least one.
func pixels(pt, dpi float64) int {
	if dpi <= 0 {
		dpi = 72
	}
	return max(1, int(pt*dpi/72+0.5))
}
