package asset

import (
	"image"
	"image/draw"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"

	"github.com/matzehuels/cardpress/pkg/errors"
)

// maxSVGPixels bounds the raster size of one SVG side.
const maxSVGPixels = 4096

// DecodeFile decodes the image at path. SVG files are rasterised at dpi,
// taking their viewBox as a size in points.
func DecodeFile(path string, dpi float64) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetUnavailable, err, "open image %s", path)
	}
	defer f.Close()

	img, err := Decode(f, filepath.Ext(path), dpi)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetUnavailable, err, "decode image %s", path)
	}
	return img, nil
}

// Decode decodes an image stream. ext selects the decoder (".svg", ".bmp",
// anything else goes through imaging with EXIF orientation applied).
func Decode(r io.Reader, ext string, dpi float64) (image.Image, error) {
	switch strings.ToLower(ext) {
	case ".svg":
		return decodeSVG(r, dpi)
	case ".bmp":
		return bmp.Decode(r)
	}
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

func decodeSVG(r io.Reader, dpi float64) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 72
	}
	w := svgSide(icon.ViewBox.W, dpi)
	h := svgSide(icon.ViewBox.H, dpi)

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), image.Transparent, image.Point{}, draw.Src)
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return rgba, nil
}

func svgSide(pt, dpi float64) int {
	if pt <= 0 {
		pt = 72
	}
	px := int(math.Ceil(pt * dpi / 72))
	return max(1, min(px, maxSVGPixels))
}
