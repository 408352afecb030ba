package asset

import (
	"image"
	"image/color"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/draw"
	"github.com/matzehuels/cardpress/pkg/template"
)

// quietZone is the share of the image side left blank around a barcode
// encoder symbol. go-qrcode adds its own border.
const quietZone = 0.08

// EncodeQR renders content as a square QR image of q.PixelSize() pixels in
// the template's colors.
func EncodeQR(content string, q template.QR) (image.Image, error) {
	if content == "" {
		return nil, errors.New(errors.ErrCodeAssetUnavailable, "empty QR content")
	}
	size := q.PixelSize()
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeAssetUnavailable, "QR size must be positive")
	}
	fg := draw.MustColor(q.Color)
	bg := draw.MustColor(q.Background)

	var (
		img image.Image
		err error
	)
	switch q.Encoder {
	case template.EncoderBarcode:
		img, err = encodeBarcode(content, q.Level, size, fg, bg)
	default:
		img, err = encodeQRCode(content, q.Level, size, fg, bg)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetUnavailable, err, "encode QR code for %q", content)
	}
	if q.Sharpen {
		img = imaging.Sharpen(img, 0.5)
	}
	return img, nil
}

func encodeQRCode(content, level string, size int, fg, bg color.NRGBA) (image.Image, error) {
	code, err := qrcode.New(content, skip2Level(level))
	if err != nil {
		return nil, err
	}
	code.ForegroundColor = fg
	code.BackgroundColor = bg
	return code.Image(size), nil
}

func encodeBarcode(content, level string, size int, fg, bg color.NRGBA) (image.Image, error) {
	code, err := qr.Encode(content, boombulerLevel(level), qr.Auto)
	if err != nil {
		return nil, err
	}
	inner := max(1, int(float64(size)*(1-2*quietZone)))
	scaled, err := barcode.Scale(code, inner, inner)
	if err != nil {
		return nil, err
	}
	symbol := imaging.AdjustFunc(scaled, func(c color.NRGBA) color.NRGBA {
		if int(c.R)+int(c.G)+int(c.B) < 3*128 {
			return fg
		}
		return bg
	})
	canvas := imaging.New(size, size, bg)
	offset := (size - inner) / 2
	return imaging.Paste(canvas, symbol, image.Pt(offset, offset)), nil
}

func skip2Level(level string) qrcode.RecoveryLevel {
	switch strings.ToUpper(level) {
	case "L":
		return qrcode.Low
	case "M":
		return qrcode.Medium
	case "Q":
		return qrcode.High
	}
	return qrcode.Highest
}

func boombulerLevel(level string) qr.ErrorCorrectionLevel {
	switch strings.ToUpper(level) {
	case "L":
		return qr.L
	case "M":
		return qr.M
	case "Q":
		return qr.Q
	}
	return qr.H
}
