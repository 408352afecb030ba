// Package asset turns the external inputs of a card into embeddable PNG
// images: record logos (PNG, JPEG, GIF, BMP or SVG files) and QR codes.
//
// # Raster helpers
//
// [Cover], [Contain] and [Fade] are pure functions over images. Cover fills
// a box and crops the overflow around the centre; Contain fits inside a box
// without cropping or enlarging; Fade composites an image over a solid color
// at reduced opacity so text stays readable on top of it.
//
// # Coded images
//
// [EncodeQR] renders a QR code with one of two encoders, selected by the
// template: "qrcode" (skip2/go-qrcode) or "barcode" (boombuler/barcode).
//
// # Loader
//
// A [Loader] resolves logo paths against a base directory, decodes each file
// once, and memoises every derived image. Concurrent requests for the same
// image share one decode. Generated QR codes can be stored in a
// [cache.Cache] so repeated runs skip encoding.
//
//	l := asset.NewLoader(
//	    asset.WithBaseDir(filepath.Dir(input)),
//	    asset.WithCache(c, cache.NewDefaultKeyer()),
//	    asset.WithLogger(logger),
//	)
//	_ = l.Prefetch(ctx, card.Requests(tpl, rec))
//
// Failures carry the ASSET_UNAVAILABLE code; callers treat them as warnings.
package asset
