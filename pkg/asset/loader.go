package asset

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/observability"
	"github.com/matzehuels/cardpress/pkg/render/draw"
	"github.com/matzehuels/cardpress/pkg/template"
)

// Kind is the role an image plays on a card.
type Kind string

const (
	// KindBackground is a record logo covering the whole card, faded.
	KindBackground Kind = "background"
	// KindLogo is a record logo contain-fitted into a corner box.
	KindLogo Kind = "logo"
	// KindQR is a generated QR code.
	KindQR Kind = "qr"
)

// Request describes one image a card needs. Sizes are in points.
type Request struct {
	Kind    Kind
	Path    string // image file, for background and logo requests
	Content string // encoded text, for QR requests
	Width   float64
	Height  float64

	// Background requests only.
	Background color.NRGBA
	Opacity    float64
	Radius     float64 // corner radius of the card

	// QR requests only.
	QR template.QR
}

// key identifies the derived image.
func (r Request) key() string {
	switch r.Kind {
	case KindQR:
		return "qr:" + cache.Hash(fmt.Appendf(nil, "%s|%+v", r.Content, r.QR))[:16]
	case KindBackground:
		return "bg:" + cache.Hash(fmt.Appendf(nil, "%s|%gx%g|%s|%g|%g",
			r.Path, r.Width, r.Height, draw.Hex(r.Background), r.Opacity, r.Radius))[:16]
	}
	return "logo:" + cache.Hash(fmt.Appendf(nil, "%s|%gx%g", r.Path, r.Width, r.Height))[:16]
}

// Option configures a [Loader].
type Option func(*Loader)

// WithBaseDir sets the directory relative image paths are resolved against.
func WithBaseDir(dir string) Option { return func(l *Loader) { l.baseDir = dir } }

// WithDPI sets the resolution file images are rasterised at (default 150).
func WithDPI(dpi float64) Option {
	return func(l *Loader) {
		if dpi > 0 {
			l.dpi = dpi
		}
	}
}

// WithCache stores generated QR images in c under keys from keyer.
func WithCache(c cache.Cache, keyer cache.Keyer) Option {
	return func(l *Loader) {
		l.cache = c
		if keyer != nil {
			l.keyer = keyer
		}
	}
}

// WithLogger sets the logger for decode diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithConcurrency bounds the number of parallel decodes in Prefetch.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

type result struct {
	img draw.Image
	err error
}

// Loader produces card images and memoises them for the life of a run.
// It is safe for concurrent use.
type Loader struct {
	baseDir     string
	dpi         float64
	cache       cache.Cache
	keyer       cache.Keyer
	logger      *log.Logger
	concurrency int

	group   singleflight.Group
	mu      sync.Mutex
	sources map[string]image.Image
	results map[string]result
}

// NewLoader returns a loader with the given options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		dpi:         150,
		cache:       cache.NewNullCache(),
		keyer:       cache.NewDefaultKeyer(),
		logger:      log.New(io.Discard),
		concurrency: 4,
		sources:     make(map[string]image.Image),
		results:     make(map[string]result),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the image for req. Results, failures included, are memoised
// so a broken logo shared by many cards is reported once per card but read
// only once.
func (l *Loader) Load(ctx context.Context, req Request) (draw.Image, error) {
	if err := ctx.Err(); err != nil {
		return draw.Image{}, err
	}
	key := req.key()

	l.mu.Lock()
	res, ok := l.results[key]
	l.mu.Unlock()
	if ok {
		return res.img, res.err
	}

	v, _, _ := l.group.Do(key, func() (any, error) {
		img, err := l.build(ctx, key, req)
		built := result{img: img, err: err}
		if ctx.Err() == nil {
			l.mu.Lock()
			l.results[key] = built
			l.mu.Unlock()
		}
		return built, nil
	})
	res = v.(result)
	return res.img, res.err
}

func (l *Loader) build(ctx context.Context, key string, req Request) (draw.Image, error) {
	switch req.Kind {
	case KindQR:
		return l.codedImage(ctx, key, req)
	case KindBackground:
		src, err := l.source(req.Path)
		if err != nil {
			return draw.Image{}, err
		}
		w, h := pixels(req.Width, l.dpi), pixels(req.Height, l.dpi)
		faded := Fade(Cover(src, w, h), req.Background, req.Opacity)
		return l.finish(key, Round(faded, req.Radius*l.dpi/72))
	case KindLogo:
		src, err := l.source(req.Path)
		if err != nil {
			return draw.Image{}, err
		}
		w, h := pixels(req.Width, l.dpi), pixels(req.Height, l.dpi)
		return l.finish(key, Contain(src, w, h))
	}
	return draw.Image{}, errors.New(errors.ErrCodeInternal, "unknown asset kind %q", req.Kind)
}

func (l *Loader) finish(key string, img image.Image) (draw.Image, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return draw.Image{}, errors.Wrap(errors.ErrCodeAssetUnavailable, err, "encode %s", key)
	}
	b := img.Bounds()
	return draw.Image{Key: key, Data: data, PixelW: b.Dx(), PixelH: b.Dy()}, nil
}

func (l *Loader) codedImage(ctx context.Context, key string, req Request) (draw.Image, error) {
	size := req.QR.PixelSize()
	cacheKey := l.keyer.CodedImageKey(req.Content, cache.CodedImageKeyOpts{
		Encoder:    req.QR.Encoder,
		Size:       size,
		Level:      req.QR.Level,
		Color:      req.QR.Color,
		Background: req.QR.Background,
		Sharpen:    req.QR.Sharpen,
	})
	hooks := observability.Cache()

	if data, ok, err := l.cache.Get(ctx, cacheKey); err != nil {
		l.logger.Debug("qr cache read failed", "error", err)
	} else if ok {
		hooks.OnCacheHit(ctx, "qr")
		return draw.Image{Key: key, Data: data, PixelW: size, PixelH: size}, nil
	}
	hooks.OnCacheMiss(ctx, "qr")

	img, err := EncodeQR(req.Content, req.QR)
	if err != nil {
		return draw.Image{}, err
	}
	out, err := l.finish(key, img)
	if err != nil {
		return draw.Image{}, err
	}
	if err := l.cache.Set(ctx, cacheKey, out.Data, cache.TTLCodedImage); err != nil {
		l.logger.Debug("qr cache write failed", "error", err)
	} else {
		hooks.OnCacheSet(ctx, "qr", len(out.Data))
	}
	return out, nil
}

// source decodes the file at path once per loader.
func (l *Loader) source(path string) (image.Image, error) {
	resolved := l.Resolve(path)

	l.mu.Lock()
	img, ok := l.sources[resolved]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	v, err, _ := l.group.Do("src:"+resolved, func() (any, error) {
		img, err := DecodeFile(resolved, l.dpi)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		l.logger.Debug("decoded image", "path", resolved, "width", b.Dx(), "height", b.Dy())
		l.mu.Lock()
		l.sources[resolved] = img
		l.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// Resolve returns path made absolute against the base directory.
func (l *Loader) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || l.baseDir == "" {
		return path
	}
	return filepath.Join(l.baseDir, path)
}

// Fingerprint identifies the current content of an image file by its
// resolved path, size and modification time. Missing files fingerprint as
// such, so a file appearing later changes the fingerprint.
func (l *Loader) Fingerprint(path string) string {
	resolved := l.Resolve(path)
	info, err := os.Stat(resolved)
	if err != nil {
		return resolved + ":missing"
	}
	return fmt.Sprintf("%s:%d:%d", resolved, info.Size(), info.ModTime().UnixNano())
}
