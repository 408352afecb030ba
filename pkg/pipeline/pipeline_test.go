package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/observability"
	"github.com/matzehuels/cardpress/pkg/render/sink"
	"github.com/matzehuels/cardpress/pkg/template"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"pdf", false},
		{"json", false},
		{"png", false},
		{"svg", true},
		{"PDF", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateDuplicate(t *testing.T) {
	for _, n := range []int{1, 10, MaxDuplicate} {
		if err := ValidateDuplicate(n); err != nil {
			t.Errorf("ValidateDuplicate(%d) error: %v", n, err)
		}
	}
	for _, n := range []int{-1, 0, MaxDuplicate + 1} {
		if err := ValidateDuplicate(n); err == nil {
			t.Errorf("ValidateDuplicate(%d) should fail", n)
		}
	}
}

func TestValidatePageCount(t *testing.T) {
	tests := []struct {
		format  string
		pages   int
		wantErr bool
	}{
		{FormatPNG, 1, false},
		{FormatPNG, MaxPNGPages, false},
		{FormatPNG, MaxPNGPages + 1, true},
		{FormatPDF, MaxPNGPages + 1, false},
		{FormatJSON, 1000, false},
	}
	for _, tt := range tests {
		err := ValidatePageCount(tt.format, tt.pages)
		if tt.wantErr != (err != nil) {
			t.Errorf("ValidatePageCount(%s, %d) error = %v, wantErr %v", tt.format, tt.pages, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ValidatePageCount(%s, %d) code = %v, want INVALID_INPUT", tt.format, tt.pages, err)
		}
	}
}

func TestRunnerRejectsLongPNG(t *testing.T) {
	raw := make([]any, 3)
	for i := range raw {
		raw[i] = map[string]any{"name": "Ana"}
	}
	// 300 cards at 10 per page.
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), raw, Options{Format: FormatPNG, Duplicate: MaxDuplicate})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("Execute() error = %v, want INVALID_INPUT", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Format != FormatPDF || opts.Duplicate != 1 || opts.Title != DefaultTitle {
		t.Errorf("defaults = %q, %d, %q", opts.Format, opts.Duplicate, opts.Title)
	}
	if opts.Template == nil || opts.DocumentID == "" || opts.Logger == nil {
		t.Error("template, document ID and logger should be set")
	}

	bad := template.Default()
	bad.Grid.Columns = 0
	opts = Options{Template: &bad}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("invalid template error = %v, want INVALID_CONFIG", err)
	}
}

func TestValidateRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want errors.Code
	}{
		{"valid", []any{map[string]any{"name": "Ana"}}, ""},
		{"not an array", map[string]any{"name": "Ana"}, errors.ErrCodeInvalidInput},
		{"empty", []any{}, errors.ErrCodeInvalidInput},
		{"failing card", []any{map[string]any{"name": ""}}, errors.ErrCodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRecords(context.Background(), tt.raw)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		cards, pages int
	}{
		{0, 0},
		{1, 1},
		{10, 1},
		{11, 2},
		{25, 3},
	}
	for _, tt := range tests {
		info := Describe(tt.cards, template.Default())
		if info.Pages != tt.pages || info.CardsPerPage != 10 {
			t.Errorf("Describe(%d) = %d pages, %d per page; want %d, 10", tt.cards, info.Pages, info.CardsPerPage, tt.pages)
		}
	}
	info := Describe(1, template.Default())
	if mm := info.PageWidthMM(); mm < 209.9 || mm > 210.1 {
		t.Errorf("page width = %.2f mm, want 210", mm)
	}
}

func sampleInput() []any {
	var out []any
	for _, r := range cards.SampleRecords() {
		data, _ := json.Marshal(r)
		var m map[string]any
		_ = json.Unmarshal(data, &m)
		out = append(out, m)
	}
	return out
}

func TestExecuteJSON(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	res, err := runner.Execute(context.Background(), sampleInput(), Options{Format: FormatJSON, Duplicate: 4})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	n := len(cards.SampleRecords()) * 4
	want := Describe(n, template.Default())
	if res.Info != want {
		t.Errorf("info = %+v, want %+v", res.Info, want)
	}

	var doc sink.Recorder
	if err := json.Unmarshal(res.Artifact, &doc); err != nil {
		t.Fatalf("artifact is not JSON: %v", err)
	}
	if len(doc.Pages) != want.Pages {
		t.Errorf("document has %d pages, want %d", len(doc.Pages), want.Pages)
	}
	if res.CacheHit {
		t.Error("first run should not hit the cache")
	}
}

func TestExecutePDF(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), sampleInput(), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !bytes.HasPrefix(res.Artifact, []byte("%PDF-")) {
		t.Errorf("artifact starts with %q, want %%PDF-", res.Artifact[:min(8, len(res.Artifact))])
	}
}

func TestExecuteValidationFailure(t *testing.T) {
	raw := []any{map[string]any{"name": "Ana"}, map[string]any{"name": "", "email": "bad"}}
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), raw, Options{})
	if !errors.Is(err, errors.ErrCodeValidationFailed) {
		t.Errorf("Execute() error = %v, want VALIDATION_FAILED", err)
	}
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func TestRunnerCache(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.png")
	if err := imaging.Save(imaging.New(20, 20, color.NRGBA{B: 0xff, A: 0xff}), logo); err != nil {
		t.Fatal(err)
	}
	raw := []any{map[string]any{"name": "Ana", "logoPath": "logo.png"}}
	runner := NewRunner(newMemCache(), nil, nil)
	ctx := context.Background()
	opts := Options{Format: FormatJSON, BaseDir: dir}

	first, err := runner.Execute(ctx, raw, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	second, err := runner.Execute(ctx, raw, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheHit || !second.CacheHit {
		t.Errorf("cache hits = %v, %v; want false, true", first.CacheHit, second.CacheHit)
	}
	if !bytes.Equal(first.Artifact, second.Artifact) {
		t.Error("cached artifact differs")
	}

	noCache := opts
	noCache.NoCache = true
	if res, _ := runner.Execute(ctx, raw, noCache); res.CacheHit {
		t.Error("NoCache run hit the cache")
	}

	dup := opts
	dup.Duplicate = 2
	if res, _ := runner.Execute(ctx, raw, dup); res.CacheHit {
		t.Error("different duplicate count hit the cache")
	}

	later := time.Now().Add(time.Hour)
	if err := imaging.Save(imaging.New(30, 30, color.NRGBA{R: 0xff, A: 0xff}), logo); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(logo, later, later); err != nil {
		t.Fatal(err)
	}
	if res, _ := runner.Execute(ctx, raw, opts); res.CacheHit {
		t.Error("changed logo file hit the cache")
	}
}

func TestRunnerCacheMetadata(t *testing.T) {
	raw := []any{map[string]any{"name": "Ana"}}
	runner := NewRunner(newMemCache(), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    Options
		wantHit bool
	}{
		{"first pdf", Options{Format: FormatPDF, Title: "A"}, false},
		{"same title", Options{Format: FormatPDF, Title: "A"}, true},
		{"new title", Options{Format: FormatPDF, Title: "B"}, false},
		{"new author", Options{Format: FormatPDF, Title: "B", Author: "Ana"}, false},
		{"new document id", Options{Format: FormatPDF, Title: "B", Author: "Ana", DocumentID: "run-2"}, true},
		{"json ignores title", Options{Format: FormatJSON, Title: "A"}, false},
		{"json other title", Options{Format: FormatJSON, Title: "B"}, true},
	}
	for _, tt := range tests {
		res, err := runner.Execute(ctx, raw, tt.opts)
		if err != nil {
			t.Fatalf("%s: Execute() error: %v", tt.name, err)
		}
		if res.CacheHit != tt.wantHit {
			t.Errorf("%s: cache hit = %v, want %v", tt.name, res.CacheHit, tt.wantHit)
		}
	}
}

func TestRunnerLogoDPI(t *testing.T) {
	dir := t.TempDir()
	if err := imaging.Save(imaging.New(1200, 800, color.NRGBA{G: 0x80, A: 0xff}), filepath.Join(dir, "logo.png")); err != nil {
		t.Fatal(err)
	}
	raw := []any{map[string]any{"name": "Ana", "logoPath": "logo.png"}}
	runner := NewRunner(nil, nil, nil)

	// The default background logo covers the 241pt card width.
	tests := []struct {
		dpi       float64
		wantWidth string
	}{
		{72, "/Width 241\n"},
		{144, "/Width 482\n"},
	}
	for _, tt := range tests {
		tpl := template.Default()
		tpl.Card.Logo.DPI = tt.dpi
		res, err := runner.Execute(context.Background(), raw, Options{Format: FormatPDF, BaseDir: dir, Template: &tpl})
		if err != nil {
			t.Fatalf("dpi %g: Execute() error: %v", tt.dpi, err)
		}
		if !bytes.Contains(res.Artifact, []byte(tt.wantWidth)) {
			t.Errorf("dpi %g: embedded image lacks %q", tt.dpi, tt.wantWidth)
		}
	}
}

func TestRunnerSkipsCachingDegradedDocuments(t *testing.T) {
	raw := []any{map[string]any{"name": "Ana", "logoPath": "missing.png"}}
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	opts := Options{Format: FormatJSON, BaseDir: t.TempDir()}

	res, err := runner.Execute(context.Background(), raw, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", res.Warnings)
	}
	if len(c.data) != 0 {
		t.Errorf("cache holds %d entries, want none", len(c.data))
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	validated, rendered int
	pages               int
}

func (h *recordingHooks) OnValidateComplete(context.Context, int, int, time.Duration, error) {
	h.validated++
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, _ string, pages, _ int, _ time.Duration, _ error) {
	h.rendered++
	h.pages = pages
}

func TestPipelineHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), sampleInput(), Options{Format: FormatJSON}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if hooks.validated != 1 || hooks.rendered != 1 || hooks.pages != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
}
