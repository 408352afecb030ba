package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// PipelineHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ HTTPHooks     = LogHooks{}
)

// UseLogger registers LogHooks for all three event kinds.
func UseLogger(logger *log.Logger) {
	h := LogHooks{Logger: logger}
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnValidateStart(_ context.Context, records int) {
	h.Logger.Debug("validating cards", "records", records)
}

func (h LogHooks) OnValidateComplete(_ context.Context, records, issues int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("validation failed", "records", records, "issues", issues, "took", d, "error", err)
		return
	}
	h.Logger.Debug("validated cards", "records", records, "took", d)
}

func (h LogHooks) OnRenderStart(_ context.Context, format string, cards int) {
	h.Logger.Debug("rendering", "format", format, "cards", cards)
}

func (h LogHooks) OnRenderComplete(_ context.Context, format string, pages, warnings int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "format", format, "took", d, "error", err)
		return
	}
	h.Logger.Debug("rendered", "format", format, "pages", pages, "warnings", warnings, "took", d)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache store", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, path, requestID string) {
	h.Logger.Debug("request", "method", method, "path", path, "request_id", requestID)
}

func (h LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}
