// Package observability provides hooks for metrics, tracing and logging.
//
// Libraries emit events through the registered hooks; main registers real
// implementations at startup. The defaults are no-ops, so nothing in the
// library packages depends on a particular metrics backend.
//
// # Usage
//
// Register hooks for the lifetime of a command:
//
//	prev := observability.SetPipelineHooks(progressHooks{})
//	defer observability.SetPipelineHooks(prev)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnTransitionStart(ctx, "helix", len(objects))
//	// ... advance the scheduler ...
//	observability.Pipeline().OnTransitionComplete(ctx, "helix", frames, time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the frame pipeline.
type PipelineHooks interface {
	// source is "csv", "sheet" or "placeholder".
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, items int, duration time.Duration, err error)

	// One start/complete pair per layout switch.
	OnTransitionStart(ctx context.Context, layout string, objects int)
	OnTransitionComplete(ctx context.Context, layout string, frames int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, frames int, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "sheet",
// "photo" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives requests made by the sheet client.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a transport failure (no response).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks ignores every event. Embed it to implement a subset.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                                     {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error)       {}
func (NoopPipelineHooks) OnTransitionStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnTransitionComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                                   {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error)     {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// Atomic slots, one per hook kind.
type (
	pipelineSlot struct{ PipelineHooks }
	cacheSlot    struct{ CacheHooks }
	httpSlot     struct{ HTTPHooks }
)

var (
	pipeline atomic.Pointer[pipelineSlot]
	cache    atomic.Pointer[cacheSlot]
	http     atomic.Pointer[httpSlot]
)

func init() { Reset() }

// SetPipelineHooks installs h and returns the hooks it replaced. A nil h
// changes nothing.
func SetPipelineHooks(h PipelineHooks) PipelineHooks {
	if h == nil {
		return Pipeline()
	}
	return pipeline.Swap(&pipelineSlot{h}).PipelineHooks
}

// SetCacheHooks installs h and returns the hooks it replaced. A nil h
// changes nothing.
func SetCacheHooks(h CacheHooks) CacheHooks {
	if h == nil {
		return Cache()
	}
	return cache.Swap(&cacheSlot{h}).CacheHooks
}

// SetHTTPHooks installs h and returns the hooks it replaced. A nil h
// changes nothing.
func SetHTTPHooks(h HTTPHooks) HTTPHooks {
	if h == nil {
		return HTTP()
	}
	return http.Swap(&httpSlot{h}).HTTPHooks
}

func Pipeline() PipelineHooks { return pipeline.Load().PipelineHooks }
func Cache() CacheHooks       { return cache.Load().CacheHooks }
func HTTP() HTTPHooks         { return http.Load().HTTPHooks }

// Reset restores the no-op hooks.
func Reset() {
	pipeline.Store(&pipelineSlot{NoopPipelineHooks{}})
	cache.Store(&cacheSlot{NoopCacheHooks{}})
	http.Store(&httpSlot{NoopHTTPHooks{}})
}
