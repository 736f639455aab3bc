package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deckview/pkg/observability"
)

// registerHooks routes cache and HTTP events to the logger at debug level.
func registerHooks(l *log.Logger) {
	observability.SetCacheHooks(cacheLogHooks{logger: l})
	observability.SetHTTPHooks(httpLogHooks{logger: l})
}

type cacheLogHooks struct {
	logger *log.Logger
}

func (h cacheLogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h cacheLogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h cacheLogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

type httpLogHooks struct {
	logger *log.Logger
}

func (h httpLogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h httpLogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "host", host, "status", status, "duration", d.Round(time.Millisecond))
}

func (h httpLogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("request failed", "host", host, "error", err)
}

// spinnerHooks narrates pipeline stages on a spinner.
type spinnerHooks struct {
	observability.NoopPipelineHooks
	spinner *spinner
}

func (h spinnerHooks) OnLoadStart(_ context.Context, source string) {
	h.spinner.SetMessage(fmt.Sprintf("Loading %s items...", source))
}

func (h spinnerHooks) OnTransitionStart(_ context.Context, layout string, objects int) {
	h.spinner.SetMessage(fmt.Sprintf("Animating %d cards into %s...", objects, layout))
}

func (h spinnerHooks) OnRenderStart(_ context.Context, format string) {
	h.spinner.SetMessage(fmt.Sprintf("Rendering %s frames...", format))
}
