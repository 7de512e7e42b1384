// Package observability lets callers observe downloads, resolutions, cache
// traffic and feed requests without the library depending on a metrics or
// tracing backend.
//
// Each event category has an interface and a no-op implementation. The
// active implementations are process-wide and are swapped in at startup:
//
//	observability.SetFetchHooks(myFetchHooks{})
//
// Library code looks the hooks up at the call site:
//
//	observability.Fetch().OnFetchStart(ctx, key)
package observability

import (
	"context"
	"sync"
	"time"
)

// FetchHooks receives events from the download coordinator.
type FetchHooks interface {
	// OnFetchStart fires once the per-key lock is held and a transfer is
	// about to begin.
	OnFetchStart(ctx context.Context, key string)
	// OnFetchComplete reports the outcome. transferred is false when the
	// feed reported nothing newer.
	OnFetchComplete(ctx context.Context, key string, transferred bool, duration time.Duration, err error)
}

// ResolveHooks receives one event per engine request.
type ResolveHooks interface {
	OnResolveComplete(ctx context.Context, resource, kind string, duration time.Duration, err error)
}

// CacheHooks receives events from index cache backends. backend names the
// implementation ("file", "redis").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, backend string)
	OnCacheMiss(ctx context.Context, backend string)
	OnCacheSet(ctx context.Context, backend string, size int)
}

// HTTPHooks receives events for every request sent to the feed.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError fires for transport failures; HTTP error statuses arrive
	// through OnResponse.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopFetchHooks ignores all fetch events.
type NoopFetchHooks struct{}

func (NoopFetchHooks) OnFetchStart(context.Context, string)                                {}
func (NoopFetchHooks) OnFetchComplete(context.Context, string, bool, time.Duration, error) {}

// NoopResolveHooks ignores all resolve events.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnResolveComplete(context.Context, string, string, time.Duration, error) {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores all HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

type registry struct {
	mu      sync.RWMutex
	fetch   FetchHooks
	resolve ResolveHooks
	cache   CacheHooks
	http    HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{
		fetch:   NoopFetchHooks{},
		resolve: NoopResolveHooks{},
		cache:   NoopCacheHooks{},
		http:    NoopHTTPHooks{},
	}
}

// set stores h in *dst unless h is nil.
func set[T any](dst *T, h T, isNil bool) {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if !isNil {
		*dst = h
	}
}

func get[T any](src *T) T {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return *src
}

// SetFetchHooks installs h. A nil h is ignored.
func SetFetchHooks(h FetchHooks) { set(&hooks.fetch, h, h == nil) }

// SetResolveHooks installs h. A nil h is ignored.
func SetResolveHooks(h ResolveHooks) { set(&hooks.resolve, h, h == nil) }

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { set(&hooks.cache, h, h == nil) }

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { set(&hooks.http, h, h == nil) }

// Fetch returns the installed fetch hooks.
func Fetch() FetchHooks { return get(&hooks.fetch) }

// Resolve returns the installed resolve hooks.
func Resolve() ResolveHooks { return get(&hooks.resolve) }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return get(&hooks.cache) }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return get(&hooks.http) }

// Reset reinstalls the no-op hooks. Tests use it to undo Set calls.
func Reset() {
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	hooks.fetch = NoopFetchHooks{}
	hooks.resolve = NoopResolveHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.http = NoopHTTPHooks{}
}
