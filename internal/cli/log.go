// Package cli implements the nugetbridge command-line interface.
//
// The commands resolve Maven repository paths against a NuGet feed, either
// one-shot (get, resolve) or as a long-running HTTP server (serve). The CLI
// is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - get: Produce one repository file
//   - resolve: Produce many repository files concurrently
//   - versions: List the published versions of a package
//   - inspect: Show the framework folders of a package and the selection
//   - serve: Expose the repository over HTTP
//   - cache, history, config: Manage local state
//
// # Logging
//
// The logger travels through context.Context. With --verbose (-v) the
// download, resolve and feed request events are logged at debug level.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nugetbridge/pkg/observability"
)

// newLogger returns a logger writing to w with "15:04:05.00" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command and logs its completion.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Resolved 12 files (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed().Round(time.Millisecond))
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by RootCommand, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports downloads, resolutions and feed requests at debug level.
type logHooks struct {
	logger *log.Logger
}

func installLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetFetchHooks(h)
	observability.SetResolveHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnFetchStart(_ context.Context, key string) {
	h.logger.Debug("download started", "key", key)
}

func (h logHooks) OnFetchComplete(_ context.Context, key string, transferred bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("download failed", "key", key, "err", err)
		return
	}
	h.logger.Debug("download finished", "key", key, "transferred", transferred, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnResolveComplete(_ context.Context, resource, kind string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("resolve failed", "resource", resource, "kind", kind, "err", err)
		return
	}
	h.logger.Debug("resolved", "resource", resource, "kind", kind, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
