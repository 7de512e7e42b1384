package fetch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/nugetbridge/pkg/coordinate"
	"github.com/matzehuels/nugetbridge/pkg/errors"
	"github.com/matzehuels/nugetbridge/pkg/observability"
)

// Transport moves a single feed resource to a local file.
//
// Implementations write the complete resource to destination or return an
// error; they never need to worry about concurrent callers or partial
// files, which the [Coordinator] handles.
type Transport interface {
	// Get downloads the resource identified by key into destination.
	Get(ctx context.Context, key, destination string) error

	// GetIfNewer downloads the resource only if the feed copy changed
	// after since. It reports whether destination was written.
	GetIfNewer(ctx context.Context, key, destination string, since time.Time) (bool, error)
}

// Coordinator serializes downloads per resource key.
//
// The zero value is not usable; create one with [NewCoordinator] and share
// it between all goroutines resolving artifacts for the same repository.
// Locks are created on first use and never removed.
type Coordinator struct {
	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	logger *log.Logger
}

// NewCoordinator creates a coordinator. A nil logger uses log.Default().
func NewCoordinator(logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		locks:  make(map[string]*sync.Mutex),
		logger: logger,
	}
}

// LockFor returns the lock guarding key. All calls with the same key return
// the same mutex.
func (c *Coordinator) LockFor(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// Fetch makes sure destination holds the feed resource backing coord.
//
// If destination already exists Fetch returns immediately: published feed
// files never change, so an existing file is a complete one. Otherwise the
// resource is downloaded under the per-key lock and renamed into place.
// Concurrent callers for the same key perform exactly one transfer.
func (c *Coordinator) Fetch(ctx context.Context, t Transport, coord coordinate.Coordinate, destination string) error {
	if exists(destination) {
		return nil
	}

	key := coord.ResourceString()
	l := c.LockFor(key)
	l.Lock()
	defer l.Unlock()

	if exists(destination) {
		c.logger.Debug("fetched by concurrent caller", "key", key, "destination", destination)
		return nil
	}

	_, err := c.transfer(ctx, key, destination, func(tmp string) (bool, error) {
		return true, t.Get(ctx, key, tmp)
	})
	return err
}

// FetchIfNewer refreshes destination when the feed copy is newer than
// since. It returns false without contacting the feed when destination's
// modification time is already after since, and false when the transport
// reports nothing newer. It returns true once destination was replaced.
func (c *Coordinator) FetchIfNewer(ctx context.Context, t Transport, coord coordinate.Coordinate, destination string, since time.Time) (bool, error) {
	key := coord.ResourceString()
	l := c.LockFor(key)
	l.Lock()
	defer l.Unlock()

	if info, err := os.Stat(destination); err == nil && info.ModTime().After(since) {
		c.logger.Debug("destination is current", "key", key, "destination", destination)
		return false, nil
	}

	return c.transfer(ctx, key, destination, func(tmp string) (bool, error) {
		return t.GetIfNewer(ctx, key, tmp, since)
	})
}

// Refresh always downloads the resource and replaces destination. It is
// meant for mutable feed resources such as version indexes, where an
// existing file may be outdated.
func (c *Coordinator) Refresh(ctx context.Context, t Transport, coord coordinate.Coordinate, destination string) error {
	key := coord.ResourceString()
	l := c.LockFor(key)
	l.Lock()
	defer l.Unlock()

	_, err := c.transfer(ctx, key, destination, func(tmp string) (bool, error) {
		return true, t.Get(ctx, key, tmp)
	})
	return err
}

// transfer runs get against a fresh temporary file and renames it onto
// destination. The caller must hold the key's lock.
func (c *Coordinator) transfer(ctx context.Context, key, destination string, get func(tmp string) (bool, error)) (transferred bool, err error) {
	hooks := observability.Fetch()
	hooks.OnFetchStart(ctx, key)
	start := time.Now()
	defer func() {
		hooks.OnFetchComplete(ctx, key, transferred, time.Since(start), err)
	}()

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return false, errors.Wrap(errors.ErrCodeTransfer, err, "create directory for %s", destination)
	}

	tmp := destination + ".tmp" + uuid.NewString()
	defer os.Remove(tmp)

	c.logger.Debug("downloading", "key", key, "destination", destination)
	ok, err := get(tmp)
	if err != nil {
		if errors.Is(err, errors.ErrCodeResourceNotFound) || ctx.Err() != nil {
			return false, err
		}
		return false, errors.Wrap(errors.ErrCodeTransfer, err, "download %s", key)
	}
	if !ok {
		c.logger.Debug("feed has nothing newer", "key", key)
		return false, nil
	}

	if err := os.Rename(tmp, destination); err != nil {
		return false, errors.Wrap(errors.ErrCodeTransfer, err, "publish %s", destination)
	}
	c.logger.Debug("downloaded", "key", key, "destination", destination, "duration", time.Since(start))
	return true, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
