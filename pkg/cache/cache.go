// Package cache stores small byte payloads such as feed version indexes.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for long-running servers
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys are produced by a [Keyer] so that entries from different feeds never
// collide:
//
//	keys := cache.NewKeyer(feedURL)
//	data, hit, err := c.Get(ctx, keys.IndexKey("newtonsoft.json"))
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte cache with per-entry expiry.
//
// Get reports a miss with hit=false and a nil error; errors are reserved
// for backend failures. A ttl of zero stores the entry without expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys scoped to one feed.
type Keyer struct {
	prefix string
}

// NewKeyer returns a Keyer whose keys are namespaced by a hash of feedURL.
// Trailing slashes do not change the namespace.
func NewKeyer(feedURL string) Keyer {
	return Keyer{prefix: "feed:" + shortHash(strings.TrimRight(feedURL, "/"), 16) + ":"}
}

// IndexKey returns the key of a package's version index.
// Package ids are case-insensitive on the feed.
func (k Keyer) IndexKey(id string) string {
	return k.prefix + "index:" + strings.ToLower(id)
}
