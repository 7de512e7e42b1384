// Package history keeps a log of resolved artifacts: which file inside
// which archive answered which request, for which target framework.
//
// The log is informational. A failure to record never fails a resolution;
// callers log it and move on.
package history

import (
	"context"
	"time"
)

// Record describes one successful extraction.
type Record struct {
	Coordinate string    `json:"coordinate" bson:"coordinate"`                 // group:artifact:type:version
	Resource   string    `json:"resource" bson:"resource"`                     // Requested repository path
	Archive    string    `json:"archive" bson:"archive"`                       // Feed key of the backing archive
	Entry      string    `json:"entry" bson:"entry"`                           // Path inside the archive, e.g. lib/net46/widget.dll
	Framework  string    `json:"framework" bson:"framework"`                   // Desired target framework
	Selected   string    `json:"selected,omitempty" bson:"selected,omitempty"` // Framework directory chosen, if any
	Time       time.Time `json:"time" bson:"time"`
}

// Store persists records.
type Store interface {
	// Add appends a record.
	Add(ctx context.Context, r Record) error

	// Recent returns up to limit records, newest first. A limit of zero or
	// less returns everything.
	Recent(ctx context.Context, limit int) ([]Record, error)

	Close() error
}

// NullStore discards records.
type NullStore struct{}

func (NullStore) Add(context.Context, Record) error             { return nil }
func (NullStore) Recent(context.Context, int) ([]Record, error) { return nil, nil }
func (NullStore) Close() error                                  { return nil }

var _ Store = NullStore{}
