// Package store caches search results keyed by instance fingerprint and the
// search settings that decide which waves are eligible.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bartolsthoorn/wavepick/wave"
)

// Key identifies a cached result. A result is only reusable under the same
// aisle-count range and bound tolerance it was searched with.
type Key struct {
	Fingerprint      uint64
	IncludeAllAisles bool
	Epsilon          float64
}

// String renders k for use in external cache keys.
func (k Key) String() string {
	return fmt.Sprintf("%016x:all=%t:eps=%g", k.Fingerprint, k.IncludeAllAisles, k.Epsilon)
}

// Entry is a cached search result.
type Entry struct {
	Solution         wave.Solution `json:"solution"`
	Ratio            float64       `json:"ratio"`
	K                int           `json:"k"`
	Optimal          bool          `json:"optimal"`
	Stopped          string        `json:"stopped"`
	IncludeAllAisles bool          `json:"include_all_aisles"`
	Epsilon          float64       `json:"epsilon"`
	RunID            string        `json:"run_id"`
	StoredAt         time.Time     `json:"stored_at"`
}

// EntryFromResult captures the parts of res worth caching under key.
func EntryFromResult(runID string, key Key, res *wave.Result) Entry {
	return Entry{
		Solution:         res.Solution,
		Ratio:            res.Ratio,
		K:                res.K,
		Optimal:          res.Optimal,
		Stopped:          string(res.Stopped),
		IncludeAllAisles: key.IncludeAllAisles,
		Epsilon:          key.Epsilon,
		RunID:            runID,
		StoredAt:         time.Now().UTC(),
	}
}

// Matches reports whether e was searched with the settings in key.
func (e Entry) Matches(key Key) bool {
	return e.IncludeAllAisles == key.IncludeAllAisles && e.Epsilon == key.Epsilon
}

// Store is the result cache used by the CLI.
type Store interface {
	Get(ctx context.Context, key Key) (Entry, error)
	Put(ctx context.Context, key Key, e Entry) error
	Close() error
}

// ErrNotFound is returned by Get when nothing is cached under the key.
var ErrNotFound = errors.New("not found")
