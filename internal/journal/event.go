// Package journal records feed activity as JSONL lines.
//
// A Journal writes events asynchronously through a buffered channel and a
// single drain goroutine and counts what it wrote per Kind.
package journal

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Kind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type Kind string

const (
	// Session events
	KindStartup  Kind = "sys.startup"
	KindShutdown Kind = "sys.shutdown"
	KindLogin    Kind = "session.login"
	KindLogout   Kind = "session.logout"

	// Storage events
	KindHydrate      Kind = "store.hydrate"
	KindHydrateError Kind = "store.hydrate_error"

	// Wire events
	KindFetchStart    Kind = "fetch.start"
	KindFetchComplete Kind = "fetch.complete"
	KindFetchError    Kind = "fetch.error"

	// Feed mutations
	KindAdd      Kind = "news.add"
	KindEdit     Kind = "news.edit"
	KindDelete   Kind = "news.delete"
	KindRejected Kind = "news.rejected"
)

// Event is a single journal record. Every field except Kind and Time is
// optional.
type Event struct {
	Time      time.Time     `json:"t"`
	Level     Level         `json:"level,omitempty"`
	Kind      Kind          `json:"kind"`
	SessionID string        `json:"session_id,omitempty"` // random hex, same for one process
	User      string        `json:"user,omitempty"`
	ItemID    string        `json:"item,omitempty"`
	Title     string        `json:"title,omitempty"`
	Dur       time.Duration `json:"-"`
	DurMs     float64       `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Count     int           `json:"count,omitempty"`
	Pruned    int           `json:"pruned,omitempty"`
	Err       string        `json:"err,omitempty"`
	Msg       string        `json:"msg,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
