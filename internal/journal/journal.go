package journal

// The drain goroutine is the sole reader of j.ch and the sole writer to j.w.
// Journal.mu guards only the per-kind counts.

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// chanSize is the capacity of the async write channel.
const chanSize = 1024

type entry struct {
	data []byte
	kind Kind
}

// Journal serializes events as JSONL via an async background writer.
// Goroutine-safe. A nil *Journal discards everything.
type Journal struct {
	mu        sync.Mutex
	counts    map[Kind]int
	sessionID string
	ch        chan entry
	w         io.Writer
	now       func() time.Time
	dropped   atomic.Uint64
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Journal writing JSONL to w and starts its drain goroutine.
// Call Close to flush and stop.
func New(w io.Writer) *Journal {
	var sid [8]byte
	_, _ = rand.Read(sid[:])

	j := &Journal{
		sessionID: fmt.Sprintf("%x", sid[:]),
		ch:        make(chan entry, chanSize),
		w:         w,
		now:       time.Now,
		counts:    make(map[Kind]int),
		done:      make(chan struct{}),
	}
	go j.drain()
	return j
}

func (j *Journal) drain() {
	defer close(j.done)
	for e := range j.ch {
		if _, err := j.w.Write(e.data); err != nil {
			j.dropped.Add(1)
			continue
		}
		j.mu.Lock()
		j.counts[e.kind]++
		j.mu.Unlock()
	}
}

// Emit queues e for writing. Time and SessionID are filled in. Never blocks:
// when the channel is full or the journal is closed the event is dropped
// and counted.
func (j *Journal) Emit(e Event) {
	if j == nil {
		return
	}
	defer func() {
		// Close may win the race between the closed check and the send.
		if recover() != nil {
			j.dropped.Add(1)
		}
	}()

	if j.closed.Load() {
		j.dropped.Add(1)
		return
	}

	if e.Time.IsZero() {
		e.Time = j.now()
	}
	if e.Level == "" {
		e.Level = LevelInfo
	}
	e.SessionID = j.sessionID

	data, err := json.Marshal(e)
	if err != nil {
		j.dropped.Add(1)
		return
	}
	data = append(data, '\n')

	select {
	case j.ch <- entry{data: data, kind: e.Kind}:
	default:
		j.dropped.Add(1)
	}
}

// Error emits an error-level event of kind. A nil err is recorded as empty.
func (j *Journal) Error(kind Kind, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	j.Emit(Event{Level: LevelError, Kind: kind, Err: msg})
}

// Counts returns how many events of each kind have been written so far.
func (j *Journal) Counts() map[Kind]int {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make(map[Kind]int, len(j.counts))
	for k, n := range j.counts {
		out[k] = n
	}
	return out
}

// SessionID returns the id stamped on every event from this journal.
func (j *Journal) SessionID() string {
	if j == nil {
		return ""
	}
	return j.sessionID
}

// Dropped returns the number of events dropped since creation.
func (j *Journal) Dropped() uint64 {
	if j == nil {
		return 0
	}
	return j.dropped.Load()
}

// Close flushes pending events and stops the drain goroutine. Emit calls
// racing with Close are dropped, not panicked.
func (j *Journal) Close() {
	if j == nil {
		return
	}
	j.closeOnce.Do(func() {
		j.closed.Store(true)
		close(j.ch)
		<-j.done
	})
}
