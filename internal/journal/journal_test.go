package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("invalid JSON %q: %v", line, err)
		}
		out = append(out, decoded)
	}
	return out
}

func TestEmitWritesValidJSONL(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf)

	j.Emit(Event{Kind: KindAdd, User: "user-Peter-123", ItemID: "n1", Title: "Headline"})
	j.Close()

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got["kind"] != "news.add" || got["user"] != "user-Peter-123" || got["item"] != "n1" {
		t.Errorf("unexpected event: %v", got)
	}
	if got["level"] != "info" {
		t.Errorf("level should default to info, got %v", got["level"])
	}
}

func TestEmitSetsTimeAndSessionID(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf)
	fixed := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	j.Emit(Event{Kind: KindStartup})
	j.Close()

	var ev Event
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !ev.Time.Equal(fixed) {
		t.Errorf("time = %v", ev.Time)
	}
	if len(ev.SessionID) != 16 || ev.SessionID != j.SessionID() {
		t.Errorf("session_id = %q", ev.SessionID)
	}
}

func TestDurToMs(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf)
	j.Emit(Event{Kind: KindFetchComplete, Dur: 1500 * time.Millisecond})
	j.Close()

	got := decodeLines(t, &buf)[0]
	if got["dur_ms"] != float64(1500) {
		t.Errorf("dur_ms = %v", got["dur_ms"])
	}
}

func TestOmitempty(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf)
	j.Emit(Event{Kind: KindStartup})
	j.Close()

	line := strings.TrimSpace(buf.String())
	for _, field := range []string{"dur_ms", "count", "pruned", "user", "item", "title", "err", "msg"} {
		if strings.Contains(line, `"`+field+`"`) {
			t.Errorf("field %q should be omitted: %s", field, line)
		}
	}
}

func TestConcurrentEmit(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.Emit(Event{Kind: KindFetchStart})
		}()
	}
	wg.Wait()
	j.Close()

	if got := len(decodeLines(t, &buf)); got != 100 {
		t.Errorf("expected 100 lines, got %d", got)
	}
}

func TestCloseIdempotentAndDropsLateEvents(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf)
	j.Emit(Event{Kind: KindStartup})
	j.Close()
	j.Close()

	j.Emit(Event{Kind: KindShutdown})
	if j.Dropped() != 1 {
		t.Errorf("event after Close should be dropped, dropped=%d", j.Dropped())
	}
	if got := len(decodeLines(t, &buf)); got != 1 {
		t.Errorf("expected 1 line, got %d", got)
	}
}

func TestDropCounter(t *testing.T) {
	bw := &blockingWriter{started: make(chan struct{}), block: make(chan struct{})}
	j := New(bw)

	j.Emit(Event{Kind: KindFetchStart})
	<-bw.started

	for i := 0; i < chanSize+10; i++ {
		j.Emit(Event{Kind: KindFetchStart})
	}
	if j.Dropped() == 0 {
		t.Error("expected drops when the channel is full")
	}

	close(bw.block)
	j.Close()
}

type blockingWriter struct {
	started chan struct{}
	block   chan struct{}
	once    sync.Once
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	w.once.Do(func() {
		close(w.started)
		<-w.block
	})
	return len(p), nil
}

func TestErrorHelper(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf)
	j.Error(KindFetchError, errors.New("wire down"))
	j.Error(KindHydrateError, nil)
	j.Close()

	lines := decodeLines(t, &buf)
	if lines[0]["level"] != "error" || lines[0]["err"] != "wire down" {
		t.Errorf("unexpected event: %v", lines[0])
	}
	if _, ok := lines[1]["err"]; ok {
		t.Error("nil error should leave err empty")
	}
}

func TestNilJournal(t *testing.T) {
	var j *Journal
	j.Emit(Event{Kind: KindStartup})
	j.Error(KindFetchError, errors.New("x"))
	j.Close()
	if j.Dropped() != 0 || j.SessionID() != "" || j.Counts() != nil {
		t.Error("nil journal should be inert")
	}
}

func TestCountsByKind(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf)

	j.Emit(Event{Kind: KindLogin, User: "u"})
	j.Emit(Event{Kind: KindAdd, User: "u"})
	j.Emit(Event{Kind: KindAdd, User: "u"})
	j.Emit(Event{Kind: KindLogout, User: "u"})
	j.Close()

	want := map[Kind]int{KindLogin: 1, KindAdd: 2, KindLogout: 1}
	got := j.Counts()
	if len(got) != len(want) {
		t.Fatalf("Counts = %v", got)
	}
	for k, n := range want {
		if got[k] != n {
			t.Errorf("Counts[%s] = %d, want %d", k, got[k], n)
		}
	}
}

func TestCountsSkipFailedWrites(t *testing.T) {
	j := New(failingWriter{})
	j.Emit(Event{Kind: KindStartup})
	j.Close()

	if n := j.Counts()[KindStartup]; n != 0 {
		t.Errorf("failed write counted: %d", n)
	}
	if j.Dropped() != 1 {
		t.Errorf("dropped = %d", j.Dropped())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}
