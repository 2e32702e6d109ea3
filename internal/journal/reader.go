package journal

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// Filter selects events when reading a journal back.
type Filter struct {
	Kind     string // kind prefix, e.g. "fetch"
	MinLevel Level
	User     string
	Session  string
}

// levelRank orders levels by severity.
func levelRank(l Level) int {
	switch l {
	case LevelInfo:
		return 1
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	default:
		return 0
	}
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Event) bool {
	if f.Kind != "" && !strings.HasPrefix(string(e.Kind), f.Kind) {
		return false
	}
	if f.MinLevel != "" && levelRank(e.Level) < levelRank(f.MinLevel) {
		return false
	}
	if f.User != "" && e.User != f.User {
		return false
	}
	if f.Session != "" && e.SessionID != f.Session {
		return false
	}
	return true
}

// Line is a decoded event together with its raw JSON.
type Line struct {
	Event Event
	Raw   []byte
}

// Tail reads r to the end and returns the last n matching events, oldest
// first. Undecodable lines are skipped.
func Tail(r io.Reader, n int, f Filter) ([]Line, error) {
	if n <= 0 {
		return nil, nil
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	ring := make([]Line, 0, n)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev Event
		if json.Unmarshal(raw, &ev) != nil {
			continue
		}
		if !f.Match(ev) {
			continue
		}
		line := Line{Event: ev, Raw: append([]byte(nil), raw...)}
		if len(ring) < n {
			ring = append(ring, line)
		} else {
			copy(ring, ring[1:])
			ring[n-1] = line
		}
	}
	return ring, scanner.Err()
}
