package persist

import (
	"sync"

	"github.com/abelbrown/dailybugle/internal/news"
)

// Memory keeps encoded records in process. Records still round-trip
// through the JSON codec so behavior matches the durable backends.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load() (news.State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.data[StateKey]
	if !ok {
		return news.State{}, false, nil
	}
	state, err := Decode(data)
	if err != nil {
		return news.State{}, true, err
	}
	return state, true, nil
}

func (m *Memory) Save(state news.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[StateKey] = data
	return nil
}

// Put stores a raw record, bypassing the codec.
func (m *Memory) Put(raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[StateKey] = append([]byte(nil), raw...)
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, StateKey)
	return nil
}

func (m *Memory) Close() error { return nil }
