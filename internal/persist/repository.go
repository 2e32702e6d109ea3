package persist

import (
	"fmt"

	"github.com/abelbrown/dailybugle/internal/news"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Repository is a news.Repository that can also be cleared and closed.
type Repository interface {
	news.Repository
	Clear() error
	Close() error
}

var (
	_ Repository = (*SQLite)(nil)
	_ Repository = (*File)(nil)
	_ Repository = (*Memory)(nil)
)

// Options selects and locates a backend.
type Options struct {
	Backend   string
	DBPath    string // sqlite
	StateFile string // file
}

// Open returns the backend named by opts.Backend. An empty name means sqlite.
func Open(opts Options) (Repository, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		return OpenSQLite(opts.DBPath)
	case BackendFile:
		return OpenFile(opts.StateFile)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
