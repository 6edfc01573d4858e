package tokens

import (
	"fmt"
	"log/slog"
)

// Backend selects the token store implementation.
type Backend string

const (
	MemoryBackend Backend = "memory"
	SQLiteBackend Backend = "sqlite"
	BoltBackend   Backend = "bolt"
)

func (b Backend) String() string { return string(b) }

// IsValid returns true if the backend name is known.
func (b Backend) IsValid() bool {
	switch b {
	case MemoryBackend, SQLiteBackend, BoltBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Open creates the configured store. The returned cleanup is nil for
// backends without resources to release.
func Open(backend Backend, path string, logger *slog.Logger) (Store, CleanupFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !backend.IsValid() {
		return nil, nil, fmt.Errorf("invalid token backend: %s", backend)
	}

	switch backend {
	case SQLiteBackend:
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite token store: %w", err)
		}
		logger.Info("Initialized sqlite token store", "path", path)
		return store, store.Close, nil
	case BoltBackend:
		store, err := NewBoltStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize bolt token store: %w", err)
		}
		logger.Info("Initialized bolt token store", "path", path)
		return store, store.Close, nil
	default:
		logger.Info("Initialized memory token store")
		return NewMemoryStore(), nil, nil
	}
}
