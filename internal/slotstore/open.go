package slotstore

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory    = "memory"
	BackendFile      = "file"
	BackendPathstore = "pathstore"
	BackendPostgres  = "postgres"
)

// Store is a slot backend that owns resources.
type Store interface {
	Load(ctx context.Context, slot string) ([]byte, error)
	Save(ctx context.Context, slot string, data []byte) error
	Available(ctx context.Context) bool
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend      string
	File         string
	PathstoreURL string
	PathstoreKey string
	DatabaseURL  string
}

// Open builds the configured backend. Empty Backend means memory.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		if opts.File == "" {
			return nil, fmt.Errorf("file backend: HISTORY_FILE is required")
		}
		return NewFile(opts.File), nil
	case BackendPathstore:
		if opts.PathstoreURL == "" {
			return nil, fmt.Errorf("pathstore backend: PATHSTORE_URL is required")
		}
		return NewPathstore(opts.PathstoreURL, opts.PathstoreKey), nil
	case BackendPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres backend: DATABASE_URL is required")
		}
		pg, err := OpenPostgres(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", opts.Backend)
	}
}
