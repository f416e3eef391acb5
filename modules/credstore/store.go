package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/guarzo/hrmapi/common"
)

// Store kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"

	DefaultFilePath   = "hrm-credentials.json"
	DefaultSQLitePath = "hrm-credentials.db"
)

// ErrUnknownStore is returned by Open for an unsupported kind.
var ErrUnknownStore = errors.New("unknown token store")

// Store is a TokenStore that may hold resources.
type Store interface {
	common.TokenStore
	Close() error
}

var (
	_ Store = (*State)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// Open returns the store of the given kind. An empty path selects the kind's default.
// File and SQLite stores load any previously saved pair.
func Open(ctx context.Context, kind, path string) (Store, error) {
	switch kind {
	case KindMemory:
		return NewState(), nil
	case KindFile, "":
		if path == "" {
			path = DefaultFilePath
		}
		return NewFileStore(path)
	case KindSQLite:
		if path == "" {
			path = DefaultSQLitePath
		}
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, kind)
	}
}
