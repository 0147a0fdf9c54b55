package cache

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Backends lists every backend name.
var Backends = []string{BackendFile, BackendBadger, BackendRedis, BackendNone}

// Options select and configure a backend.
type Options struct {
	Backend string
	// Dir is the file or badger directory. Default [DefaultDir].
	Dir       string
	RedisAddr string
	Logger    *log.Logger
}

// Open creates the configured backend. An empty backend name means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis backend requires an address")
		}
		return NewRedisCache(ctx, opts.RedisAddr)
	case "", BackendFile, BackendBadger:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}

	dir := opts.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if opts.Backend == BackendBadger {
		return NewBadgerCache(filepath.Join(dir, "badger"), opts.Logger)
	}
	return NewFileCache(filepath.Join(dir, "entries"))
}
