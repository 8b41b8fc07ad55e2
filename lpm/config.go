package lpm

import (
	"errors"
	"fmt"
)

// DefaultCacheSize is the number of resolved lookups a Table remembers when
// no cache size is configured.
const DefaultCacheSize = 1024

// ErrInvalidConfig signals an invalid table configuration.
var ErrInvalidConfig = errors.New("lpm: invalid configuration")

// Config configures a Table.
type Config struct {
	// CacheSize is the capacity of the lookup cache. Zero selects
	// DefaultCacheSize.
	CacheSize int
}

func (cfg Config) normalized() Config {
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	return cfg
}

func (cfg Config) validate() error {
	cfg = cfg.normalized()
	if cfg.CacheSize < 0 {
		return fmt.Errorf("%w: negative cache size %d", ErrInvalidConfig, cfg.CacheSize)
	}
	return nil
}
