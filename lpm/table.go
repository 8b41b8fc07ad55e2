/*
Package lpm provides a longest-prefix-match table on top of a PATRICIA tree.

A Table stores routes (byte-string prefixes with a value) and resolves a key
to the longest route which is a prefix of it, the way a routing table or a
URL-path dispatcher does. Resolved lookups, including misses, are remembered
in an LRU cache keyed by the query. Any change to the routes purges the cache,
so a cached answer is always the one the tree would give.

A Table is not safe for concurrent use.
*/
package lpm

import (
	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/npillmayer/schuko/tracing"

	"github.com/aglyzov/go-patricia/patricia"
)

// tracer writes to trace with key 'lpm'
func tracer() tracing.Trace {
	return tracing.Select("lpm")
}

// Stats counts cache activity of a Table.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Purges    uint64
}

// match is a cached lookup result; size is the length of the matched route.
type match[V any] struct {
	size int
	val  V
	ok   bool
}

// Table maps route prefixes to values and resolves keys by longest match.
type Table[V any] struct {
	routes  *patricia.Tree[V]
	cache   *simplelru.LRU
	stats   Stats
	purging bool // Purge reports every dropped entry as evicted
}

// New returns an empty Table.
func New[V any](cfg Config) (*Table[V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()

	tbl := &Table[V]{routes: patricia.New[V]()}

	cache, err := simplelru.NewLRU(cfg.CacheSize, func(_, _ interface{}) {
		if !tbl.purging {
			tbl.stats.Evictions++
		}
	})
	if err != nil {
		return nil, err
	}
	tbl.cache = cache

	return tbl, nil
}

// Len returns the number of routes.
func (tbl *Table[V]) Len() int {
	return tbl.routes.Len()
}

// Stats returns the cache counters.
func (tbl *Table[V]) Stats() Stats {
	return tbl.stats
}

// Add inserts or replaces a route. It returns the previous value of the route
// (if any).
func (tbl *Table[V]) Add(prefix []byte, val V) (V, bool) {
	prev, ok := tbl.routes.Insert(prefix, val)
	tbl.purge()

	return prev, ok
}

// Delete removes a route and returns its value (if any).
func (tbl *Table[V]) Delete(prefix []byte) (V, bool) {
	prev, ok := tbl.routes.Remove(prefix)
	if ok {
		tbl.purge()
	}

	return prev, ok
}

// Route returns the value of an exact route.
func (tbl *Table[V]) Route(prefix []byte) (V, bool) {
	return tbl.routes.Get(prefix)
}

// Lookup returns the longest route which is a prefix of key, as a sub-slice
// of key, together with its value.
func (tbl *Table[V]) Lookup(key []byte) ([]byte, V, bool) {
	if cached, hit := tbl.cache.Get(string(key)); hit {
		tbl.stats.Hits++
		m := cached.(match[V])
		if !m.ok {
			return nil, m.val, false
		}
		return key[:m.size], m.val, true
	}

	tbl.stats.Misses++

	prefix, val, ok := tbl.routes.GetLongestCommonPrefix(key)
	tbl.cache.Add(string(key), match[V]{size: len(prefix), val: val, ok: ok})

	return prefix, val, ok
}

// Walk calls a handler for every route in key order until it returns false.
func (tbl *Table[V]) Walk(handler func(prefix []byte, val V) bool) bool {
	return tbl.routes.Iter(nil, func(item patricia.Item[V]) bool {
		return handler(item.Key, item.Val)
	})
}

// Snapshot returns a deep copy of the routes.
func (tbl *Table[V]) Snapshot() *patricia.Tree[V] {
	return tbl.routes.Clone()
}

func (tbl *Table[V]) purge() {
	if n := tbl.cache.Len(); n > 0 {
		tracer().Debugf("purging %d cached lookups", n)
		tbl.purging = true
		tbl.cache.Purge()
		tbl.purging = false
		tbl.stats.Purges++
	}
}
