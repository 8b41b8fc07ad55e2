package lpm

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, cacheSize int, routes ...string) *Table[string] {
	t.Helper()

	tbl, err := New[string](Config{CacheSize: cacheSize})
	require.NoError(t, err)

	for _, route := range routes {
		tbl.Add([]byte(route), route)
	}

	return tbl
}

func TestNew_Config(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Name      string
		CacheSize int
		Valid     bool
	}{
		{"default", 0, true},
		{"one", 1, true},
		{"large", 1 << 16, true},
		{"negative", -1, false},
	} {
		tcase := tcase

		t.Run(tcase.Name, func(t *testing.T) {
			t.Parallel()

			tbl, err := New[int](Config{CacheSize: tcase.CacheSize})

			if tcase.Valid {
				require.NoError(t, err)
				assert.NotNil(t, tbl)
				assert.Equal(t, 0, tbl.Len())
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Nil(t, tbl)
			}
		})
	}
}

func TestConfig_Normalized(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultCacheSize, Config{}.normalized().CacheSize)
	assert.Equal(t, 7, Config{CacheSize: 7}.normalized().CacheSize)
}

func TestTable_Lookup(t *testing.T) {
	t.Parallel()

	tbl := newTable(t, 0, "/", "/api", "/api/v1", "/static/css")

	for _, tcase := range []*struct {
		Key       string
		ExpPrefix string
		ExpOK     bool
	}{
		{"/", "/", true},
		{"/index.html", "/", true},
		{"/api", "/api", true},
		{"/apix", "/api", true},
		{"/api/v1/users", "/api/v1", true},
		{"/api/v2/users", "/api", true},
		{"/static/cs", "/", true},
		{"/static/css/site.css", "/static/css", true},
		{"", "", false},
		{"api", "", false},
	} {
		// twice: the second answer comes from the cache
		for i := 0; i < 2; i++ {
			prefix, val, ok := tbl.Lookup([]byte(tcase.Key))

			assert.Equal(t, tcase.ExpOK, ok, tcase.Key)
			assert.Equal(t, tcase.ExpPrefix, string(prefix), tcase.Key)
			assert.Equal(t, tcase.ExpPrefix, val, tcase.Key)
		}
	}

	stats := tbl.Stats()
	assert.Equal(t, uint64(10), stats.Hits)
	assert.Equal(t, uint64(10), stats.Misses)
	assert.Equal(t, uint64(0), stats.Evictions)
}

func TestTable_Route(t *testing.T) {
	t.Parallel()

	tbl := newTable(t, 0, "/api", "/api/v1")

	val, ok := tbl.Route([]byte("/api"))
	assert.True(t, ok)
	assert.Equal(t, "/api", val)

	_, ok = tbl.Route([]byte("/api/"))
	assert.False(t, ok)

	prev, ok := tbl.Add([]byte("/api"), "API")
	assert.True(t, ok)
	assert.Equal(t, "/api", prev)
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_CacheEvictions(t *testing.T) {
	t.Parallel()

	tbl := newTable(t, 2, "/", "/api", "/api/v1")

	lookup := func(key string) string {
		prefix, _, _ := tbl.Lookup([]byte(key))
		return string(prefix)
	}

	assert.Equal(t, "/api/v1", lookup("/api/v1/users"))
	assert.Equal(t, "/api/v1", lookup("/api/v1/users"))
	assert.Equal(t, "/api", lookup("/apix"))
	assert.Equal(t, "/", lookup("/static")) // evicts "/api/v1/users"
	assert.Equal(t, "/api/v1", lookup("/api/v1/users"))

	assert.Equal(t, Stats{Hits: 1, Misses: 4, Evictions: 2}, tbl.Stats())
}

func TestTable_MutationsPurgeCache(t *testing.T) {
	t.Parallel()

	tbl := newTable(t, 0, "/", "/api", "/api/v1")

	prefix, _, _ := tbl.Lookup([]byte("/api/v1/users"))
	assert.Equal(t, "/api/v1", string(prefix))

	// a failed delete keeps the cache
	_, ok := tbl.Delete([]byte("/nope"))
	assert.False(t, ok)
	assert.Equal(t, uint64(0), tbl.Stats().Purges)

	val, ok := tbl.Delete([]byte("/api/v1"))
	assert.True(t, ok)
	assert.Equal(t, "/api/v1", val)

	prefix, val, _ = tbl.Lookup([]byte("/api/v1/users"))
	assert.Equal(t, "/api", string(prefix))
	assert.Equal(t, "/api", val)

	tbl.Add([]byte("/api/v1/users"), "users")

	prefix, val, _ = tbl.Lookup([]byte("/api/v1/users"))
	assert.Equal(t, "/api/v1/users", string(prefix))
	assert.Equal(t, "users", val)

	stats := tbl.Stats()
	assert.Equal(t, uint64(2), stats.Purges)
	assert.Equal(t, uint64(0), stats.Evictions)
	assert.Equal(t, uint64(3), stats.Misses)
	assert.Equal(t, uint64(0), stats.Hits)
}

func TestTable_NegativeLookupsAreCached(t *testing.T) {
	t.Parallel()

	tbl := newTable(t, 0, "/api")

	for i := 0; i < 3; i++ {
		prefix, val, ok := tbl.Lookup([]byte("/home"))

		assert.False(t, ok)
		assert.Nil(t, prefix)
		assert.Empty(t, val)
	}

	assert.Equal(t, Stats{Hits: 2, Misses: 1}, tbl.Stats())

	// the new route must be visible despite the cached miss
	tbl.Add([]byte("/"), "/")

	prefix, _, ok := tbl.Lookup([]byte("/home"))
	assert.True(t, ok)
	assert.Equal(t, "/", string(prefix))
}

func TestTable_Walk(t *testing.T) {
	t.Parallel()

	tbl := newTable(t, 0, "/b", "/a/2", "/", "/a/1", "/a")

	var found []string

	done := tbl.Walk(func(prefix []byte, val string) bool {
		assert.Equal(t, string(prefix), val)
		found = append(found, val)
		return true
	})

	assert.True(t, done)
	assert.Equal(t, []string{"/", "/a", "/a/1", "/a/2", "/b"}, found)

	found = nil
	done = tbl.Walk(func(prefix []byte, _ string) bool {
		found = append(found, string(prefix))
		return len(found) < 3
	})

	assert.False(t, done)
	assert.Equal(t, []string{"/", "/a", "/a/1"}, found)
}

func TestTable_Snapshot(t *testing.T) {
	t.Parallel()

	tbl := newTable(t, 0, "/", "/api")
	snap := tbl.Snapshot()

	tbl.Add([]byte("/api/v1"), "/api/v1")
	tbl.Delete([]byte("/"))

	assert.Equal(t, 2, snap.Len())
	require.NoError(t, snap.Check())

	_, ok := snap.Get([]byte("/"))
	assert.True(t, ok)

	_, ok = snap.Get([]byte("/api/v1"))
	assert.False(t, ok)

	assert.Equal(t, 2, tbl.Len())
}

func TestTable_Trace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lpm", "patricia")
	defer teardown()

	tbl := newTable(t, 4, "10.0.", "10.1.", "192.168.")

	for _, key := range []string{"10.0.0.1", "10.1.2.3", "192.168.1.1", "172.16.0.1"} {
		tbl.Lookup([]byte(key))
	}

	tbl.Delete([]byte("10.1."))

	prefix, val, ok := tbl.Lookup([]byte("10.1.2.3"))
	assert.False(t, ok)
	assert.Nil(t, prefix)
	assert.Empty(t, val)

	assert.Equal(t, Stats{Misses: 5, Purges: 1}, tbl.Stats())
}
