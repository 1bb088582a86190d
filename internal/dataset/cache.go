package dataset

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CachedProvider keeps an in-memory copy of the loaded rows and reuses it
// while the source file has not changed since the load. Freshness is decided
// by comparing the source mtime against the load time; both the clock and the
// stat function are injectable for tests.
//
// Safe for concurrent readers: the cached slice is copied on the way out and
// the underlying row maps are read-only by contract.
type CachedProvider struct {
	inner Provider
	path  string

	now   func() time.Time
	mtime func(path string) (time.Time, error)

	mu       sync.RWMutex
	rows     []RawRow
	loadedAt time.Time
}

func NewCachedProvider(inner Provider, path string) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		path:  path,
		now:   time.Now,
		mtime: statMtime,
	}
}

func (c *CachedProvider) Load(ctx context.Context) ([]RawRow, error) {
	if rows, ok := c.fresh(); ok {
		return rows, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Re-check: otra goroutine puede haber recargado mientras esperábamos.
	if rows, ok := c.freshLocked(); ok {
		return rows, nil
	}

	start := c.now()
	rows, err := c.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.rows = rows
	c.loadedAt = c.now()
	log.Info().Str("fuente", c.path).Int("filas", len(rows)).
		Dur("elapsed", c.now().Sub(start)).Msg("dataset maestro cargado")
	return copyRows(rows), nil
}

func (c *CachedProvider) fresh() ([]RawRow, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.freshLocked()
}

func (c *CachedProvider) freshLocked() ([]RawRow, bool) {
	if c.rows == nil {
		return nil, false
	}
	mt, err := c.mtime(c.path)
	if err != nil {
		// Si no podemos comprobar la fuente, la copia cargada sigue valiendo.
		return copyRows(c.rows), true
	}
	if mt.After(c.loadedAt) {
		return nil, false
	}
	return copyRows(c.rows), true
}

func statMtime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

func copyRows(rows []RawRow) []RawRow {
	out := make([]RawRow, len(rows))
	copy(out, rows)
	return out
}
