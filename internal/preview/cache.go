package preview

// Cache holds the last successful render per path. At most one entry per
// path; entries are replaced on re-render and removed only by explicit
// invalidation, never by size pressure — only visited files are cached.
type Cache struct {
	entries map[string]Result
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Result)}
}

// Get returns the cached result for path, fresh or not.
func (c *Cache) Get(path string) (Result, bool) {
	r, ok := c.entries[path]
	return r, ok
}

// Fresh returns the cached result only if the file's current fingerprint
// still matches the one captured at render time. This is the synchronous
// fast path: a hit needs no read and no render.
func (c *Cache) Fresh(path string) (Result, bool) {
	r, ok := c.entries[path]
	if !ok {
		return Result{}, false
	}
	fp, err := FingerprintFor(path)
	if err != nil || fp != r.Fingerprint {
		return Result{}, false
	}
	return r, true
}

// Put stores or replaces the entry for the result's path. Error results
// are not cached; the next selection retries the read.
func (c *Cache) Put(r Result) {
	if r.Kind == KindError {
		return
	}
	c.entries[r.Path] = r
}

// Invalidate drops the entry for path, if any.
func (c *Cache) Invalidate(path string) {
	delete(c.entries, path)
}

// Clear drops every entry. Used when the render width changes and all
// cached line wraps become wrong.
func (c *Cache) Clear() {
	c.entries = make(map[string]Result)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}
