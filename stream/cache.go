package stream

// memoKey identifies a cached value by owner and input offset.
type memoKey struct {
	owner  any
	offset int
}

// Cache holds values keyed by (owner, offset) for a single input.
// Parsers use it to share work done at a position between alternatives.
// Owners must be comparable, typically a pointer.
type Cache struct {
	entries map[memoKey]any
}

func newCache() *Cache {
	return &Cache{entries: make(map[memoKey]any)}
}

// Lookup returns the value stored for owner at s.
func (c *Cache) Lookup(owner any, s Stream) (any, bool) {
	v, ok := c.entries[memoKey{owner: owner, offset: s.index}]
	return v, ok
}

// Store records v for owner at s, replacing any previous value.
func (c *Cache) Store(owner any, s Stream, v any) {
	c.entries[memoKey{owner: owner, offset: s.index}] = v
}

// Delete removes the value stored for owner at s.
func (c *Cache) Delete(owner any, s Stream) {
	delete(c.entries, memoKey{owner: owner, offset: s.index})
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Reset drops every cached entry.
func (c *Cache) Reset() {
	c.entries = make(map[memoKey]any)
}
