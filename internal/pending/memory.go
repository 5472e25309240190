package pending

import "sync"

// DefaultMaxEntries bounds the in-memory cache when no limit is configured.
const DefaultMaxEntries = 256

// MemoryCache is an in-process Cache with FIFO eviction.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]Entry
	order      []string
	maxEntries int
}

// NewMemoryCache returns a cache evicting the oldest entry beyond
// maxEntries. Non-positive limits use DefaultMaxEntries.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		entries:    make(map[string]Entry),
		maxEntries: maxEntries,
	}
}

// Put stores the entry under id, replacing any previous entry.
func (c *MemoryCache) Put(id string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[id]; !exists {
		c.order = append(c.order, id)
		for len(c.order) > c.maxEntries {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
	c.entries[id] = Entry{
		SegmentTexts:   append([]string(nil), entry.SegmentTexts...),
		MissingIndices: append([]int(nil), entry.MissingIndices...),
	}
}

// Merge appends clarification text to the segments flagged incomplete and
// returns a copy of the updated segment texts.
func (c *MemoryCache) Merge(id string, clarification string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[id]
	if !exists {
		return nil, notFound(id)
	}
	if clarification != "" {
		for _, idx := range entry.MissingIndices {
			if idx < 0 || idx >= len(entry.SegmentTexts) {
				continue
			}
			if entry.SegmentTexts[idx] == "" {
				entry.SegmentTexts[idx] = clarification
			} else {
				entry.SegmentTexts[idx] = entry.SegmentTexts[idx] + "\n" + clarification
			}
		}
		c.entries[id] = entry
	}
	return append([]string(nil), entry.SegmentTexts...), nil
}

// Delete removes the entry, if present.
func (c *MemoryCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[id]; !exists {
		return
	}
	delete(c.entries, id)
	for i, key := range c.order {
		if key == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
