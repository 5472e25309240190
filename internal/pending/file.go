package pending

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileCache is a Cache persisted to a YAML file, so pending clarifications
// survive across process runs. Semantics match MemoryCache, including the
// FIFO bound.
type FileCache struct {
	mu         sync.Mutex
	path       string
	maxEntries int
}

type fileState struct {
	Order   []string             `yaml:"order"`
	Entries map[string]fileEntry `yaml:"entries"`
}

type fileEntry struct {
	SegmentTexts   []string `yaml:"segment_texts"`
	MissingIndices []int    `yaml:"missing_indices"`
}

// NewFileCache returns a cache stored at path. Non-positive limits use
// DefaultMaxEntries.
func NewFileCache(path string, maxEntries int) *FileCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &FileCache{path: path, maxEntries: maxEntries}
}

// Put stores the entry under id, replacing any previous entry.
func (c *FileCache) Put(id string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.load()
	if err != nil {
		state = &fileState{Entries: map[string]fileEntry{}}
	}
	if _, exists := state.Entries[id]; !exists {
		state.Order = append(state.Order, id)
		for len(state.Order) > c.maxEntries {
			oldest := state.Order[0]
			state.Order = state.Order[1:]
			delete(state.Entries, oldest)
		}
	}
	state.Entries[id] = fileEntry{
		SegmentTexts:   append([]string(nil), entry.SegmentTexts...),
		MissingIndices: append([]int(nil), entry.MissingIndices...),
	}
	// Persistence failures are deliberately silent here; the caller already
	// received the pending id and the merge path will report NotFound.
	_ = c.save(state)
}

// Merge appends clarification text to the flagged segments and returns a
// copy of the updated segment texts.
func (c *FileCache) Merge(id string, clarification string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.load()
	if err != nil {
		return nil, notFound(id)
	}
	entry, exists := state.Entries[id]
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
		state.Entries[id] = entry
		if err := c.save(state); err != nil {
			return nil, err
		}
	}
	return append([]string(nil), entry.SegmentTexts...), nil
}

// Delete removes the entry, if present.
func (c *FileCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.load()
	if err != nil {
		return
	}
	if _, exists := state.Entries[id]; !exists {
		return
	}
	delete(state.Entries, id)
	for i, key := range state.Order {
		if key == id {
			state.Order = append(state.Order[:i], state.Order[i+1:]...)
			break
		}
	}
	_ = c.save(state)
}

func (c *FileCache) load() (*fileState, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileState{Entries: map[string]fileEntry{}}, nil
		}
		return nil, err
	}
	var state fileState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Entries == nil {
		state.Entries = map[string]fileEntry{}
	}
	return &state, nil
}

func (c *FileCache) save(state *fileState) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}
