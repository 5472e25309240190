package pending

import (
	"fmt"
	"testing"

	"scanledger/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeAppendsToMissingSegmentsOnly(t *testing.T) {
	cache := NewMemoryCache(0)
	cache.Put("p1", Entry{
		SegmentTexts:   []string{"complete segment", "needs merchant"},
		MissingIndices: []int{1},
	})

	texts, err := cache.Merge("p1", "at Joe's Diner")
	require.NoError(t, err)
	require.Len(t, texts, 2)
	assert.Equal(t, "complete segment", texts[0])
	assert.Equal(t, "needs merchant\nat Joe's Diner", texts[1])
}

func TestMergeAccumulatesAcrossCalls(t *testing.T) {
	cache := NewMemoryCache(0)
	cache.Put("p1", Entry{SegmentTexts: []string{"base"}, MissingIndices: []int{0}})

	_, err := cache.Merge("p1", "first clarification")
	require.NoError(t, err)
	texts, err := cache.Merge("p1", "second clarification")
	require.NoError(t, err)
	assert.Equal(t, "base\nfirst clarification\nsecond clarification", texts[0])
}

func TestMergeEmptyClarificationReturnsUnchanged(t *testing.T) {
	cache := NewMemoryCache(0)
	cache.Put("p1", Entry{SegmentTexts: []string{"base"}, MissingIndices: []int{0}})

	texts, err := cache.Merge("p1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, texts)
}

func TestMergeUnknownID(t *testing.T) {
	cache := NewMemoryCache(0)
	_, err := cache.Merge("missing", "text")
	require.Error(t, err)

	var notFoundErr *parsererror.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestMergeIgnoresOutOfRangeIndices(t *testing.T) {
	cache := NewMemoryCache(0)
	cache.Put("p1", Entry{SegmentTexts: []string{"base"}, MissingIndices: []int{0, 5, -1}})

	texts, err := cache.Merge("p1", "more")
	require.NoError(t, err)
	assert.Equal(t, []string{"base\nmore"}, texts)
}

func TestPutCopiesInput(t *testing.T) {
	cache := NewMemoryCache(0)
	segments := []string{"original"}
	cache.Put("p1", Entry{SegmentTexts: segments, MissingIndices: []int{0}})
	segments[0] = "mutated"

	texts, err := cache.Merge("p1", "")
	require.NoError(t, err)
	assert.Equal(t, "original", texts[0])
}

func TestDelete(t *testing.T) {
	cache := NewMemoryCache(0)
	cache.Put("p1", Entry{SegmentTexts: []string{"x"}})
	cache.Delete("p1")
	cache.Delete("p1") // deleting twice is harmless

	_, err := cache.Merge("p1", "text")
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestFIFOEviction(t *testing.T) {
	cache := NewMemoryCache(3)
	for i := 0; i < 4; i++ {
		cache.Put(fmt.Sprintf("p%d", i), Entry{SegmentTexts: []string{"x"}})
	}

	assert.Equal(t, 3, cache.Len())
	_, err := cache.Merge("p0", "")
	assert.Error(t, err)
	_, err = cache.Merge("p3", "")
	assert.NoError(t, err)
}

func TestPutReplaceKeepsSlot(t *testing.T) {
	cache := NewMemoryCache(2)
	cache.Put("p1", Entry{SegmentTexts: []string{"one"}})
	cache.Put("p1", Entry{SegmentTexts: []string{"two"}})
	assert.Equal(t, 1, cache.Len())

	texts, err := cache.Merge("p1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"two"}, texts)
}
