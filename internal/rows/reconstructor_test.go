package rows

import (
	"testing"

	"scanledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x0, y0, x1, y1 float64) *models.BoundingBox {
	return &models.BoundingBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

func TestReconstructEmpty(t *testing.T) {
	assert.Nil(t, Reconstruct(nil))
	assert.Nil(t, Reconstruct([]models.RecognitionToken{}))
}

func TestReconstructGroupsByVerticalCenter(t *testing.T) {
	// Two tokens on the same visual line and one on the next line.
	tokens := []models.RecognitionToken{
		{Text: "星巴克", Box: box(10, 100, 60, 120)},
		{Text: "¥35.00", Box: box(200, 102, 260, 122)},
		{Text: "2024-05-01", Box: box(10, 200, 120, 220)},
	}

	rows := Reconstruct(tokens)
	require.Len(t, rows, 2)
	assert.Equal(t, "星巴克¥35.00", rows[0].Text)
	assert.Equal(t, "2024-05-01", rows[1].Text)
}

func TestReconstructOrdersWithinRowByX(t *testing.T) {
	tokens := []models.RecognitionToken{
		{Text: "right", Box: box(300, 50, 350, 70)},
		{Text: "left", Box: box(10, 52, 60, 72)},
		{Text: "middle", Box: box(150, 48, 200, 68)},
	}

	rows := Reconstruct(tokens)
	require.Len(t, rows, 1)
	assert.Equal(t, "leftmiddleright", rows[0].Text)
}

func TestReconstructThresholdScalesWithSpan(t *testing.T) {
	// With a tall layout the threshold grows, so lines 30px apart merge
	// when the overall span is large enough.
	tokens := []models.RecognitionToken{
		{Text: "a", Box: box(0, 0, 10, 10)},
		{Text: "b", Box: box(20, 25, 30, 35)},
		{Text: "tail", Box: box(0, 4990, 10, 5000)},
	}

	rows := Reconstruct(tokens)
	// span = 5000 → threshold = 60, so a and b share a row.
	require.Len(t, rows, 2)
	assert.Equal(t, "ab", rows[0].Text)

	// With a compact layout the same gap splits rows.
	compact := []models.RecognitionToken{
		{Text: "a", Box: box(0, 0, 10, 10)},
		{Text: "b", Box: box(20, 25, 30, 35)},
	}
	rows = Reconstruct(compact)
	require.Len(t, rows, 2)
}

func TestReconstructKeepsBoxlessTokens(t *testing.T) {
	tokens := []models.RecognitionToken{
		{Text: "positioned", Box: box(0, 0, 50, 20)},
		{Text: "floating one"},
		{Text: "floating two"},
	}

	rows := Reconstruct(tokens)
	require.Len(t, rows, 3)
	assert.Equal(t, "positioned", rows[0].Text)
	assert.Equal(t, "floating one", rows[1].Text)
	assert.Equal(t, "floating two", rows[2].Text)
}

func TestReconstructAllBoxless(t *testing.T) {
	tokens := []models.RecognitionToken{
		{Text: "first"},
		{Text: "second"},
	}

	rows := Reconstruct(tokens)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].Text)
	assert.Equal(t, "second", rows[1].Text)
}

func TestReconstructSkipsEmptyText(t *testing.T) {
	tokens := []models.RecognitionToken{
		{Text: "", Box: box(0, 0, 10, 10)},
		{Text: "kept", Box: box(0, 0, 10, 10)},
		{Text: ""},
	}

	rows := Reconstruct(tokens)
	require.Len(t, rows, 1)
	assert.Equal(t, "kept", rows[0].Text)
}

func TestReconstructDeterministic(t *testing.T) {
	tokens := []models.RecognitionToken{
		{Text: "商户", Box: box(10, 100, 50, 118)},
		{Text: "-12.50", Box: box(200, 101, 250, 119)},
		{Text: "05-01", Box: box(10, 140, 60, 158)},
		{Text: "note"},
	}

	first := Reconstruct(tokens)
	second := Reconstruct(tokens)
	assert.Equal(t, first, second)
}
