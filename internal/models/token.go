// Package models defines the core data structures shared across the
// ingestion pipeline: recognition tokens, reconstructed rows, segments,
// extracted fields and ledger records.
package models

// BoundingBox is an axis-aligned box (x0,y0)-(x1,y1) in image coordinates,
// with y growing downward.
type BoundingBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// CenterX returns the horizontal center of the box.
func (b BoundingBox) CenterX() float64 {
	return (b.X0 + b.X1) / 2
}

// CenterY returns the vertical center of the box.
func (b BoundingBox) CenterY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// RecognitionToken is one unit of recognizer output: a text fragment with an
// optional bounding box. Tokens from flat transcripts carry no box.
type RecognitionToken struct {
	Text       string
	Box        *BoundingBox
	Confidence float64
}

// TextRow is a reading-order text row reconstructed from recognition tokens.
// Rows are ephemeral and rebuilt for every request.
type TextRow struct {
	Text    string
	CenterY float64
}

// RowTexts extracts the text of each row, preserving order.
func RowTexts(rows []TextRow) []string {
	texts := make([]string, 0, len(rows))
	for _, row := range rows {
		texts = append(texts, row.Text)
	}
	return texts
}
