package models

import "strings"

// Segment is an ordered run of row texts believed to describe a single
// transaction. A segment is never empty once accepted by the segmenter.
type Segment []string

// Text joins the segment rows into one newline-separated block.
func (s Segment) Text() string {
	return strings.TrimSpace(strings.Join(s, "\n"))
}
