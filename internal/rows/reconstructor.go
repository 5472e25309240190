// Package rows reconstructs reading-order text rows from spatially
// positioned recognition tokens.
package rows

import (
	"math"
	"sort"

	"scanledger/internal/models"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Default vertical merge threshold when the token set carries no usable
// geometry.
const defaultYThreshold = 18.0

// Reconstruct groups tokens into ordered text rows. Tokens with bounding
// boxes are clustered by vertical center; within a row, tokens are ordered
// left to right and concatenated without separators. Tokens without boxes
// become one row each, preserving input order after the positioned rows.
// No token is ever dropped, and identical input yields identical output.
func Reconstruct(tokens []models.RecognitionToken) []models.TextRow {
	if len(tokens) == 0 {
		return nil
	}

	var boxed, plain []models.RecognitionToken
	for _, token := range tokens {
		if token.Text == "" {
			continue
		}
		if token.Box != nil {
			boxed = append(boxed, token)
		} else {
			plain = append(plain, token)
		}
	}

	if len(boxed) == 0 {
		result := make([]models.TextRow, 0, len(plain))
		for idx, token := range plain {
			result = append(result, models.TextRow{Text: token.Text, CenterY: float64(idx)})
		}
		return result
	}

	sort.SliceStable(boxed, func(i, j int) bool {
		ci, cj := boxed[i].Box.CenterY(), boxed[j].Box.CenterY()
		if ci != cj {
			return ci < cj
		}
		return boxed[i].Box.CenterX() < boxed[j].Box.CenterX()
	})

	threshold := yThreshold(boxed)

	var groups [][]models.RecognitionToken
	var group []models.RecognitionToken
	currentY := math.NaN()
	for _, token := range boxed {
		cy := token.Box.CenterY()
		if math.IsNaN(currentY) || math.Abs(cy-currentY) <= threshold {
			group = append(group, token)
			if math.IsNaN(currentY) {
				currentY = cy
			} else {
				// Running pairwise average tracks drift within a row.
				currentY = (currentY + cy) / 2
			}
		} else {
			groups = append(groups, group)
			group = []models.RecognitionToken{token}
			currentY = cy
		}
	}
	if len(group) > 0 {
		groups = append(groups, group)
	}

	result := make([]models.TextRow, 0, len(groups)+len(plain))
	for _, members := range groups {
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Box.CenterX() < members[j].Box.CenterX()
		})
		text := ""
		sumY := 0.0
		for _, member := range members {
			text += member.Text
			sumY += member.Box.CenterY()
		}
		result = append(result, models.TextRow{
			Text:    text,
			CenterY: sumY / float64(len(members)),
		})
	}

	lastY := 0.0
	if len(result) > 0 {
		lastY = result[len(result)-1].CenterY
	}
	for idx, token := range plain {
		result = append(result, models.TextRow{Text: token.Text, CenterY: lastY + float64(idx+1)})
	}

	log.WithFields(logrus.Fields{
		"tokens": len(tokens),
		"rows":   len(result),
	}).Debug("Reconstructed text rows from recognition tokens")

	return result
}

// yThreshold computes the row merge threshold as max(10, 0.012 × the overall
// vertical span of the token set).
func yThreshold(tokens []models.RecognitionToken) float64 {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, token := range tokens {
		if token.Box == nil {
			continue
		}
		minY = math.Min(minY, token.Box.Y0)
		maxY = math.Max(maxY, token.Box.Y1)
	}
	if math.IsInf(minY, 1) {
		return defaultYThreshold
	}
	height := maxY - minY
	if height <= 0 {
		return defaultYThreshold
	}
	return math.Max(10.0, height*0.012)
}
