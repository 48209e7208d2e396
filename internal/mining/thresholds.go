package mining

import "math"

// Thresholds configures the support and confidence filters of a run.
type Thresholds struct {
	MinSupport       float64 `json:"min_support"`
	MinConfidence    float64 `json:"min_confidence"`
	FilterSupport    bool    `json:"filter_support"`
	FilterConfidence bool    `json:"filter_confidence"`
}

// DefaultThresholds returns 10% support and 50% confidence with both filters on.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSupport:       0.1,
		MinConfidence:    0.5,
		FilterSupport:    true,
		FilterConfidence: true,
	}
}

// Validate checks that both ratios lie in (0, 1].
func (t Thresholds) Validate() error {
	if !(t.MinSupport > 0 && t.MinSupport <= 1) {
		return newConfigError("", "min support %v outside (0, 1]", t.MinSupport)
	}
	if !(t.MinConfidence > 0 && t.MinConfidence <= 1) {
		return newConfigError("", "min confidence %v outside (0, 1]", t.MinConfidence)
	}
	return nil
}

// SupportCount is the absolute support threshold for a table of rows rows.
func (t Thresholds) SupportCount(rows int) int {
	return int(math.RoundToEven(float64(rows) * t.MinSupport))
}

// ConfidencePermille is the confidence threshold in thousandths.
func (t Thresholds) ConfidencePermille() int {
	return int(math.RoundToEven(t.MinConfidence * 1000))
}

// confidence returns round(count / parent * 1000), or 0 without a parent.
func confidence(count, parent int) int {
	if parent <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(count) / float64(parent) * 1000))
}
