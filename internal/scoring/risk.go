package scoring

// RiskLevel buckets a safety score into a category the frontend can render
// directly.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// Classification thresholds. A boundary score belongs to the safer bucket:
// 40.0 classifies Medium and 70.0 classifies Low.
const (
	MediumThreshold = 40.0
	LowThreshold    = 70.0
)

// Classify maps a safety score to its risk level. Exposed standalone since
// both scoring paths use it and callers may bucket scores themselves.
func Classify(score float64) RiskLevel {
	switch {
	case score < MediumThreshold:
		return RiskHigh
	case score < LowThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}
