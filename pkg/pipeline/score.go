package pipeline

// Health ratings derived from the readiness score.
const (
	HealthExcellent = "excellent"
	HealthGood      = "good"
	HealthFair      = "fair"
	HealthPoor      = "poor"
)

// readinessScore blends the record success rate with an inverted error
// rate, weighted toward success. Clamped to [0, 100].
func readinessScore(successRate, errorRate float64) float64 {
	inverted := 100 - errorRate
	if inverted < 0 {
		inverted = 0
	}
	score := successRate*0.7 + inverted*0.3
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// dataQualityScore penalizes each error twice as hard as the readiness
// blend does. Floors at zero.
func dataQualityScore(errorRate float64) float64 {
	score := 100 - errorRate*2
	if score < 0 {
		return 0
	}
	return score
}

// healthRating maps a readiness score to a coarse rating.
func healthRating(readiness float64) string {
	switch {
	case readiness >= 90:
		return HealthExcellent
	case readiness >= 75:
		return HealthGood
	case readiness >= 60:
		return HealthFair
	default:
		return HealthPoor
	}
}
