package mastery

// Weights for blending prior mastery with session accuracy. A session
// needs at least minSampleSize problems before it carries full weight;
// smaller sessions only nudge the score so noise can't swing it.
const (
	priorWeight    = 0.7
	sessionWeight  = 0.3
	nudgeWeight    = 0.1
	minSampleSize  = 3
)

// CalculateMasteryLevel blends the prior mastery level (0-100) with the
// session's accuracy (0-100) using weighted exponential smoothing.
//
// Sessions with fewer than minSampleSize attempted problems apply only a
// small upward nudge; a session with no attempted problems leaves
// mastery unchanged.
func CalculateMasteryLevel(priorMastery, sessionAccuracy float64, problemsAttempted, problemsCorrect int) float64 {
	if problemsAttempted <= 0 {
		return clamp(priorMastery)
	}
	if problemsAttempted < minSampleSize {
		return clamp(priorMastery + sessionAccuracy*nudgeWeight)
	}
	return clamp(priorMastery*priorWeight + sessionAccuracy*sessionWeight)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
