package mastery

// Accuracy thresholds for reclassifying concepts.
const (
	strengthThreshold = 80.0
	weaknessThreshold = 60.0
	maxConcepts       = 5
)

// ClassifyConcepts updates a student's strength and weakness lists from
// one session's accuracy and the concepts it covered.
//
// Accuracy at or above 80 promotes each concept to a strength and
// clears it from weaknesses. Accuracy below 60 marks each concept as a
// weakness unless it is already a strength. In between, nothing moves.
// Both lists hold at most five entries; the oldest entry is evicted
// when a list overflows.
func ClassifyConcepts(strengths, weaknesses []string, accuracy float64, concepts []string) (newStrengths, newWeaknesses []string) {
	newStrengths = append([]string{}, strengths...)
	newWeaknesses = append([]string{}, weaknesses...)

	switch {
	case accuracy >= strengthThreshold:
		for _, c := range concepts {
			if !contains(newStrengths, c) {
				newStrengths = append(newStrengths, c)
			}
			newWeaknesses = remove(newWeaknesses, c)
		}
	case accuracy < weaknessThreshold:
		for _, c := range concepts {
			if contains(newStrengths, c) {
				continue
			}
			if !contains(newWeaknesses, c) {
				newWeaknesses = append(newWeaknesses, c)
			}
		}
	}

	newStrengths = evictOldest(newStrengths)
	newWeaknesses = evictOldest(newWeaknesses)
	return newStrengths, newWeaknesses
}

// evictOldest drops entries from the front until the list fits.
func evictOldest(list []string) []string {
	if len(list) <= maxConcepts {
		return list
	}
	return list[len(list)-maxConcepts:]
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

func remove(list []string, item string) []string {
	out := list[:0]
	for _, v := range list {
		if v != item {
			out = append(out, v)
		}
	}
	return out
}
