package mastery_test

import (
	"testing"

	"github.com/mgriffin/studypath/internal/mastery"
	"github.com/stretchr/testify/assert"
)

func TestClassifyConcepts_HighAccuracyPromotes(t *testing.T) {
	strengths, weaknesses := mastery.ClassifyConcepts(
		[]string{"addition"},
		[]string{"fractions", "decimals"},
		85,
		[]string{"fractions"},
	)

	assert.Contains(t, strengths, "fractions", "concept should be promoted to strength")
	assert.Contains(t, strengths, "addition")
	assert.NotContains(t, weaknesses, "fractions", "promotion removes the weakness")
	assert.Contains(t, weaknesses, "decimals")
}

func TestClassifyConcepts_LowAccuracyMarksWeakness(t *testing.T) {
	strengths, weaknesses := mastery.ClassifyConcepts(
		[]string{"addition"},
		nil,
		40,
		[]string{"fractions", "addition"},
	)

	assert.Contains(t, weaknesses, "fractions")
	assert.NotContains(t, weaknesses, "addition", "an existing strength is never demoted")
	assert.Contains(t, strengths, "addition")
}

func TestClassifyConcepts_MiddleBandNoChange(t *testing.T) {
	strengths, weaknesses := mastery.ClassifyConcepts(
		[]string{"addition"},
		[]string{"fractions"},
		70,
		[]string{"decimals"},
	)

	assert.Equal(t, []string{"addition"}, strengths)
	assert.Equal(t, []string{"fractions"}, weaknesses)
}

func TestClassifyConcepts_Idempotent(t *testing.T) {
	strengths, weaknesses := mastery.ClassifyConcepts(
		[]string{"addition"},
		nil,
		90,
		[]string{"addition"},
	)

	assert.Equal(t, []string{"addition"}, strengths, "re-adding a strength must not duplicate it")
	assert.Empty(t, weaknesses)

	_, weaknesses = mastery.ClassifyConcepts(
		nil,
		[]string{"fractions"},
		30,
		[]string{"fractions"},
	)
	assert.Equal(t, []string{"fractions"}, weaknesses)
}

func TestClassifyConcepts_EvictsOldestAtFive(t *testing.T) {
	strengths, _ := mastery.ClassifyConcepts(
		[]string{"a", "b", "c", "d", "e"},
		nil,
		95,
		[]string{"f"},
	)

	assert.Len(t, strengths, 5)
	assert.NotContains(t, strengths, "a", "oldest entry is evicted")
	assert.Contains(t, strengths, "f", "newest entry is kept")
	assert.Equal(t, []string{"b", "c", "d", "e", "f"}, strengths)
}

func TestClassifyConcepts_DoesNotMutateInputs(t *testing.T) {
	strengths := []string{"addition"}
	weaknesses := []string{"fractions"}

	mastery.ClassifyConcepts(strengths, weaknesses, 95, []string{"fractions"})

	assert.Equal(t, []string{"addition"}, strengths)
	assert.Equal(t, []string{"fractions"}, weaknesses)
}
