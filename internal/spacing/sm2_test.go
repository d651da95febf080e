package spacing_test

import (
	"testing"
	"time"

	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/spacing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReview() models.ConceptReview {
	return spacing.NewReview(1, "fractions-add", 1, time.Now())
}

func TestApplyReview_PerfectScore(t *testing.T) {
	review := newReview()
	now := time.Now()

	updated := spacing.ApplyReview(review, 5, now)

	assert.Equal(t, 1, updated.Repetitions, "first success should set repetitions to 1")
	assert.Equal(t, 1, updated.IntervalDays, "first success should keep interval at 1")
	assert.Greater(t, updated.EaseFactor, review.EaseFactor, "ease factor should increase")
	assert.Equal(t, 1, updated.TotalReviews)
	assert.True(t, updated.NextReviewDate.After(now), "next review should be in the future")
}

func TestApplyReview_FailureResetsSchedule(t *testing.T) {
	for quality := 0; quality < 3; quality++ {
		review := models.ConceptReview{
			EaseFactor:   2.5,
			IntervalDays: 30,
			Repetitions:  6,
		}

		updated := spacing.ApplyReview(review, quality, time.Now())

		assert.Equal(t, 0, updated.Repetitions, "quality %d should reset repetitions", quality)
		assert.Equal(t, 1, updated.IntervalDays, "quality %d should reset interval", quality)
	}
}

func TestApplyReview_IntervalProgression(t *testing.T) {
	now := time.Now()
	review := newReview()

	// First successful review: interval stays at 1.
	review = spacing.ApplyReview(review, 4, now)
	assert.Equal(t, 1, review.Repetitions)
	assert.Equal(t, 1, review.IntervalDays)

	// Second: jumps to 6.
	review = spacing.ApplyReview(review, 4, now)
	assert.Equal(t, 2, review.Repetitions)
	assert.Equal(t, 6, review.IntervalDays)

	// Third: multiplies by the ease factor.
	review = spacing.ApplyReview(review, 4, now)
	assert.Equal(t, 3, review.Repetitions)
	assert.Greater(t, review.IntervalDays, 6, "interval should grow by the ease factor")
}

func TestApplyReview_EaseFactorFloor(t *testing.T) {
	review := models.ConceptReview{
		EaseFactor:   1.3,
		IntervalDays: 10,
		Repetitions:  4,
	}

	// Repeated blackouts must never push ease below 1.3.
	for i := 0; i < 10; i++ {
		review = spacing.ApplyReview(review, 0, time.Now())
		assert.GreaterOrEqual(t, review.EaseFactor, 1.3)
	}
}

func TestApplyReview_QualityClamped(t *testing.T) {
	review := newReview()

	high := spacing.ApplyReview(review, 9, time.Now())
	perfect := spacing.ApplyReview(review, 5, time.Now())
	assert.Equal(t, perfect.EaseFactor, high.EaseFactor, "quality above 5 should clamp to 5")

	low := spacing.ApplyReview(review, -2, time.Now())
	blackout := spacing.ApplyReview(review, 0, time.Now())
	assert.Equal(t, blackout.EaseFactor, low.EaseFactor, "quality below 0 should clamp to 0")
}

func TestApplyReview_AverageQuality(t *testing.T) {
	now := time.Now()
	review := newReview()

	review = spacing.ApplyReview(review, 5, now)
	review = spacing.ApplyReview(review, 3, now)

	require.Equal(t, 2, review.TotalReviews)
	assert.InDelta(t, 4.0, review.AverageQuality, 0.001)
}

func TestApplyReview_NextReviewDate(t *testing.T) {
	now := time.Now()
	review := newReview()
	review.Repetitions = 1
	review.IntervalDays = 1

	updated := spacing.ApplyReview(review, 4, now)

	assert.Equal(t, 6, updated.IntervalDays)
	assert.WithinDuration(t, now.AddDate(0, 0, 6), updated.NextReviewDate, time.Second)
}

func TestMastery_Blend(t *testing.T) {
	review := models.ConceptReview{
		AverageQuality: 5,
		Repetitions:    10,
		EaseFactor:     2.5,
	}

	// Perfect on every axis yields the full score.
	assert.InDelta(t, 100.0, spacing.Mastery(review), 0.001)

	review.Repetitions = 25
	assert.InDelta(t, 100.0, spacing.Mastery(review), 0.001, "repetitions should cap at 10")

	fresh := models.ConceptReview{AverageQuality: 0, Repetitions: 0, EaseFactor: 1.3}
	assert.InDelta(t, 0.0, spacing.Mastery(fresh), 0.001)
}

func TestDaysOverdue(t *testing.T) {
	now := time.Now()

	future := models.ConceptReview{NextReviewDate: now.AddDate(0, 0, 2)}
	assert.Equal(t, 0, spacing.DaysOverdue(future, now))

	past := models.ConceptReview{NextReviewDate: now.Add(-72 * time.Hour)}
	assert.Equal(t, 3, spacing.DaysOverdue(past, now))
}
