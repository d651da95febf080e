package spacing

import (
	"math"
	"time"

	"github.com/mgriffin/studypath/internal/models"
)

const (
	minEaseFactor     = 1.3
	initialEaseFactor = 2.5
	passThreshold     = 3
)

// NewReview returns the initial scheduling state for a concept a
// student has never reviewed.
func NewReview(studentID int64, conceptID string, subjectID int64, now time.Time) models.ConceptReview {
	return models.ConceptReview{
		StudentID:      studentID,
		ConceptID:      conceptID,
		SubjectID:      subjectID,
		EaseFactor:     initialEaseFactor,
		IntervalDays:   1,
		Repetitions:    0,
		NextReviewDate: now.AddDate(0, 0, 1),
	}
}

// ApplyReview updates concept scheduling using the SM-2 algorithm.
// quality: 0=blackout .. 5=perfect recall; values outside that range
// are clamped.
func ApplyReview(review models.ConceptReview, quality int, now time.Time) models.ConceptReview {
	if quality < 0 {
		quality = 0
	}
	if quality > 5 {
		quality = 5
	}

	ef := review.EaseFactor + (0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02))
	if ef < minEaseFactor {
		ef = minEaseFactor
	}
	review.EaseFactor = ef

	if quality < passThreshold {
		// Failure resets the schedule.
		review.Repetitions = 0
		review.IntervalDays = 1
	} else {
		review.Repetitions++
		switch review.Repetitions {
		case 1:
			review.IntervalDays = 1
		case 2:
			review.IntervalDays = 6
		default:
			review.IntervalDays = int(math.Round(float64(review.IntervalDays) * ef))
		}
	}

	// Weighted running mean over all reviews, including this one.
	total := review.AverageQuality*float64(review.TotalReviews) + float64(quality)
	review.TotalReviews++
	review.AverageQuality = total / float64(review.TotalReviews)

	review.NextReviewDate = now.AddDate(0, 0, review.IntervalDays)
	review.UpdatedAt = now
	return review
}

// Mastery derives a display-only 0-100 score from scheduling state:
// average quality carries half the weight, repetition depth (capped at
// ten) under a third, and ease factor the rest.
func Mastery(review models.ConceptReview) float64 {
	qualityScore := review.AverageQuality / 5 * 100

	reps := float64(review.Repetitions)
	if reps > 10 {
		reps = 10
	}
	repetitionScore := reps / 10 * 100

	easeScore := (review.EaseFactor - minEaseFactor) / (initialEaseFactor - minEaseFactor) * 100
	if easeScore > 100 {
		easeScore = 100
	}
	if easeScore < 0 {
		easeScore = 0
	}

	return qualityScore*0.5 + repetitionScore*0.3 + easeScore*0.2
}

// DaysOverdue reports how many whole days a review is past due, or 0
// if it is not due yet.
func DaysOverdue(review models.ConceptReview, now time.Time) int {
	if now.Before(review.NextReviewDate) {
		return 0
	}
	return int(now.Sub(review.NextReviewDate).Hours() / 24)
}
