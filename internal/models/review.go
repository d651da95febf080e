package models

import "time"

// ConceptReview holds SM-2 scheduling state for one concept per student.
type ConceptReview struct {
	ID             int64     `json:"id"`
	StudentID      int64     `json:"student_id"`
	ConceptID      string    `json:"concept_id"`
	SubjectID      int64     `json:"subject_id"`
	EaseFactor     float64   `json:"ease_factor"`
	IntervalDays   int       `json:"interval_days"`
	Repetitions    int       `json:"repetitions"`
	NextReviewDate time.Time `json:"next_review_date"`
	TotalReviews   int       `json:"total_reviews"`
	AverageQuality float64   `json:"average_quality"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DueReview is a review that has come due, annotated for the caller.
type DueReview struct {
	ConceptReview
	DaysOverdue int     `json:"days_overdue"`
	Mastery     float64 `json:"mastery"`
}
