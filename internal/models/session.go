package models

import "time"

// LearningSession is one sitting of a student practicing a topic.
// Sessions are started by the tutoring layer and completed when their
// results are tracked.
type LearningSession struct {
	ID                string     `json:"id"`
	StudentID         int64      `json:"student_id"`
	TopicID           int64      `json:"topic_id"`
	StartedAt         time.Time  `json:"started_at"`
	EndedAt           *time.Time `json:"ended_at"`
	DurationMinutes   int        `json:"duration_minutes"`
	ProblemsAttempted int        `json:"problems_attempted"`
	ProblemsCorrect   int        `json:"problems_correct"`
	Accuracy          float64    `json:"accuracy"`
	PointsEarned      int        `json:"points_earned"`
	Concepts          []string   `json:"concepts"`
}

// SessionStats is the result payload reported when a session ends.
type SessionStats struct {
	DurationMinutes   int      `json:"duration_minutes"`
	ProblemsAttempted int      `json:"problems_attempted"`
	ProblemsCorrect   int      `json:"problems_correct"`
	PointsEarned      int      `json:"points_earned"`
	Concepts          []string `json:"concepts"`
}

// AccuracyPercent derives session accuracy on the 0-100 scale.
func (s SessionStats) AccuracyPercent() float64 {
	if s.ProblemsAttempted <= 0 {
		return 0
	}
	return float64(s.ProblemsCorrect) / float64(s.ProblemsAttempted) * 100
}
