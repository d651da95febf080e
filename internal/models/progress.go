package models

import "time"

// StudentProgress tracks one student's mastery of one topic. Mastery is
// on a 0-100 scale across the whole service; counters only increase.
type StudentProgress struct {
	ID               int64     `json:"id"`
	StudentID        int64     `json:"student_id"`
	TopicID          int64     `json:"topic_id"`
	MasteryLevel     float64   `json:"mastery_level"`
	Strengths        []string  `json:"strengths"`
	Weaknesses       []string  `json:"weaknesses"`
	TotalTimeMinutes int       `json:"total_time_minutes"`
	SessionsCount    int       `json:"sessions_count"`
	LastPracticedAt  time.Time `json:"last_practiced_at"`
	CreatedAt        time.Time `json:"created_at"`
}

type ProgressFilter struct {
	StudentID int64
	SubjectID int64
}
