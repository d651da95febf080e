package models

import "time"

type Subject struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Topic struct {
	ID         int64     `json:"id"`
	SubjectID  int64     `json:"subject_id"`
	Name       string    `json:"name"`
	GradeLevel int       `json:"grade_level"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

type TopicFilter struct {
	SubjectID     int64
	GradeLevel    int
	MaxGradeLevel int
	Limit         int
	Offset        int
}
