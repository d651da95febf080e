package models

import "time"

type Student struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	GradeLevel int       `json:"grade_level"`
	CreatedAt  time.Time `json:"created_at"`
}
