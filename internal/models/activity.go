package models

// DailyActivity is one student's accumulated activity for one calendar
// day. At most one row exists per (student, date); StreakDay is the
// running streak length as of the day's first activity.
type DailyActivity struct {
	ID             int64  `json:"id"`
	StudentID      int64  `json:"student_id"`
	ActivityDate   string `json:"activity_date"` // YYYY-MM-DD
	MinutesLearned int    `json:"minutes_learned"`
	SessionsCount  int    `json:"sessions_count"`
	PointsEarned   int    `json:"points_earned"`
	StreakDay      int    `json:"streak_day"`
}
