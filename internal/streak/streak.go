package streak

import (
	"time"

	"github.com/mgriffin/studypath/internal/models"
)

// DateLayout is the calendar-day format used by activity records.
const DateLayout = "2006-01-02"

// DateOf formats a timestamp as the calendar day it falls on.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// Calculate returns the student's current streak from their activity
// history. History must be ordered by date descending (most recent
// first); callers pass the most recent 30 records.
//
// If the student was active today the streak is today's recorded
// streak day. If the last activity was yesterday the streak is still
// alive at yesterday's value. Any longer gap means the streak is 0.
func Calculate(history []models.DailyActivity, now time.Time) int {
	if len(history) == 0 {
		return 0
	}

	today := DateOf(now)
	yesterday := DateOf(now.AddDate(0, 0, -1))

	latest := history[0]
	switch latest.ActivityDate {
	case today:
		return latest.StreakDay
	case yesterday:
		return latest.StreakDay
	default:
		return 0
	}
}

// Next returns the streak day to record for a new activity day: the
// current streak plus one, or 1 for a first-ever (or broken-streak)
// activity.
func Next(history []models.DailyActivity, now time.Time) int {
	return Calculate(history, now) + 1
}
