package streak_test

import (
	"testing"
	"time"

	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/streak"
	"github.com/stretchr/testify/assert"
)

func day(t time.Time, offset int) string {
	return streak.DateOf(t.AddDate(0, 0, offset))
}

func TestCalculate_Empty(t *testing.T) {
	got := streak.Calculate(nil, time.Now())
	assert.Equal(t, 0, got)
}

func TestCalculate_ActiveToday(t *testing.T) {
	now := time.Now()
	history := []models.DailyActivity{
		{ActivityDate: day(now, 0), StreakDay: 5},
	}

	assert.Equal(t, 5, streak.Calculate(history, now))
}

func TestCalculate_ActiveYesterdayOnly(t *testing.T) {
	now := time.Now()
	history := []models.DailyActivity{
		{ActivityDate: day(now, -1), StreakDay: 3},
	}

	assert.Equal(t, 3, streak.Calculate(history, now))
}

func TestCalculate_StreakBroken(t *testing.T) {
	now := time.Now()
	history := []models.DailyActivity{
		{ActivityDate: day(now, -2), StreakDay: 7},
		{ActivityDate: day(now, -3), StreakDay: 6},
	}

	assert.Equal(t, 0, streak.Calculate(history, now))
}

func TestNext_FirstEverActivity(t *testing.T) {
	assert.Equal(t, 1, streak.Next(nil, time.Now()))
}

func TestNext_ContinuesFromYesterday(t *testing.T) {
	now := time.Now()
	history := []models.DailyActivity{
		{ActivityDate: day(now, -1), StreakDay: 4},
	}

	assert.Equal(t, 5, streak.Next(history, now))
}

func TestNext_ResetsAfterGap(t *testing.T) {
	now := time.Now()
	history := []models.DailyActivity{
		{ActivityDate: day(now, -5), StreakDay: 12},
	}

	assert.Equal(t, 1, streak.Next(history, now))
}
