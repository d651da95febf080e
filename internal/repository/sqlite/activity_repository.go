package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/repository"
)

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new ActivityRepository implementation
func NewActivityRepository(db *sql.DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Get(ctx context.Context, studentID int64, date string) (*models.DailyActivity, error) {
	log := logger.FromContext(ctx).WithPrefix("activity_repo")
	log.Debug("getting activity: student_id=%d, date=%s", studentID, date)

	var a models.DailyActivity
	err := r.db.QueryRowContext(ctx, `
SELECT id, student_id, activity_date, minutes_learned, sessions_count, points_earned, streak_day
FROM daily_activity
WHERE student_id = ? AND activity_date = ?
`, studentID, date).Scan(&a.ID, &a.StudentID, &a.ActivityDate, &a.MinutesLearned, &a.SessionsCount, &a.PointsEarned, &a.StreakDay)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get activity: %v", err)
		return nil, err
	}
	return &a, nil
}

func (r *activityRepository) Recent(ctx context.Context, studentID int64, limit int) ([]models.DailyActivity, error) {
	log := logger.FromContext(ctx).WithPrefix("activity_repo")
	log.Debug("fetching recent activity: student_id=%d, limit=%d", studentID, limit)

	if limit <= 0 {
		limit = 30
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, student_id, activity_date, minutes_learned, sessions_count, points_earned, streak_day
FROM daily_activity
WHERE student_id = ?
ORDER BY activity_date DESC
LIMIT ?
`, studentID, limit)
	if err != nil {
		log.Error("failed to query recent activity: %v", err)
		return nil, err
	}
	defer rows.Close()

	var history []models.DailyActivity
	for rows.Next() {
		var a models.DailyActivity
		if err := rows.Scan(&a.ID, &a.StudentID, &a.ActivityDate, &a.MinutesLearned, &a.SessionsCount, &a.PointsEarned, &a.StreakDay); err != nil {
			log.Error("failed to scan activity row: %v", err)
			return nil, err
		}
		history = append(history, a)
	}
	log.Debug("found %d activity records", len(history))
	return history, rows.Err()
}

func (r *activityRepository) Insert(ctx context.Context, a models.DailyActivity) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("activity_repo")
	log.Debug("inserting activity: student_id=%d, date=%s, streak_day=%d", a.StudentID, a.ActivityDate, a.StreakDay)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO daily_activity (student_id, activity_date, minutes_learned, sessions_count, points_earned, streak_day)
VALUES (?, ?, ?, ?, ?, ?)
`, a.StudentID, a.ActivityDate, a.MinutesLearned, a.SessionsCount, a.PointsEarned, a.StreakDay)
	if err != nil {
		log.Error("failed to insert activity: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *activityRepository) Increment(ctx context.Context, studentID int64, date string, minutes, sessions, points int) error {
	log := logger.FromContext(ctx).WithPrefix("activity_repo")
	log.Debug("incrementing activity: student_id=%d, date=%s, minutes=%d", studentID, date, minutes)

	_, err := r.db.ExecContext(ctx, `
UPDATE daily_activity
SET minutes_learned = minutes_learned + ?,
    sessions_count = sessions_count + ?,
    points_earned = points_earned + ?
WHERE student_id = ? AND activity_date = ?
`, minutes, sessions, points, studentID, date)
	if err != nil {
		log.Error("failed to increment activity: %v", err)
	}
	return err
}
