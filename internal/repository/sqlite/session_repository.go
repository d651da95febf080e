package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*models.LearningSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%s", id)

	var s models.LearningSession
	var concepts string
	err := r.db.QueryRowContext(ctx, `
SELECT id, student_id, topic_id, started_at, ended_at, duration_minutes,
       problems_attempted, problems_correct, accuracy, points_earned, concepts
FROM learning_sessions
WHERE id = ?
`, id).Scan(&s.ID, &s.StudentID, &s.TopicID, &s.StartedAt, &s.EndedAt, &s.DurationMinutes,
		&s.ProblemsAttempted, &s.ProblemsCorrect, &s.Accuracy, &s.PointsEarned, &concepts)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	s.Concepts = unmarshalList(concepts)
	return &s, nil
}

func (r *sessionRepository) Insert(ctx context.Context, s models.LearningSession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, student_id=%d, topic_id=%d", s.ID, s.StudentID, s.TopicID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO learning_sessions (id, student_id, topic_id, started_at, concepts)
VALUES (?, ?, ?, ?, ?)
`, s.ID, s.StudentID, s.TopicID, s.StartedAt, marshalList(s.Concepts))
	if err != nil {
		log.Error("failed to insert session: %v", err)
	}
	return err
}

func (r *sessionRepository) Complete(ctx context.Context, s models.LearningSession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("completing session: id=%s, accuracy=%.1f", s.ID, s.Accuracy)

	_, err := r.db.ExecContext(ctx, `
UPDATE learning_sessions
SET ended_at = ?, duration_minutes = ?, problems_attempted = ?, problems_correct = ?,
    accuracy = ?, points_earned = ?, concepts = ?
WHERE id = ?
`, s.EndedAt, s.DurationMinutes, s.ProblemsAttempted, s.ProblemsCorrect,
		s.Accuracy, s.PointsEarned, marshalList(s.Concepts), s.ID)
	if err != nil {
		log.Error("failed to complete session: %v", err)
	}
	return err
}
