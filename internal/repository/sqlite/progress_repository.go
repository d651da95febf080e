package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, studentID, topicID int64) (*models.StudentProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: student_id=%d, topic_id=%d", studentID, topicID)

	var p models.StudentProgress
	var strengths, weaknesses string
	err := r.db.QueryRowContext(ctx, `
SELECT id, student_id, topic_id, mastery_level, strengths, weaknesses,
       total_time_minutes, sessions_count, last_practiced_at, created_at
FROM student_progress
WHERE student_id = ? AND topic_id = ?
`, studentID, topicID).Scan(&p.ID, &p.StudentID, &p.TopicID, &p.MasteryLevel, &strengths, &weaknesses,
		&p.TotalTimeMinutes, &p.SessionsCount, &p.LastPracticedAt, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no progress record: student_id=%d, topic_id=%d", studentID, topicID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	p.Strengths = unmarshalList(strengths)
	p.Weaknesses = unmarshalList(weaknesses)
	return &p, nil
}

func (r *progressRepository) ListByStudent(ctx context.Context, filter models.ProgressFilter) ([]models.StudentProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing progress: student_id=%d, subject_id=%d", filter.StudentID, filter.SubjectID)

	query := sqlBuilder.Select(
		"p.id", "p.student_id", "p.topic_id", "p.mastery_level", "p.strengths", "p.weaknesses",
		"p.total_time_minutes", "p.sessions_count", "p.last_practiced_at", "p.created_at",
	).From("student_progress p")

	if filter.SubjectID != 0 {
		query = query.Join("topics t ON t.id = p.topic_id").
			Where(squirrel.Eq{"t.subject_id": filter.SubjectID})
	}
	query = query.Where(squirrel.Eq{"p.student_id": filter.StudentID}).
		OrderBy("p.last_practiced_at DESC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.StudentProgress
	for rows.Next() {
		var p models.StudentProgress
		var strengths, weaknesses string
		if err := rows.Scan(&p.ID, &p.StudentID, &p.TopicID, &p.MasteryLevel, &strengths, &weaknesses,
			&p.TotalTimeMinutes, &p.SessionsCount, &p.LastPracticedAt, &p.CreatedAt); err != nil {
			log.Error("failed to scan progress row: %v", err)
			return nil, err
		}
		p.Strengths = unmarshalList(strengths)
		p.Weaknesses = unmarshalList(weaknesses)
		records = append(records, p)
	}
	log.Debug("found %d progress records", len(records))
	return records, rows.Err()
}

func (r *progressRepository) Upsert(ctx context.Context, p models.StudentProgress) (*models.StudentProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("upserting progress: student_id=%d, topic_id=%d, mastery=%.1f", p.StudentID, p.TopicID, p.MasteryLevel)

	var out models.StudentProgress
	var strengths, weaknesses string
	err := r.db.QueryRowContext(ctx, `
INSERT INTO student_progress (student_id, topic_id, mastery_level, strengths, weaknesses,
                              total_time_minutes, sessions_count, last_practiced_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(student_id, topic_id) DO UPDATE SET
    mastery_level = excluded.mastery_level,
    strengths = excluded.strengths,
    weaknesses = excluded.weaknesses,
    total_time_minutes = excluded.total_time_minutes,
    sessions_count = excluded.sessions_count,
    last_practiced_at = excluded.last_practiced_at
RETURNING id, student_id, topic_id, mastery_level, strengths, weaknesses,
          total_time_minutes, sessions_count, last_practiced_at, created_at
`, p.StudentID, p.TopicID, p.MasteryLevel, marshalList(p.Strengths), marshalList(p.Weaknesses),
		p.TotalTimeMinutes, p.SessionsCount, p.LastPracticedAt).
		Scan(&out.ID, &out.StudentID, &out.TopicID, &out.MasteryLevel, &strengths, &weaknesses,
			&out.TotalTimeMinutes, &out.SessionsCount, &out.LastPracticedAt, &out.CreatedAt)
	if err != nil {
		log.Error("failed to upsert progress: %v", err)
		return nil, err
	}
	out.Strengths = unmarshalList(strengths)
	out.Weaknesses = unmarshalList(weaknesses)
	log.Debug("progress upserted: id=%d", out.ID)
	return &out, nil
}
