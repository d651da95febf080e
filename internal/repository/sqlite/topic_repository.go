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

type topicRepository struct {
	db *sql.DB
}

// NewTopicRepository creates a new TopicRepository implementation
func NewTopicRepository(db *sql.DB) repository.TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Get(ctx context.Context, id int64) (*models.Topic, error) {
	log := logger.FromContext(ctx).WithPrefix("topic_repo")
	log.Debug("getting topic: id=%d", id)

	var t models.Topic
	err := r.db.QueryRowContext(ctx, `
SELECT id, subject_id, name, grade_level, order_index, created_at
FROM topics
WHERE id = ?
`, id).Scan(&t.ID, &t.SubjectID, &t.Name, &t.GradeLevel, &t.OrderIndex, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("topic not found: id=%d", id)
		} else {
			log.Error("failed to get topic: %v", err)
		}
		return nil, err
	}
	return &t, nil
}

func (r *topicRepository) List(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error) {
	log := logger.FromContext(ctx).WithPrefix("topic_repo")
	log.Debug("listing topics: subject_id=%d, grade_level=%d, max_grade=%d",
		filter.SubjectID, filter.GradeLevel, filter.MaxGradeLevel)

	query := sqlBuilder.Select(
		"id", "subject_id", "name", "grade_level", "order_index", "created_at",
	).From("topics")

	// Dynamic WHERE clauses
	if filter.SubjectID != 0 {
		query = query.Where(squirrel.Eq{"subject_id": filter.SubjectID})
	}
	if filter.GradeLevel != 0 {
		query = query.Where(squirrel.Eq{"grade_level": filter.GradeLevel})
	}
	if filter.MaxGradeLevel != 0 {
		query = query.Where(squirrel.LtOrEq{"grade_level": filter.MaxGradeLevel})
	}

	query = query.OrderBy("grade_level ASC", "order_index ASC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list topics: %v", err)
		return nil, err
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name, &t.GradeLevel, &t.OrderIndex, &t.CreatedAt); err != nil {
			log.Error("failed to scan topic row: %v", err)
			return nil, err
		}
		topics = append(topics, t)
	}
	log.Debug("found %d topics", len(topics))
	return topics, rows.Err()
}

func (r *topicRepository) Insert(ctx context.Context, t models.Topic) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("topic_repo")
	log.Debug("inserting topic: name=%s, subject_id=%d", t.Name, t.SubjectID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO topics (subject_id, name, grade_level, order_index)
VALUES (?, ?, ?, ?)
`, t.SubjectID, t.Name, t.GradeLevel, t.OrderIndex)
	if err != nil {
		log.Error("failed to insert topic: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *topicRepository) InsertSubject(ctx context.Context, s models.Subject) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("topic_repo")
	log.Debug("inserting subject: name=%s", s.Name)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO subjects (name)
VALUES (?)
`, s.Name)
	if err != nil {
		log.Error("failed to insert subject: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *topicRepository) Prerequisites(ctx context.Context, topicID int64) ([]models.Topic, error) {
	log := logger.FromContext(ctx).WithPrefix("topic_repo")
	log.Debug("fetching prerequisites: topic_id=%d", topicID)

	return r.queryRelated(ctx, `
SELECT t.id, t.subject_id, t.name, t.grade_level, t.order_index, t.created_at
FROM topics t
JOIN topic_prerequisites tp ON tp.prerequisite_id = t.id
WHERE tp.topic_id = ?
ORDER BY t.order_index ASC
`, topicID)
}

func (r *topicRepository) Dependents(ctx context.Context, topicID int64) ([]models.Topic, error) {
	log := logger.FromContext(ctx).WithPrefix("topic_repo")
	log.Debug("fetching dependents: topic_id=%d", topicID)

	return r.queryRelated(ctx, `
SELECT t.id, t.subject_id, t.name, t.grade_level, t.order_index, t.created_at
FROM topics t
JOIN topic_prerequisites tp ON tp.topic_id = t.id
WHERE tp.prerequisite_id = ?
ORDER BY t.order_index ASC
`, topicID)
}

func (r *topicRepository) queryRelated(ctx context.Context, query string, topicID int64) ([]models.Topic, error) {
	log := logger.FromContext(ctx).WithPrefix("topic_repo")

	rows, err := r.db.QueryContext(ctx, query, topicID)
	if err != nil {
		log.Error("failed to query related topics: %v", err)
		return nil, err
	}
	defer rows.Close()

	var topics []models.Topic
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name, &t.GradeLevel, &t.OrderIndex, &t.CreatedAt); err != nil {
			log.Error("failed to scan related topic: %v", err)
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *topicRepository) SetPrerequisites(ctx context.Context, topicID int64, prerequisiteIDs []int64) error {
	log := logger.FromContext(ctx).WithPrefix("topic_repo")
	log.Debug("setting prerequisites: topic_id=%d, count=%d", topicID, len(prerequisiteIDs))

	return tx(ctx, r.db, func(t *sql.Tx) error {
		if _, err := t.ExecContext(ctx, `DELETE FROM topic_prerequisites WHERE topic_id = ?`, topicID); err != nil {
			return err
		}
		for _, prereqID := range prerequisiteIDs {
			if _, err := t.ExecContext(ctx, `
INSERT INTO topic_prerequisites (topic_id, prerequisite_id)
VALUES (?, ?)
`, topicID, prereqID); err != nil {
				return err
			}
		}
		return nil
	})
}
