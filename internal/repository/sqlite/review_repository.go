package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, student_id, concept_id, subject_id, ease_factor, interval_days,
       repetitions, next_review_date, total_reviews, average_quality, created_at, updated_at`

func scanReview(row interface{ Scan(...any) error }) (*models.ConceptReview, error) {
	var rv models.ConceptReview
	err := row.Scan(&rv.ID, &rv.StudentID, &rv.ConceptID, &rv.SubjectID, &rv.EaseFactor, &rv.IntervalDays,
		&rv.Repetitions, &rv.NextReviewDate, &rv.TotalReviews, &rv.AverageQuality, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepository) Get(ctx context.Context, studentID int64, conceptID string) (*models.ConceptReview, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("getting review: student_id=%d, concept_id=%s", studentID, conceptID)

	rv, err := scanReview(r.db.QueryRowContext(ctx, `
SELECT `+reviewColumns+`
FROM concept_reviews
WHERE student_id = ? AND concept_id = ?
`, studentID, conceptID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get review: %v", err)
		return nil, err
	}
	return rv, nil
}

func (r *reviewRepository) Upsert(ctx context.Context, rv models.ConceptReview) (*models.ConceptReview, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("upserting review: student_id=%d, concept_id=%s, interval=%d, ease=%.2f",
		rv.StudentID, rv.ConceptID, rv.IntervalDays, rv.EaseFactor)

	out, err := scanReview(r.db.QueryRowContext(ctx, `
INSERT INTO concept_reviews (student_id, concept_id, subject_id, ease_factor, interval_days,
                             repetitions, next_review_date, total_reviews, average_quality, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(student_id, concept_id) DO UPDATE SET
    subject_id = excluded.subject_id,
    ease_factor = excluded.ease_factor,
    interval_days = excluded.interval_days,
    repetitions = excluded.repetitions,
    next_review_date = excluded.next_review_date,
    total_reviews = excluded.total_reviews,
    average_quality = excluded.average_quality,
    updated_at = CURRENT_TIMESTAMP
RETURNING `+reviewColumns+`
`, rv.StudentID, rv.ConceptID, rv.SubjectID, rv.EaseFactor, rv.IntervalDays,
		rv.Repetitions, rv.NextReviewDate, rv.TotalReviews, rv.AverageQuality))
	if err != nil {
		log.Error("failed to upsert review: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *reviewRepository) Due(ctx context.Context, studentID, subjectID int64, now time.Time) ([]models.ConceptReview, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching due reviews: student_id=%d, subject_id=%d", studentID, subjectID)

	query := `
SELECT ` + reviewColumns + `
FROM concept_reviews
WHERE student_id = ? AND next_review_date <= ?`
	args := []any{studentID, now}
	if subjectID != 0 {
		query += ` AND subject_id = ?`
		args = append(args, subjectID)
	}
	query += `
ORDER BY next_review_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query due reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var due []models.ConceptReview
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			log.Error("failed to scan review row: %v", err)
			return nil, err
		}
		due = append(due, *rv)
	}
	log.Debug("found %d due reviews", len(due))
	return due, rows.Err()
}

func (r *reviewRepository) CountDue(ctx context.Context, studentID int64, now time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM concept_reviews
WHERE student_id = ? AND next_review_date <= ?
`, studentID, now).Scan(&count)
	if err != nil {
		log.Error("failed to count due reviews: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *reviewRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.ConceptReview, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("listing reviews: student_id=%d", studentID)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+reviewColumns+`
FROM concept_reviews
WHERE student_id = ?
ORDER BY concept_id ASC
`, studentID)
	if err != nil {
		log.Error("failed to list reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var reviews []models.ConceptReview
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			log.Error("failed to scan review row: %v", err)
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}
