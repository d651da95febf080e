package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "github.com/mgriffin/studypath/internal/errors"
	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/repository"
	"github.com/mgriffin/studypath/internal/spacing"
)

// ReviewService exposes spaced-repetition scheduling: recording a
// review of a concept and querying what has come due.
type ReviewService struct {
	students repository.StudentRepository
	reviews  repository.ReviewRepository

	now func() time.Time
}

// NewReviewService creates a ReviewService.
func NewReviewService(students repository.StudentRepository, reviews repository.ReviewRepository) *ReviewService {
	return &ReviewService{students: students, reviews: reviews, now: time.Now}
}

// RecordReview applies one review of a concept at the given quality
// (0-5) and persists the rescheduled state. First-ever reviews create
// the scheduling record.
func (s *ReviewService) RecordReview(ctx context.Context, studentID int64, conceptID string, quality int, subjectID int64) (*models.ConceptReview, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")

	if conceptID == "" {
		return nil, apperrors.NewValidationError("concept_id", "must not be empty")
	}
	if quality < 0 || quality > 5 {
		return nil, apperrors.NewValidationError("quality", "must be between 0 and 5")
	}
	if _, err := s.students.Get(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("student", studentID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	existing, err := s.reviews.Get(ctx, studentID, conceptID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	var next models.ConceptReview
	if existing == nil {
		next = spacing.ApplyReview(spacing.NewReview(studentID, conceptID, subjectID, now), quality, now)
	} else {
		next = spacing.ApplyReview(*existing, quality, now)
	}

	saved, err := s.reviews.Upsert(ctx, next)
	if err != nil {
		log.Error("failed to upsert review: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	log.Debug("review recorded: student=%d concept=%s quality=%d next=%s",
		studentID, conceptID, quality, saved.NextReviewDate.Format("2006-01-02"))
	return saved, nil
}

// DueForReview lists concepts due for review, most overdue first, each
// annotated with days overdue and a derived mastery score. subjectID of
// 0 means all subjects.
func (s *ReviewService) DueForReview(ctx context.Context, studentID, subjectID int64) ([]models.DueReview, error) {
	if _, err := s.students.Get(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("student", studentID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	due, err := s.reviews.Due(ctx, studentID, subjectID, now)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	result := make([]models.DueReview, 0, len(due))
	for _, review := range due {
		result = append(result, models.DueReview{
			ConceptReview: review,
			DaysOverdue:   spacing.DaysOverdue(review, now),
			Mastery:       spacing.Mastery(review),
		})
	}
	return result, nil
}

// CountDue returns how many reviews are currently due for a student.
func (s *ReviewService) CountDue(ctx context.Context, studentID int64) (int, error) {
	count, err := s.reviews.CountDue(ctx, studentID, s.now())
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return count, nil
}
