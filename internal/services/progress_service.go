package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mgriffin/studypath/internal/cache"
	apperrors "github.com/mgriffin/studypath/internal/errors"
	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/mastery"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/repository"
	"github.com/mgriffin/studypath/internal/spacing"
	"github.com/mgriffin/studypath/internal/streak"
)

const streakHistoryWindow = 30

// Invalidator clears and optionally rewarms derived state after a
// progress write. Implemented by the recommendation service plus the
// background warm queue.
type Invalidator interface {
	Invalidate(ctx context.Context, studentID int64)
}

// ProgressService owns the session lifecycle and everything that fans
// out from a completed session: mastery, strengths/weaknesses, streaks
// and spaced-repetition state.
type ProgressService struct {
	students    repository.StudentRepository
	topics      repository.TopicRepository
	progress    repository.ProgressRepository
	activity    repository.ActivityRepository
	reviews     repository.ReviewRepository
	sessions    repository.SessionRepository
	invalidator Invalidator

	sessionCache cache.SessionCache

	now func() time.Time
}

// NewProgressService creates a ProgressService. invalidator may be nil.
func NewProgressService(
	students repository.StudentRepository,
	topics repository.TopicRepository,
	progress repository.ProgressRepository,
	activity repository.ActivityRepository,
	reviews repository.ReviewRepository,
	sessions repository.SessionRepository,
	invalidator Invalidator,
) *ProgressService {
	return &ProgressService{
		students:    students,
		topics:      topics,
		progress:    progress,
		activity:    activity,
		reviews:     reviews,
		sessions:    sessions,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// SetSessionCache attaches an optional cache for in-flight sessions.
// All cache traffic is best-effort; the session table stays the source
// of truth.
func (s *ProgressService) SetSessionCache(c cache.SessionCache) {
	s.sessionCache = c
}

// StartSession opens a new learning session for a student on a topic.
func (s *ProgressService) StartSession(ctx context.Context, studentID, topicID int64) (*models.LearningSession, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_service")

	if _, err := s.students.Get(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("student", studentID)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if _, err := s.topics.Get(ctx, topicID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("topic", topicID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	session := models.LearningSession{
		ID:        uuid.NewString(),
		StudentID: studentID,
		TopicID:   topicID,
		StartedAt: s.now(),
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		log.Error("failed to insert session: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	if s.sessionCache != nil {
		if err := s.sessionCache.Set(ctx, &session); err != nil {
			log.Warn("failed to cache session %s: %v", session.ID, err)
		}
	}
	log.Info("session started: id=%s student=%d topic=%d", session.ID, studentID, topicID)
	return &session, nil
}

// TrackSessionProgress completes a session and propagates its results:
// recalculated mastery, reclassified strengths/weaknesses, bumped
// streak, and an SM-2 review per practiced concept. Persistence
// failures on this path propagate; cache invalidation is best-effort.
func (s *ProgressService) TrackSessionProgress(ctx context.Context, sessionID string, stats models.SessionStats) (*models.StudentProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_service").WithField("session_id", sessionID)

	session, err := s.lookupSession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if session == nil {
		return nil, apperrors.NewNotFoundError("session", sessionID)
	}
	if session.EndedAt != nil {
		return nil, apperrors.NewValidationError("session", "already completed")
	}
	if stats.ProblemsCorrect > stats.ProblemsAttempted {
		return nil, apperrors.NewValidationError("problems_correct", "cannot exceed problems attempted")
	}

	now := s.now()
	accuracy := stats.AccuracyPercent()

	prior, err := s.progress.Get(ctx, session.StudentID, session.TopicID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	record := models.StudentProgress{
		StudentID: session.StudentID,
		TopicID:   session.TopicID,
	}
	if prior != nil {
		record = *prior
	}

	record.MasteryLevel = mastery.CalculateMasteryLevel(record.MasteryLevel, accuracy, stats.ProblemsAttempted, stats.ProblemsCorrect)
	record.Strengths, record.Weaknesses = mastery.ClassifyConcepts(record.Strengths, record.Weaknesses, accuracy, stats.Concepts)
	record.TotalTimeMinutes += stats.DurationMinutes
	record.SessionsCount++
	record.LastPracticedAt = now

	updated, err := s.progress.Upsert(ctx, record)
	if err != nil {
		log.Error("failed to upsert progress: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.recordActivity(ctx, session.StudentID, stats, now); err != nil {
		log.Error("failed to record daily activity: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	topic, err := s.topics.Get(ctx, session.TopicID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.updateReviews(ctx, session.StudentID, topic.SubjectID, stats.Concepts, accuracy, now); err != nil {
		log.Error("failed to update concept reviews: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	completed := *session
	completed.EndedAt = &now
	completed.DurationMinutes = stats.DurationMinutes
	completed.ProblemsAttempted = stats.ProblemsAttempted
	completed.ProblemsCorrect = stats.ProblemsCorrect
	completed.Accuracy = accuracy
	completed.PointsEarned = stats.PointsEarned
	completed.Concepts = stats.Concepts
	if err := s.sessions.Complete(ctx, completed); err != nil {
		log.Error("failed to complete session: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	if s.sessionCache != nil {
		if err := s.sessionCache.Delete(ctx, sessionID); err != nil {
			log.Warn("failed to drop cached session: %v", err)
		}
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, session.StudentID)
	}

	log.Info("session tracked: student=%d topic=%d mastery=%.1f accuracy=%.1f",
		session.StudentID, session.TopicID, updated.MasteryLevel, accuracy)
	return updated, nil
}

// lookupSession reads a session, preferring the cache. Cache failures
// fall through to the session table.
func (s *ProgressService) lookupSession(ctx context.Context, id string) (*models.LearningSession, error) {
	if s.sessionCache != nil {
		cached, err := s.sessionCache.Get(ctx, id)
		if err != nil {
			logger.FromContext(ctx).WithPrefix("progress_service").Warn("session cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.sessions.Get(ctx, id)
}

// recordActivity increments today's activity row, creating it with the
// right streak day when this is the first activity of the day.
func (s *ProgressService) recordActivity(ctx context.Context, studentID int64, stats models.SessionStats, now time.Time) error {
	today := streak.DateOf(now)

	existing, err := s.activity.Get(ctx, studentID, today)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.activity.Increment(ctx, studentID, today, stats.DurationMinutes, 1, stats.PointsEarned)
	}

	history, err := s.activity.Recent(ctx, studentID, streakHistoryWindow)
	if err != nil {
		return err
	}
	_, err = s.activity.Insert(ctx, models.DailyActivity{
		StudentID:      studentID,
		ActivityDate:   today,
		MinutesLearned: stats.DurationMinutes,
		SessionsCount:  1,
		PointsEarned:   stats.PointsEarned,
		StreakDay:      streak.Next(history, now),
	})
	return err
}

// updateReviews applies an SM-2 review per practiced concept, deriving
// review quality from session accuracy.
func (s *ProgressService) updateReviews(ctx context.Context, studentID, subjectID int64, concepts []string, accuracy float64, now time.Time) error {
	quality := qualityFromAccuracy(accuracy)
	for _, conceptID := range concepts {
		review, err := s.reviews.Get(ctx, studentID, conceptID)
		if err != nil {
			return err
		}
		var next models.ConceptReview
		if review == nil {
			next = spacing.ApplyReview(spacing.NewReview(studentID, conceptID, subjectID, now), quality, now)
		} else {
			next = spacing.ApplyReview(*review, quality, now)
		}
		if _, err := s.reviews.Upsert(ctx, next); err != nil {
			return err
		}
	}
	return nil
}

// GetStreak returns the student's current streak length.
func (s *ProgressService) GetStreak(ctx context.Context, studentID int64) (int, error) {
	if _, err := s.students.Get(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.NewNotFoundError("student", studentID)
		}
		return 0, apperrors.NewInternalError(err)
	}
	history, err := s.activity.Recent(ctx, studentID, streakHistoryWindow)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return streak.Calculate(history, s.now()), nil
}

// Progress returns all progress records for a student, optionally
// narrowed to one subject.
func (s *ProgressService) Progress(ctx context.Context, studentID, subjectID int64) ([]models.StudentProgress, error) {
	if _, err := s.students.Get(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("student", studentID)
		}
		return nil, apperrors.NewInternalError(err)
	}
	records, err := s.progress.ListByStudent(ctx, models.ProgressFilter{StudentID: studentID, SubjectID: subjectID})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return records, nil
}

// qualityFromAccuracy maps 0-100 session accuracy onto the 0-5 SM-2
// quality scale.
func qualityFromAccuracy(accuracy float64) int {
	switch {
	case accuracy >= 90:
		return 5
	case accuracy >= 80:
		return 4
	case accuracy >= 60:
		return 3
	case accuracy >= 40:
		return 2
	case accuracy >= 20:
		return 1
	default:
		return 0
	}
}
