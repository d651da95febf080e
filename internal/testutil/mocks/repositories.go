// Package mocks provides testify mocks for the repository and cache
// interfaces, shared by service-level tests.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mgriffin/studypath/internal/models"
)

// StudentRepository is a mock of repository.StudentRepository.
type StudentRepository struct {
	mock.Mock
}

func (m *StudentRepository) Get(ctx context.Context, id int64) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Student), args.Error(1)
}

func (m *StudentRepository) Insert(ctx context.Context, student models.Student) (int64, error) {
	args := m.Called(ctx, student)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StudentRepository) RecentlyActive(ctx context.Context, since time.Time) ([]int64, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// TopicRepository is a mock of repository.TopicRepository.
type TopicRepository struct {
	mock.Mock
}

func (m *TopicRepository) Get(ctx context.Context, id int64) (*models.Topic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Topic), args.Error(1)
}

func (m *TopicRepository) List(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Topic), args.Error(1)
}

func (m *TopicRepository) Insert(ctx context.Context, topic models.Topic) (int64, error) {
	args := m.Called(ctx, topic)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TopicRepository) InsertSubject(ctx context.Context, subject models.Subject) (int64, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TopicRepository) Prerequisites(ctx context.Context, topicID int64) ([]models.Topic, error) {
	args := m.Called(ctx, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Topic), args.Error(1)
}

func (m *TopicRepository) Dependents(ctx context.Context, topicID int64) ([]models.Topic, error) {
	args := m.Called(ctx, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Topic), args.Error(1)
}

func (m *TopicRepository) SetPrerequisites(ctx context.Context, topicID int64, prerequisiteIDs []int64) error {
	args := m.Called(ctx, topicID, prerequisiteIDs)
	return args.Error(0)
}

// ProgressRepository is a mock of repository.ProgressRepository.
type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) Get(ctx context.Context, studentID, topicID int64) (*models.StudentProgress, error) {
	args := m.Called(ctx, studentID, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentProgress), args.Error(1)
}

func (m *ProgressRepository) ListByStudent(ctx context.Context, filter models.ProgressFilter) ([]models.StudentProgress, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudentProgress), args.Error(1)
}

func (m *ProgressRepository) Upsert(ctx context.Context, progress models.StudentProgress) (*models.StudentProgress, error) {
	args := m.Called(ctx, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentProgress), args.Error(1)
}

// ActivityRepository is a mock of repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Get(ctx context.Context, studentID int64, date string) (*models.DailyActivity, error) {
	args := m.Called(ctx, studentID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyActivity), args.Error(1)
}

func (m *ActivityRepository) Recent(ctx context.Context, studentID int64, limit int) ([]models.DailyActivity, error) {
	args := m.Called(ctx, studentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyActivity), args.Error(1)
}

func (m *ActivityRepository) Insert(ctx context.Context, activity models.DailyActivity) (int64, error) {
	args := m.Called(ctx, activity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ActivityRepository) Increment(ctx context.Context, studentID int64, date string, minutes, sessions, points int) error {
	args := m.Called(ctx, studentID, date, minutes, sessions, points)
	return args.Error(0)
}

// ReviewRepository is a mock of repository.ReviewRepository.
type ReviewRepository struct {
	mock.Mock
}

func (m *ReviewRepository) Get(ctx context.Context, studentID int64, conceptID string) (*models.ConceptReview, error) {
	args := m.Called(ctx, studentID, conceptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConceptReview), args.Error(1)
}

func (m *ReviewRepository) Upsert(ctx context.Context, review models.ConceptReview) (*models.ConceptReview, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConceptReview), args.Error(1)
}

func (m *ReviewRepository) Due(ctx context.Context, studentID, subjectID int64, now time.Time) ([]models.ConceptReview, error) {
	args := m.Called(ctx, studentID, subjectID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConceptReview), args.Error(1)
}

func (m *ReviewRepository) CountDue(ctx context.Context, studentID int64, now time.Time) (int, error) {
	args := m.Called(ctx, studentID, now)
	return args.Int(0), args.Error(1)
}

func (m *ReviewRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.ConceptReview, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConceptReview), args.Error(1)
}

// SessionRepository is a mock of repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Get(ctx context.Context, id string) (*models.LearningSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LearningSession), args.Error(1)
}

func (m *SessionRepository) Insert(ctx context.Context, session models.LearningSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionRepository) Complete(ctx context.Context, session models.LearningSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// RecommendationCache is a mock of cache.RecommendationCache.
type RecommendationCache struct {
	mock.Mock
}

func (m *RecommendationCache) Get(ctx context.Context, studentID, subjectID int64) (*models.RecommendationSet, error) {
	args := m.Called(ctx, studentID, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecommendationSet), args.Error(1)
}

func (m *RecommendationCache) Set(ctx context.Context, studentID, subjectID int64, set *models.RecommendationSet) error {
	args := m.Called(ctx, studentID, subjectID, set)
	return args.Error(0)
}

func (m *RecommendationCache) Delete(ctx context.Context, studentID int64) error {
	args := m.Called(ctx, studentID)
	return args.Error(0)
}

// SessionCache is a mock of cache.SessionCache.
type SessionCache struct {
	mock.Mock
}

func (m *SessionCache) Set(ctx context.Context, session *models.LearningSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionCache) Get(ctx context.Context, id string) (*models.LearningSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LearningSession), args.Error(1)
}

func (m *SessionCache) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
