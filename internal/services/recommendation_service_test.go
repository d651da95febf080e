package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/recommend"
	"github.com/mgriffin/studypath/internal/services"
	"github.com/mgriffin/studypath/internal/testutil/mocks"
)

type fakeWarmQueue struct {
	queued []int64
	full   bool
}

func (f *fakeWarmQueue) Enqueue(studentID int64) bool {
	if f.full {
		return false
	}
	f.queued = append(f.queued, studentID)
	return true
}

type recFixture struct {
	svc      *services.RecommendationService
	students *mocks.StudentRepository
	topics   *mocks.TopicRepository
	progress *mocks.ProgressRepository
	cache    *mocks.RecommendationCache
	warm     *fakeWarmQueue
}

func newRecFixture() *recFixture {
	f := &recFixture{
		students: new(mocks.StudentRepository),
		topics:   new(mocks.TopicRepository),
		progress: new(mocks.ProgressRepository),
		cache:    new(mocks.RecommendationCache),
		warm:     &fakeWarmQueue{},
	}
	engine := recommend.NewEngine(f.students, f.topics, f.progress)
	f.svc = services.NewRecommendationService(engine, f.cache, f.warm)
	return f
}

func TestRecommendationGet_CacheHit(t *testing.T) {
	f := newRecFixture()

	cached := &models.RecommendationSet{Total: 2}
	f.cache.On("Get", mock.Anything, int64(1), int64(0)).Return(cached, nil)

	set, err := f.svc.Get(context.Background(), 1, recommend.DefaultOptions())

	require.NoError(t, err)
	assert.Same(t, cached, set)
	f.students.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestRecommendationGet_CacheMissComputesAndStores(t *testing.T) {
	f := newRecFixture()

	f.cache.On("Get", mock.Anything, int64(1), int64(0)).Return(nil, nil)
	f.students.On("Get", mock.Anything, int64(1)).Return(&models.Student{ID: 1}, nil)
	f.progress.On("ListByStudent", mock.Anything, mock.Anything).Return([]models.StudentProgress{
		{StudentID: 1, TopicID: 3, MasteryLevel: 40, SessionsCount: 1},
	}, nil)
	f.topics.On("Get", mock.Anything, int64(3)).Return(&models.Topic{ID: 3, SubjectID: 1, Name: "Fractions"}, nil)
	f.cache.On("Set", mock.Anything, int64(1), int64(0), mock.Anything).Return(nil)

	set, err := f.svc.Get(context.Background(), 1, recommend.DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, 1, set.Total)
	f.cache.AssertExpectations(t)
}

func TestRecommendationGet_CacheFailureDegradesToEngine(t *testing.T) {
	f := newRecFixture()

	f.cache.On("Get", mock.Anything, int64(1), int64(0)).Return(nil, errors.New("redis down"))
	f.students.On("Get", mock.Anything, int64(1)).Return(&models.Student{ID: 1}, nil)
	f.progress.On("ListByStudent", mock.Anything, mock.Anything).Return([]models.StudentProgress{
		{StudentID: 1, TopicID: 3, MasteryLevel: 40, SessionsCount: 1},
	}, nil)
	f.topics.On("Get", mock.Anything, int64(3)).Return(&models.Topic{ID: 3, SubjectID: 1, Name: "Fractions"}, nil)
	f.cache.On("Set", mock.Anything, int64(1), int64(0), mock.Anything).Return(errors.New("redis down"))

	set, err := f.svc.Get(context.Background(), 1, recommend.DefaultOptions())

	require.NoError(t, err)
	assert.Equal(t, 1, set.Total)
}

func TestRecommendationInvalidate(t *testing.T) {
	f := newRecFixture()

	f.cache.On("Delete", mock.Anything, int64(1)).Return(nil)

	f.svc.Invalidate(context.Background(), 1)

	f.cache.AssertExpectations(t)
	assert.Equal(t, []int64{1}, f.warm.queued)
}

func TestRecommendationInvalidate_FullQueueStillDeletes(t *testing.T) {
	f := newRecFixture()
	f.warm.full = true

	f.cache.On("Delete", mock.Anything, int64(1)).Return(nil)

	f.svc.Invalidate(context.Background(), 1)

	f.cache.AssertExpectations(t)
	assert.Empty(t, f.warm.queued)
}

func TestRecommendationRefresh(t *testing.T) {
	f := newRecFixture()

	f.students.On("Get", mock.Anything, int64(1)).Return(&models.Student{ID: 1}, nil)
	f.progress.On("ListByStudent", mock.Anything, mock.Anything).Return([]models.StudentProgress{}, nil)
	f.topics.On("List", mock.Anything, mock.Anything).Return([]models.Topic{}, nil)
	f.cache.On("Set", mock.Anything, int64(1), int64(0), mock.Anything).Return(nil)

	err := f.svc.Refresh(context.Background(), 1)

	require.NoError(t, err)
	f.cache.AssertExpectations(t)
}
