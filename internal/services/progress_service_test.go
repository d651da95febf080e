package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mgriffin/studypath/internal/errors"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/services"
	"github.com/mgriffin/studypath/internal/streak"
	"github.com/mgriffin/studypath/internal/testutil/mocks"
)

type fakeInvalidator struct {
	invalidated []int64
}

func (f *fakeInvalidator) Invalidate(_ context.Context, studentID int64) {
	f.invalidated = append(f.invalidated, studentID)
}

type progressFixture struct {
	svc         *services.ProgressService
	students    *mocks.StudentRepository
	topics      *mocks.TopicRepository
	progress    *mocks.ProgressRepository
	activity    *mocks.ActivityRepository
	reviews     *mocks.ReviewRepository
	sessions    *mocks.SessionRepository
	invalidator *fakeInvalidator
}

func newProgressFixture() *progressFixture {
	f := &progressFixture{
		students:    new(mocks.StudentRepository),
		topics:      new(mocks.TopicRepository),
		progress:    new(mocks.ProgressRepository),
		activity:    new(mocks.ActivityRepository),
		reviews:     new(mocks.ReviewRepository),
		sessions:    new(mocks.SessionRepository),
		invalidator: &fakeInvalidator{},
	}
	f.svc = services.NewProgressService(f.students, f.topics, f.progress, f.activity, f.reviews, f.sessions, f.invalidator)
	return f
}

func TestStartSession(t *testing.T) {
	f := newProgressFixture()

	f.students.On("Get", mock.Anything, int64(1)).Return(&models.Student{ID: 1}, nil)
	f.topics.On("Get", mock.Anything, int64(2)).Return(&models.Topic{ID: 2}, nil)
	f.sessions.On("Insert", mock.Anything, mock.MatchedBy(func(s models.LearningSession) bool {
		return s.ID != "" && s.StudentID == 1 && s.TopicID == 2
	})).Return(nil)

	session, err := f.svc.StartSession(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, int64(1), session.StudentID)
	f.sessions.AssertExpectations(t)
}

func TestStartSession_UnknownTopic(t *testing.T) {
	f := newProgressFixture()

	f.students.On("Get", mock.Anything, int64(1)).Return(&models.Student{ID: 1}, nil)
	f.topics.On("Get", mock.Anything, int64(99)).Return(nil, sql.ErrNoRows)

	_, err := f.svc.StartSession(context.Background(), 1, 99)

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTrackSessionProgress_FirstSession(t *testing.T) {
	f := newProgressFixture()

	f.sessions.On("Get", mock.Anything, "sess-1").Return(&models.LearningSession{
		ID: "sess-1", StudentID: 1, TopicID: 2, StartedAt: time.Now().Add(-20 * time.Minute),
	}, nil)
	f.progress.On("Get", mock.Anything, int64(1), int64(2)).Return(nil, nil)
	f.progress.On("Upsert", mock.Anything, mock.MatchedBy(func(p models.StudentProgress) bool {
		// 10 problems at 90% accuracy from zero prior: 0*0.7 + 90*0.3.
		return p.MasteryLevel == 27 &&
			len(p.Strengths) == 1 && p.Strengths[0] == "fractions" &&
			p.SessionsCount == 1 && p.TotalTimeMinutes == 20
	})).Return(&models.StudentProgress{StudentID: 1, TopicID: 2, MasteryLevel: 27}, nil)
	f.activity.On("Get", mock.Anything, int64(1), streak.DateOf(time.Now())).Return(nil, nil)
	f.activity.On("Recent", mock.Anything, int64(1), 30).Return([]models.DailyActivity{}, nil)
	f.activity.On("Insert", mock.Anything, mock.MatchedBy(func(a models.DailyActivity) bool {
		return a.StreakDay == 1 && a.SessionsCount == 1 && a.MinutesLearned == 20
	})).Return(int64(1), nil)
	f.topics.On("Get", mock.Anything, int64(2)).Return(&models.Topic{ID: 2, SubjectID: 5}, nil)
	f.reviews.On("Get", mock.Anything, int64(1), "fractions").Return(nil, nil)
	f.reviews.On("Upsert", mock.Anything, mock.MatchedBy(func(r models.ConceptReview) bool {
		return r.ConceptID == "fractions" && r.SubjectID == 5 && r.Repetitions == 1 && r.IntervalDays == 1
	})).Return(&models.ConceptReview{}, nil)
	f.sessions.On("Complete", mock.Anything, mock.MatchedBy(func(s models.LearningSession) bool {
		return s.EndedAt != nil && s.Accuracy == 90 && s.ProblemsAttempted == 10
	})).Return(nil)

	stats := models.SessionStats{
		DurationMinutes:   20,
		ProblemsAttempted: 10,
		ProblemsCorrect:   9,
		PointsEarned:      50,
		Concepts:          []string{"fractions"},
	}
	updated, err := f.svc.TrackSessionProgress(context.Background(), "sess-1", stats)

	require.NoError(t, err)
	assert.InDelta(t, 27.0, updated.MasteryLevel, 0.001)
	assert.Equal(t, []int64{1}, f.invalidator.invalidated)
	f.progress.AssertExpectations(t)
	f.activity.AssertExpectations(t)
	f.reviews.AssertExpectations(t)
	f.sessions.AssertExpectations(t)
}

func TestTrackSessionProgress_SecondSessionSameDay(t *testing.T) {
	f := newProgressFixture()

	f.sessions.On("Get", mock.Anything, "sess-2").Return(&models.LearningSession{
		ID: "sess-2", StudentID: 1, TopicID: 2,
	}, nil)
	f.progress.On("Get", mock.Anything, int64(1), int64(2)).Return(&models.StudentProgress{
		StudentID: 1, TopicID: 2, MasteryLevel: 50, SessionsCount: 3, TotalTimeMinutes: 60,
	}, nil)
	f.progress.On("Upsert", mock.Anything, mock.MatchedBy(func(p models.StudentProgress) bool {
		// 50*0.7 + 80*0.3 = 59, counters keep growing.
		return p.MasteryLevel == 59 && p.SessionsCount == 4 && p.TotalTimeMinutes == 75
	})).Return(&models.StudentProgress{MasteryLevel: 59}, nil)
	f.activity.On("Get", mock.Anything, int64(1), mock.Anything).Return(&models.DailyActivity{
		StudentID: 1, StreakDay: 4,
	}, nil)
	f.activity.On("Increment", mock.Anything, int64(1), mock.Anything, 15, 1, 30).Return(nil)
	f.topics.On("Get", mock.Anything, int64(2)).Return(&models.Topic{ID: 2, SubjectID: 5}, nil)
	f.sessions.On("Complete", mock.Anything, mock.Anything).Return(nil)

	stats := models.SessionStats{
		DurationMinutes:   15,
		ProblemsAttempted: 5,
		ProblemsCorrect:   4,
		PointsEarned:      30,
	}
	_, err := f.svc.TrackSessionProgress(context.Background(), "sess-2", stats)

	require.NoError(t, err)
	f.activity.AssertExpectations(t)
	f.activity.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestTrackSessionProgress_UnknownSession(t *testing.T) {
	f := newProgressFixture()

	f.sessions.On("Get", mock.Anything, "missing").Return(nil, nil)

	_, err := f.svc.TrackSessionProgress(context.Background(), "missing", models.SessionStats{})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTrackSessionProgress_AlreadyCompleted(t *testing.T) {
	f := newProgressFixture()

	ended := time.Now()
	f.sessions.On("Get", mock.Anything, "done").Return(&models.LearningSession{
		ID: "done", StudentID: 1, TopicID: 2, EndedAt: &ended,
	}, nil)

	_, err := f.svc.TrackSessionProgress(context.Background(), "done", models.SessionStats{})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestTrackSessionProgress_CorrectExceedsAttempted(t *testing.T) {
	f := newProgressFixture()

	f.sessions.On("Get", mock.Anything, "sess-3").Return(&models.LearningSession{
		ID: "sess-3", StudentID: 1, TopicID: 2,
	}, nil)

	_, err := f.svc.TrackSessionProgress(context.Background(), "sess-3", models.SessionStats{
		ProblemsAttempted: 3,
		ProblemsCorrect:   5,
	})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestTrackSessionProgress_ServesSessionFromCache(t *testing.T) {
	f := newProgressFixture()
	sessionCache := new(mocks.SessionCache)
	f.svc.SetSessionCache(sessionCache)

	sessionCache.On("Get", mock.Anything, "sess-4").Return(&models.LearningSession{
		ID: "sess-4", StudentID: 1, TopicID: 2,
	}, nil)
	sessionCache.On("Delete", mock.Anything, "sess-4").Return(nil)
	f.progress.On("Get", mock.Anything, int64(1), int64(2)).Return(nil, nil)
	f.progress.On("Upsert", mock.Anything, mock.Anything).Return(&models.StudentProgress{}, nil)
	f.activity.On("Get", mock.Anything, int64(1), mock.Anything).Return(&models.DailyActivity{StreakDay: 2}, nil)
	f.activity.On("Increment", mock.Anything, int64(1), mock.Anything, 10, 1, 0).Return(nil)
	f.topics.On("Get", mock.Anything, int64(2)).Return(&models.Topic{ID: 2, SubjectID: 5}, nil)
	f.sessions.On("Complete", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.TrackSessionProgress(context.Background(), "sess-4", models.SessionStats{
		DurationMinutes:   10,
		ProblemsAttempted: 4,
		ProblemsCorrect:   3,
	})

	require.NoError(t, err)
	f.sessions.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	sessionCache.AssertExpectations(t)
}

func TestGetStreak(t *testing.T) {
	f := newProgressFixture()

	f.students.On("Get", mock.Anything, int64(1)).Return(&models.Student{ID: 1}, nil)
	f.activity.On("Recent", mock.Anything, int64(1), 30).Return([]models.DailyActivity{
		{StudentID: 1, ActivityDate: streak.DateOf(time.Now()), StreakDay: 7},
	}, nil)

	days, err := f.svc.GetStreak(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 7, days)
}
