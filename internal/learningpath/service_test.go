package learningpath_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mgriffin/studypath/internal/errors"
	"github.com/mgriffin/studypath/internal/learningpath"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/recommend"
	"github.com/mgriffin/studypath/internal/testutil/mocks"
)

func newService() (*learningpath.Service, *mocks.StudentRepository, *mocks.TopicRepository, *mocks.ProgressRepository) {
	students := new(mocks.StudentRepository)
	topics := new(mocks.TopicRepository)
	progress := new(mocks.ProgressRepository)
	engine := recommend.NewEngine(students, topics, progress)
	return learningpath.NewService(students, topics, progress, engine), students, topics, progress
}

func TestBuildPath_CategorizesTopics(t *testing.T) {
	svc, students, topics, progress := newService()

	students.On("Get", mock.Anything, int64(1)).Return(&models.Student{ID: 1}, nil)
	topics.On("List", mock.Anything, mock.Anything).Return([]models.Topic{
		{ID: 1, SubjectID: 1, Name: "Counting", OrderIndex: 1},
		{ID: 2, SubjectID: 1, Name: "Addition", OrderIndex: 2},
		{ID: 3, SubjectID: 1, Name: "Subtraction", OrderIndex: 3},
	}, nil)
	progress.On("ListByStudent", mock.Anything, mock.Anything).Return([]models.StudentProgress{
		{StudentID: 1, TopicID: 1, MasteryLevel: 92, LastPracticedAt: time.Now().Add(-48 * time.Hour)},
		{StudentID: 1, TopicID: 2, MasteryLevel: 55, SessionsCount: 1, LastPracticedAt: time.Now()},
	}, nil)
	topics.On("Get", mock.Anything, mock.Anything).Return(&models.Topic{ID: 2, SubjectID: 1, Name: "Addition", OrderIndex: 2}, nil)
	topics.On("Dependents", mock.Anything, mock.Anything).Return([]models.Topic{}, nil)
	topics.On("Prerequisites", mock.Anything, mock.Anything).Return([]models.Topic{}, nil)

	path, err := svc.BuildPath(context.Background(), 1, 1, learningpath.Options{})

	require.NoError(t, err)
	require.Len(t, path.Completed, 1)
	assert.Equal(t, int64(1), path.Completed[0].TopicID)
	require.Len(t, path.InProgress, 1)
	assert.Equal(t, int64(2), path.InProgress[0].TopicID)
	require.Len(t, path.NotStarted, 1)
	assert.Equal(t, int64(3), path.NotStarted[0].TopicID)
	require.NotNil(t, path.Current)
	assert.Equal(t, int64(2), path.Current.TopicID)
}

func TestBuildPath_CurrentBelowThresholdRecommendsStaying(t *testing.T) {
	svc, students, topics, progress := newService()

	students.On("Get", mock.Anything, int64(1)).Return(&models.Student{ID: 1}, nil)
	topics.On("List", mock.Anything, mock.Anything).Return([]models.Topic{
		{ID: 1, SubjectID: 1, Name: "Fractions", OrderIndex: 1},
		{ID: 2, SubjectID: 1, Name: "Decimals", OrderIndex: 2},
	}, nil)
	progress.On("ListByStudent", mock.Anything, mock.Anything).Return([]models.StudentProgress{
		{StudentID: 1, TopicID: 1, MasteryLevel: 45, SessionsCount: 1, LastPracticedAt: time.Now()},
	}, nil)
	topics.On("Get", mock.Anything, int64(1)).Return(&models.Topic{ID: 1, SubjectID: 1, Name: "Fractions", OrderIndex: 1}, nil)
	topics.On("Prerequisites", mock.Anything, mock.Anything).Return([]models.Topic{}, nil)

	path, err := svc.BuildPath(context.Background(), 1, 1, learningpath.Options{})

	require.NoError(t, err)
	require.Len(t, path.Next, 1)
	assert.Equal(t, int64(1), path.Next[0].TopicID)
	assert.Contains(t, path.Next[0].Reason, "Keep practicing")
}

func TestBuildPath_EnrichmentOnlyWhenRequested(t *testing.T) {
	svc, students, topics, progress := newService()

	students.On("Get", mock.Anything, int64(1)).Return(&models.Student{ID: 1}, nil)
	topics.On("List", mock.Anything, models.TopicFilter{SubjectID: 1}).Return([]models.Topic{
		{ID: 1, SubjectID: 1, Name: "Algebra I", GradeLevel: 8, OrderIndex: 1},
	}, nil)
	topics.On("List", mock.Anything, models.TopicFilter{SubjectID: 1, GradeLevel: 8}).Return([]models.Topic{}, nil)
	topics.On("List", mock.Anything, models.TopicFilter{SubjectID: 1, GradeLevel: 9}).Return([]models.Topic{
		{ID: 2, SubjectID: 1, Name: "Algebra II", GradeLevel: 9, OrderIndex: 1},
	}, nil)
	progress.On("ListByStudent", mock.Anything, mock.Anything).Return([]models.StudentProgress{
		{StudentID: 1, TopicID: 1, MasteryLevel: 95, LastPracticedAt: time.Now()},
	}, nil)
	topics.On("Get", mock.Anything, int64(1)).Return(&models.Topic{ID: 1, SubjectID: 1, Name: "Algebra I", GradeLevel: 8, OrderIndex: 1}, nil)
	topics.On("Dependents", mock.Anything, int64(1)).Return([]models.Topic{}, nil)
	topics.On("Prerequisites", mock.Anything, mock.Anything).Return([]models.Topic{}, nil)

	withEnrichment, err := svc.BuildPath(context.Background(), 1, 1, learningpath.Options{IncludeEnrichment: true})
	require.NoError(t, err)
	assert.NotEmpty(t, withEnrichment.Enrichment)

	without, err := svc.BuildPath(context.Background(), 1, 1, learningpath.Options{})
	require.NoError(t, err)
	assert.Empty(t, without.Enrichment)
}

func TestNextTopics_PrerequisiteGatesAdvancement(t *testing.T) {
	svc, _, topics, progress := newService()

	topics.On("List", mock.Anything, mock.Anything).Return([]models.Topic{
		{ID: 1, SubjectID: 1, Name: "Multiplication", OrderIndex: 1},
		{ID: 2, SubjectID: 1, Name: "Division", OrderIndex: 2},
		{ID: 3, SubjectID: 1, Name: "Word Problems", OrderIndex: 3},
	}, nil)
	progress.On("ListByStudent", mock.Anything, mock.Anything).Return([]models.StudentProgress{
		{StudentID: 1, TopicID: 1, MasteryLevel: 85, LastPracticedAt: time.Now()},
	}, nil)
	topics.On("Prerequisites", mock.Anything, int64(2)).Return([]models.Topic{{ID: 1}}, nil)
	// Word Problems needs Division, which the student has not touched.
	topics.On("Prerequisites", mock.Anything, int64(3)).Return([]models.Topic{{ID: 2}}, nil)

	recs, err := svc.NextTopics(context.Background(), 1, 1)

	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(2), recs[0].TopicID)
}

func TestNextTopics_WeakCurrentTopicStays(t *testing.T) {
	svc, _, topics, progress := newService()

	topics.On("List", mock.Anything, mock.Anything).Return([]models.Topic{
		{ID: 1, SubjectID: 1, Name: "Fractions", OrderIndex: 5},
		{ID: 2, SubjectID: 1, Name: "Decimals", OrderIndex: 6},
	}, nil)
	progress.On("ListByStudent", mock.Anything, mock.Anything).Return([]models.StudentProgress{
		{StudentID: 1, TopicID: 1, MasteryLevel: 30, SessionsCount: 1, LastPracticedAt: time.Now().Add(-time.Hour)},
	}, nil)
	topics.On("Get", mock.Anything, int64(1)).Return(&models.Topic{ID: 1, SubjectID: 1, Name: "Fractions", OrderIndex: 5}, nil)
	topics.On("Prerequisites", mock.Anything, mock.Anything).Return([]models.Topic{}, nil)

	recs, err := svc.NextTopics(context.Background(), 1, 1)

	// Current topic is weak, so the single recommendation is to stay.
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0].TopicID)
}

func TestAdjustPath_Struggling(t *testing.T) {
	svc, _, topics, _ := newService()

	topics.On("Get", mock.Anything, int64(7)).Return(&models.Topic{ID: 7, SubjectID: 1, Name: "Long Division"}, nil)
	topics.On("Prerequisites", mock.Anything, int64(7)).Return([]models.Topic{
		{ID: 6, SubjectID: 1, Name: "Multiplication"},
	}, nil)

	adj, err := svc.AdjustPath(context.Background(), 1, 7, models.RecentPerformance{Accuracy: 40, Attempts: 3})

	require.NoError(t, err)
	assert.Equal(t, models.PerformanceStruggling, adj.Classification)
	assert.False(t, adj.IncludeEnrichment)
	require.NotEmpty(t, adj.Recommendations)
	assert.Equal(t, int64(7), adj.Recommendations[0].TopicID)
	assert.Equal(t, int64(6), adj.Recommendations[1].TopicID)
}

func TestAdjustPath_TooManyAttemptsIsStruggling(t *testing.T) {
	svc, _, topics, _ := newService()

	topics.On("Get", mock.Anything, int64(7)).Return(&models.Topic{ID: 7, SubjectID: 1, Name: "Long Division"}, nil)
	topics.On("Prerequisites", mock.Anything, int64(7)).Return([]models.Topic{}, nil)

	adj, err := svc.AdjustPath(context.Background(), 1, 7, models.RecentPerformance{Accuracy: 85, Attempts: 6})

	require.NoError(t, err)
	assert.Equal(t, models.PerformanceStruggling, adj.Classification)
}

func TestAdjustPath_Strong(t *testing.T) {
	svc, _, topics, progress := newService()

	topics.On("Get", mock.Anything, int64(7)).Return(&models.Topic{ID: 7, SubjectID: 1, Name: "Long Division"}, nil)
	topics.On("List", mock.Anything, mock.Anything).Return([]models.Topic{}, nil)
	progress.On("ListByStudent", mock.Anything, mock.Anything).Return([]models.StudentProgress{}, nil)

	adj, err := svc.AdjustPath(context.Background(), 1, 7, models.RecentPerformance{Accuracy: 90, Attempts: 1})

	require.NoError(t, err)
	assert.Equal(t, models.PerformanceStrong, adj.Classification)
	assert.True(t, adj.IncludeEnrichment)
}

func TestAdjustPath_Average(t *testing.T) {
	svc, _, topics, _ := newService()

	topics.On("Get", mock.Anything, int64(7)).Return(&models.Topic{ID: 7, SubjectID: 1, Name: "Long Division"}, nil)

	adj, err := svc.AdjustPath(context.Background(), 1, 7, models.RecentPerformance{Accuracy: 70, Attempts: 3})

	require.NoError(t, err)
	assert.Equal(t, models.PerformanceAverage, adj.Classification)
	assert.Empty(t, adj.Recommendations)
}

func TestAdjustPath_UnknownTopic(t *testing.T) {
	svc, _, topics, _ := newService()

	topics.On("Get", mock.Anything, int64(404)).Return(nil, sql.ErrNoRows)

	_, err := svc.AdjustPath(context.Background(), 1, 404, models.RecentPerformance{Accuracy: 70})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
