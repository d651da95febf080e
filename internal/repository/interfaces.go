package repository

import (
	"context"
	"time"

	"github.com/mgriffin/studypath/internal/models"
)

// StudentRepository handles student data access
type StudentRepository interface {
	Get(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	Insert(ctx context.Context, student models.Student) (int64, error)
	RecentlyActive(ctx context.Context, since time.Time) ([]int64, error)
}

// TopicRepository handles curriculum topic data access
type TopicRepository interface {
	Get(ctx context.Context, id int64) (*models.Topic, error)
	List(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error)
	Insert(ctx context.Context, topic models.Topic) (int64, error)
	InsertSubject(ctx context.Context, subject models.Subject) (int64, error)
	Prerequisites(ctx context.Context, topicID int64) ([]models.Topic, error)
	Dependents(ctx context.Context, topicID int64) ([]models.Topic, error)
	SetPrerequisites(ctx context.Context, topicID int64, prerequisiteIDs []int64) error
}

// ProgressRepository handles per-student per-topic mastery records
type ProgressRepository interface {
	Get(ctx context.Context, studentID, topicID int64) (*models.StudentProgress, error)
	ListByStudent(ctx context.Context, filter models.ProgressFilter) ([]models.StudentProgress, error)
	Upsert(ctx context.Context, progress models.StudentProgress) (*models.StudentProgress, error)
}

// ActivityRepository handles per-student per-day activity records
type ActivityRepository interface {
	Get(ctx context.Context, studentID int64, date string) (*models.DailyActivity, error)
	Recent(ctx context.Context, studentID int64, limit int) ([]models.DailyActivity, error)
	Insert(ctx context.Context, activity models.DailyActivity) (int64, error)
	Increment(ctx context.Context, studentID int64, date string, minutes, sessions, points int) error
}

// ReviewRepository handles spaced-repetition scheduling state
type ReviewRepository interface {
	Get(ctx context.Context, studentID int64, conceptID string) (*models.ConceptReview, error)
	Upsert(ctx context.Context, review models.ConceptReview) (*models.ConceptReview, error)
	Due(ctx context.Context, studentID, subjectID int64, now time.Time) ([]models.ConceptReview, error)
	CountDue(ctx context.Context, studentID int64, now time.Time) (int, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.ConceptReview, error)
}

// SessionRepository handles learning session lifecycle records
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.LearningSession, error)
	Insert(ctx context.Context, session models.LearningSession) error
	Complete(ctx context.Context, session models.LearningSession) error
}
