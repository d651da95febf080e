package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/repository"
	"github.com/mgriffin/studypath/internal/repository/sqlite"
	"github.com/mgriffin/studypath/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProgressRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProgressRepository(s.db)
}

func (s *ProgressRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

// setupStudentAndTopics seeds a student plus two topics in different
// subjects and returns (studentID, mathTopicID, readingTopicID).
func (s *ProgressRepositorySuite) setupStudentAndTopics() (int64, int64, int64) {
	ctx := context.Background()

	res, err := s.db.ExecContext(ctx, `INSERT INTO students (name, grade_level) VALUES (?, ?)`, "Ada", 4)
	s.Require().NoError(err)
	studentID, err := res.LastInsertId()
	s.Require().NoError(err)

	res, err = s.db.ExecContext(ctx, `INSERT INTO subjects (name) VALUES (?)`, "Math")
	s.Require().NoError(err)
	mathID, err := res.LastInsertId()
	s.Require().NoError(err)

	res, err = s.db.ExecContext(ctx, `INSERT INTO subjects (name) VALUES (?)`, "Reading")
	s.Require().NoError(err)
	readingID, err := res.LastInsertId()
	s.Require().NoError(err)

	res, err = s.db.ExecContext(ctx, `INSERT INTO topics (subject_id, name, grade_level, order_index) VALUES (?, ?, ?, ?)`,
		mathID, "Fractions", 4, 1)
	s.Require().NoError(err)
	mathTopicID, err := res.LastInsertId()
	s.Require().NoError(err)

	res, err = s.db.ExecContext(ctx, `INSERT INTO topics (subject_id, name, grade_level, order_index) VALUES (?, ?, ?, ?)`,
		readingID, "Comprehension", 4, 1)
	s.Require().NoError(err)
	readingTopicID, err := res.LastInsertId()
	s.Require().NoError(err)

	return studentID, mathTopicID, readingTopicID
}

func (s *ProgressRepositorySuite) TestGetMissingReturnsNil() {
	record, err := s.repo.Get(context.Background(), 1, 1)
	s.Require().NoError(err)
	s.Assert().Nil(record)
}

func (s *ProgressRepositorySuite) TestUpsertInsertsThenUpdates() {
	ctx := context.Background()
	studentID, topicID, _ := s.setupStudentAndTopics()

	inserted, err := s.repo.Upsert(ctx, models.StudentProgress{
		StudentID:        studentID,
		TopicID:          topicID,
		MasteryLevel:     27,
		Strengths:        []string{"fractions"},
		Weaknesses:       []string{"word-problems"},
		TotalTimeMinutes: 20,
		SessionsCount:    1,
		LastPracticedAt:  time.Now(),
	})
	s.Require().NoError(err)
	s.Assert().Greater(inserted.ID, int64(0))
	s.Assert().Equal([]string{"fractions"}, inserted.Strengths)

	updated, err := s.repo.Upsert(ctx, models.StudentProgress{
		StudentID:        studentID,
		TopicID:          topicID,
		MasteryLevel:     45.9,
		Strengths:        []string{"fractions", "decimals"},
		TotalTimeMinutes: 35,
		SessionsCount:    2,
		LastPracticedAt:  time.Now(),
	})
	s.Require().NoError(err)
	s.Assert().Equal(inserted.ID, updated.ID)
	s.Assert().InDelta(45.9, updated.MasteryLevel, 0.001)
	s.Assert().Equal(2, updated.SessionsCount)
	s.Assert().Empty(updated.Weaknesses)

	got, err := s.repo.Get(ctx, studentID, topicID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal([]string{"fractions", "decimals"}, got.Strengths)
}

func (s *ProgressRepositorySuite) TestListByStudentFiltersBySubject() {
	ctx := context.Background()
	studentID, mathTopicID, readingTopicID := s.setupStudentAndTopics()

	_, err := s.repo.Upsert(ctx, models.StudentProgress{
		StudentID: studentID, TopicID: mathTopicID, MasteryLevel: 50, LastPracticedAt: time.Now(),
	})
	s.Require().NoError(err)
	_, err = s.repo.Upsert(ctx, models.StudentProgress{
		StudentID: studentID, TopicID: readingTopicID, MasteryLevel: 70, LastPracticedAt: time.Now(),
	})
	s.Require().NoError(err)

	all, err := s.repo.ListByStudent(ctx, models.ProgressFilter{StudentID: studentID})
	s.Require().NoError(err)
	s.Assert().Len(all, 2)

	var mathSubjectID int64
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT subject_id FROM topics WHERE id = ?`, mathTopicID).Scan(&mathSubjectID))

	mathOnly, err := s.repo.ListByStudent(ctx, models.ProgressFilter{StudentID: studentID, SubjectID: mathSubjectID})
	s.Require().NoError(err)
	s.Require().Len(mathOnly, 1)
	s.Assert().Equal(mathTopicID, mathOnly[0].TopicID)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
