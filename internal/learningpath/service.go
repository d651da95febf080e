// Package learningpath builds the adaptive path view for a student in a
// subject: what is done, what is in flight, what comes next, and how to
// react to live performance swings.
package learningpath

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	apperrors "github.com/mgriffin/studypath/internal/errors"
	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/recommend"
	"github.com/mgriffin/studypath/internal/repository"
)

const (
	completedThreshold = 80.0
	weakThreshold      = 50.0
	advanceThreshold   = 70.0

	// Bonuses for the next-topic priority heuristic.
	newTopicBonus = 50.0
	weakBonus     = 30.0
	baseBonus     = 20.0

	continuePriority = 95.0
)

// Options controls optional path sections.
type Options struct {
	IncludeEnrichment bool
	Limit             int
}

// Service orchestrates the recommendation engine and progress state
// into a learning path.
type Service struct {
	students repository.StudentRepository
	topics   repository.TopicRepository
	progress repository.ProgressRepository
	engine   *recommend.Engine
}

// NewService creates a learning path service.
func NewService(students repository.StudentRepository, topics repository.TopicRepository, progress repository.ProgressRepository, engine *recommend.Engine) *Service {
	return &Service{students: students, topics: topics, progress: progress, engine: engine}
}

// BuildPath assembles the full path view for a student within a subject.
func (s *Service) BuildPath(ctx context.Context, studentID, subjectID int64, opts Options) (*models.LearningPath, error) {
	log := logger.FromContext(ctx).WithPrefix("learningpath").WithField("student_id", studentID)

	if _, err := s.students.Get(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("student", studentID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	topics, err := s.topics.List(ctx, models.TopicFilter{SubjectID: subjectID})
	if err != nil {
		log.Error("failed to list topics: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	records, err := s.progress.ListByStudent(ctx, models.ProgressFilter{StudentID: studentID, SubjectID: subjectID})
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	byTopic := progressIndex(records)

	path := &models.LearningPath{}
	var current *models.PathTopic
	var currentRecord *models.StudentProgress

	for _, topic := range topics {
		pt := models.PathTopic{
			TopicID:    topic.ID,
			TopicName:  topic.Name,
			OrderIndex: topic.OrderIndex,
			GradeLevel: topic.GradeLevel,
		}
		record, started := byTopic[topic.ID]
		if started {
			pt.Mastery = record.MasteryLevel
		}

		switch {
		case started && record.MasteryLevel >= completedThreshold:
			path.Completed = append(path.Completed, pt)
		case started && record.MasteryLevel > 0:
			path.InProgress = append(path.InProgress, pt)
			if currentRecord == nil || record.LastPracticedAt.After(currentRecord.LastPracticedAt) {
				c := pt
				current = &c
				r := record
				currentRecord = &r
			}
		default:
			path.NotStarted = append(path.NotStarted, pt)
		}
	}
	path.Current = current

	next, err := s.nextFrom(ctx, topics, byTopic, current)
	if err != nil {
		log.Warn("next-topic ranking failed, degrading to empty: %v", err)
		next = nil
	}
	path.Next = next

	engineOpts := recommend.DefaultOptions()
	engineOpts.SubjectID = subjectID
	if opts.Limit > 0 {
		engineOpts.Limit = opts.Limit
	}
	set, err := s.engine.Recommendations(ctx, studentID, engineOpts)
	if err != nil {
		log.Warn("recommendations unavailable for path: %v", err)
		set = &models.RecommendationSet{}
	}
	path.Recommendations = set.Recommendations

	for _, rec := range set.Recommendations {
		switch {
		case hasType(rec, models.RecTypeStrengthen):
			path.Remediation = append(path.Remediation, rec)
		case hasType(rec, models.RecTypePrerequisite):
			path.Prerequisites = append(path.Prerequisites, rec)
		case hasType(rec, models.RecTypeAdvanced):
			if opts.IncludeEnrichment {
				path.Enrichment = append(path.Enrichment, rec)
			}
		}
	}

	return path, nil
}

// NextTopics ranks what the student should work on next. When the
// current topic is below the advance threshold it recommends staying on
// it rather than moving forward.
func (s *Service) NextTopics(ctx context.Context, studentID, subjectID int64) ([]models.Recommendation, error) {
	topics, err := s.topics.List(ctx, models.TopicFilter{SubjectID: subjectID})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	records, err := s.progress.ListByStudent(ctx, models.ProgressFilter{StudentID: studentID, SubjectID: subjectID})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	byTopic := progressIndex(records)

	var current *models.PathTopic
	var latest *models.StudentProgress
	for _, topic := range topics {
		record, ok := byTopic[topic.ID]
		if !ok || record.MasteryLevel <= 0 || record.MasteryLevel >= completedThreshold {
			continue
		}
		if latest == nil || record.LastPracticedAt.After(latest.LastPracticedAt) {
			pt := models.PathTopic{TopicID: topic.ID, TopicName: topic.Name, Mastery: record.MasteryLevel, OrderIndex: topic.OrderIndex, GradeLevel: topic.GradeLevel}
			current = &pt
			r := record
			latest = &r
		}
	}

	return s.nextFrom(ctx, topics, byTopic, current)
}

func (s *Service) nextFrom(ctx context.Context, topics []models.Topic, byTopic map[int64]models.StudentProgress, current *models.PathTopic) ([]models.Recommendation, error) {
	if current != nil && current.Mastery < advanceThreshold {
		topic, err := s.topics.Get(ctx, current.TopicID)
		if err != nil {
			return nil, err
		}
		return []models.Recommendation{{
			TopicID:   current.TopicID,
			TopicName: current.TopicName,
			SubjectID: topic.SubjectID,
			Reason:    "Keep practicing before moving on",
			Priority:  continuePriority,
			Type:      models.RecTypeLearningPath,
		}}, nil
	}

	minOrder := -1
	maxGrade := 0
	if current != nil {
		minOrder = current.OrderIndex
		maxGrade = current.GradeLevel + 1
	}

	var recs []models.Recommendation
	for _, topic := range topics {
		if topic.OrderIndex <= minOrder {
			continue
		}
		if maxGrade > 0 && topic.GradeLevel > maxGrade {
			continue
		}
		record, started := byTopic[topic.ID]
		if started && record.MasteryLevel >= completedThreshold {
			continue
		}

		satisfied, err := s.prerequisitesSatisfied(ctx, topic.ID, byTopic)
		if err != nil {
			return nil, err
		}
		if !satisfied {
			continue
		}

		bonus := baseBonus
		switch {
		case !started:
			bonus += newTopicBonus
		case record.MasteryLevel < weakThreshold:
			bonus += weakBonus
		}
		recs = append(recs, models.Recommendation{
			TopicID:   topic.ID,
			TopicName: topic.Name,
			SubjectID: topic.SubjectID,
			Reason:    "Next step in your path",
			Priority:  float64(100-topic.OrderIndex)*0.1 + bonus,
			Type:      models.RecTypeLearningPath,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return recs, nil
}

func (s *Service) prerequisitesSatisfied(ctx context.Context, topicID int64, byTopic map[int64]models.StudentProgress) (bool, error) {
	prereqs, err := s.topics.Prerequisites(ctx, topicID)
	if err != nil {
		return false, err
	}
	for _, prereq := range prereqs {
		record, ok := byTopic[prereq.ID]
		if !ok || record.MasteryLevel < advanceThreshold {
			return false, nil
		}
	}
	return true, nil
}

// AdjustPath classifies recent performance on a topic and steers the
// path in response: struggling prepends remediation, strong prepends an
// advance recommendation and opens up enrichment.
func (s *Service) AdjustPath(ctx context.Context, studentID, topicID int64, perf models.RecentPerformance) (*models.PathAdjustment, error) {
	log := logger.FromContext(ctx).WithPrefix("learningpath").WithField("student_id", studentID)

	topic, err := s.topics.Get(ctx, topicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("topic", topicID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	adjustment := &models.PathAdjustment{Classification: classify(perf)}
	log.Debug("classified performance on topic %d as %s (accuracy=%.1f, attempts=%d)",
		topicID, adjustment.Classification, perf.Accuracy, perf.Attempts)

	switch adjustment.Classification {
	case models.PerformanceStruggling:
		adjustment.Recommendations = append(adjustment.Recommendations, models.Recommendation{
			TopicID:   topic.ID,
			TopicName: topic.Name,
			SubjectID: topic.SubjectID,
			Reason:    "Recent attempts suggest revisiting the basics here",
			Priority:  continuePriority,
			Type:      models.RecTypeStrengthen,
		})
		prereqs, err := s.topics.Prerequisites(ctx, topicID)
		if err != nil {
			log.Warn("prerequisite lookup failed during adjustment: %v", err)
		} else {
			for _, prereq := range prereqs {
				adjustment.Recommendations = append(adjustment.Recommendations, models.Recommendation{
					TopicID:   prereq.ID,
					TopicName: prereq.Name,
					SubjectID: prereq.SubjectID,
					Reason:    "Revisit before returning to " + topic.Name,
					Priority:  90,
					Type:      models.RecTypePrerequisite,
				})
			}
		}
	case models.PerformanceStrong:
		adjustment.IncludeEnrichment = true
		next, err := s.NextTopics(ctx, studentID, topic.SubjectID)
		if err != nil {
			log.Warn("next-topic lookup failed during adjustment: %v", err)
		} else {
			adjustment.Recommendations = append(adjustment.Recommendations, next...)
		}
	}

	return adjustment, nil
}

func classify(perf models.RecentPerformance) string {
	switch {
	case perf.Accuracy < 60 || perf.Attempts > 5:
		return models.PerformanceStruggling
	case perf.Accuracy >= 80 && perf.Attempts <= 2:
		return models.PerformanceStrong
	default:
		return models.PerformanceAverage
	}
}

func hasType(rec models.Recommendation, typ string) bool {
	for _, t := range strings.Split(rec.Type, ", ") {
		if t == typ {
			return true
		}
	}
	return false
}

func progressIndex(records []models.StudentProgress) map[int64]models.StudentProgress {
	index := make(map[int64]models.StudentProgress, len(records))
	for _, record := range records {
		index[record.TopicID] = record
	}
	return index
}
