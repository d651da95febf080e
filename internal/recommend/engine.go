package recommend

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"sort"
	"strings"

	apperrors "github.com/mgriffin/studypath/internal/errors"
	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/repository"
)

// Mastery thresholds shared by the strategies.
const (
	masteredThreshold   = 80.0
	weakThreshold       = 50.0
	enrichmentThreshold = 90.0
	strugglingSessions  = 2
	maxSiblings         = 3
)

// Strategy priorities. Strengthen priority is derived from mastery
// instead, so the weakest topics rank highest.
const (
	siblingPriority      = 70.0
	entryPointPriority   = 75.0
	prerequisitePriority = 90.0
	advancedPriority     = 60.0
)

// Options narrows and sizes a recommendation request.
type Options struct {
	SubjectID            int64 // 0 means all subjects
	Limit                int   // defaults to 5
	IncludePrerequisites bool
}

// DefaultOptions returns the options used when a caller passes none.
func DefaultOptions() Options {
	return Options{Limit: 5, IncludePrerequisites: true}
}

// Engine composes persisted mastery state into ranked topic
// recommendations. Each strategy runs independently and a failing
// strategy degrades to an empty list instead of failing the call.
type Engine struct {
	students repository.StudentRepository
	topics   repository.TopicRepository
	progress repository.ProgressRepository
}

// NewEngine creates a recommendation engine over the given repositories.
func NewEngine(students repository.StudentRepository, topics repository.TopicRepository, progress repository.ProgressRepository) *Engine {
	return &Engine{students: students, topics: topics, progress: progress}
}

// Recommendations builds the merged, ranked recommendation set for a
// student. Unknown students fail with NOT_FOUND.
func (e *Engine) Recommendations(ctx context.Context, studentID int64, opts Options) (*models.RecommendationSet, error) {
	log := logger.FromContext(ctx).WithPrefix("recommend").WithField("student_id", studentID)

	if opts.Limit <= 0 {
		opts.Limit = 5
	}

	if _, err := e.students.Get(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("student", studentID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	records, err := e.progress.ListByStudent(ctx, models.ProgressFilter{
		StudentID: studentID,
		SubjectID: opts.SubjectID,
	})
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	strategies := map[string]int{}
	var candidates []models.Recommendation

	add := func(name string, recs []models.Recommendation, err error) {
		if err != nil {
			// Degrade: one broken strategy must not sink the rest.
			log.Warn("strategy %s failed, degrading to empty: %v", name, err)
			strategies[name] = 0
			return
		}
		strategies[name] = len(recs)
		candidates = append(candidates, recs...)
	}

	if len(records) == 0 {
		recs, err := e.entryPoints(ctx, opts)
		add(models.RecTypeLearningPath, recs, err)
	} else {
		recs, err := e.learningPath(ctx, records, opts)
		add(models.RecTypeLearningPath, recs, err)
	}

	recs, err := e.strengthen(ctx, records)
	add(models.RecTypeStrengthen, recs, err)

	if opts.IncludePrerequisites {
		recs, err := e.prerequisiteGaps(ctx, records)
		add(models.RecTypePrerequisite, recs, err)
	}

	recs, err = e.advanced(ctx, records, opts)
	add(models.RecTypeAdvanced, recs, err)

	merged := DeduplicateAndRank(candidates, opts.Limit)
	log.Debug("produced %d recommendations from %d candidates", len(merged), len(candidates))

	return &models.RecommendationSet{
		Recommendations: merged,
		Total:           len(merged),
		Strategies:      strategies,
	}, nil
}

// entryPoints recommends topics with no prerequisites for students with
// no progress at all, so a brand-new student is never left without a
// starting point.
func (e *Engine) entryPoints(ctx context.Context, opts Options) ([]models.Recommendation, error) {
	topics, err := e.topics.List(ctx, models.TopicFilter{SubjectID: opts.SubjectID})
	if err != nil {
		return nil, err
	}

	var recs []models.Recommendation
	for _, topic := range topics {
		prereqs, err := e.topics.Prerequisites(ctx, topic.ID)
		if err != nil {
			return nil, err
		}
		if len(prereqs) > 0 {
			continue
		}
		recs = append(recs, models.Recommendation{
			TopicID:   topic.ID,
			TopicName: topic.Name,
			SubjectID: topic.SubjectID,
			Reason:    "Good starting point for this subject",
			Priority:  entryPointPriority,
			Type:      models.RecTypeLearningPath,
		})
	}
	return recs, nil
}

// learningPath recommends the unlocked children of mastered topics plus
// a few weak siblings at the same grade level.
func (e *Engine) learningPath(ctx context.Context, records []models.StudentProgress, opts Options) ([]models.Recommendation, error) {
	masteryByTopic := masteryIndex(records)

	var recs []models.Recommendation
	for _, record := range records {
		if record.MasteryLevel < masteredThreshold {
			continue
		}
		parent, err := e.topics.Get(ctx, record.TopicID)
		if err != nil {
			return nil, err
		}

		children, err := e.topics.Dependents(ctx, record.TopicID)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if masteryByTopic[child.ID] >= masteredThreshold {
				continue
			}
			recs = append(recs, models.Recommendation{
				TopicID:   child.ID,
				TopicName: child.Name,
				SubjectID: child.SubjectID,
				Reason:    "Unlocked by mastering " + parent.Name,
				Priority:  record.MasteryLevel,
				Type:      models.RecTypeLearningPath,
			})
		}

		siblings, err := e.topics.List(ctx, models.TopicFilter{
			SubjectID:  parent.SubjectID,
			GradeLevel: parent.GradeLevel,
		})
		if err != nil {
			return nil, err
		}
		added := 0
		for _, sibling := range siblings {
			if added >= maxSiblings {
				break
			}
			if sibling.ID == parent.ID || masteryByTopic[sibling.ID] >= weakThreshold {
				continue
			}
			recs = append(recs, models.Recommendation{
				TopicID:   sibling.ID,
				TopicName: sibling.Name,
				SubjectID: sibling.SubjectID,
				Reason:    "Related to " + parent.Name + " at the same level",
				Priority:  siblingPriority,
				Type:      models.RecTypeLearningPath,
			})
			added++
		}
	}
	return recs, nil
}

// strengthen recommends partially learned topics, weakest first.
func (e *Engine) strengthen(ctx context.Context, records []models.StudentProgress) ([]models.Recommendation, error) {
	var weak []models.StudentProgress
	for _, record := range records {
		if record.MasteryLevel > 0 && record.MasteryLevel < masteredThreshold {
			weak = append(weak, record)
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		return weak[i].MasteryLevel < weak[j].MasteryLevel
	})

	var recs []models.Recommendation
	for _, record := range weak {
		topic, err := e.topics.Get(ctx, record.TopicID)
		if err != nil {
			return nil, err
		}
		recs = append(recs, models.Recommendation{
			TopicID:   topic.ID,
			TopicName: topic.Name,
			SubjectID: topic.SubjectID,
			Reason:    "More practice will lift your mastery here",
			Priority:  100 - record.MasteryLevel,
			Type:      models.RecTypeStrengthen,
		})
	}
	return recs, nil
}

// prerequisiteGaps surfaces unmastered prerequisites of topics the
// student is struggling with.
func (e *Engine) prerequisiteGaps(ctx context.Context, records []models.StudentProgress) ([]models.Recommendation, error) {
	masteryByTopic := masteryIndex(records)

	var recs []models.Recommendation
	for _, record := range records {
		if record.MasteryLevel >= weakThreshold || record.SessionsCount < strugglingSessions {
			continue
		}
		topic, err := e.topics.Get(ctx, record.TopicID)
		if err != nil {
			return nil, err
		}
		prereqs, err := e.topics.Prerequisites(ctx, record.TopicID)
		if err != nil {
			return nil, err
		}
		for _, prereq := range prereqs {
			if masteryByTopic[prereq.ID] >= masteredThreshold {
				continue
			}
			recs = append(recs, models.Recommendation{
				TopicID:   prereq.ID,
				TopicName: prereq.Name,
				SubjectID: prereq.SubjectID,
				Reason:    "Builds the foundation for " + topic.Name,
				Priority:  prerequisitePriority,
				Type:      models.RecTypePrerequisite,
			})
		}
	}
	return recs, nil
}

// advanced recommends next-grade topics once a topic is near-perfect.
func (e *Engine) advanced(ctx context.Context, records []models.StudentProgress, opts Options) ([]models.Recommendation, error) {
	masteryByTopic := masteryIndex(records)

	var recs []models.Recommendation
	for _, record := range records {
		if record.MasteryLevel < enrichmentThreshold {
			continue
		}
		topic, err := e.topics.Get(ctx, record.TopicID)
		if err != nil {
			return nil, err
		}
		nextGrade, err := e.topics.List(ctx, models.TopicFilter{
			SubjectID:  topic.SubjectID,
			GradeLevel: topic.GradeLevel + 1,
		})
		if err != nil {
			return nil, err
		}
		for _, candidate := range nextGrade {
			if masteryByTopic[candidate.ID] >= weakThreshold {
				continue
			}
			recs = append(recs, models.Recommendation{
				TopicID:   candidate.ID,
				TopicName: candidate.Name,
				SubjectID: candidate.SubjectID,
				Reason:    "Ready for a challenge beyond " + topic.Name,
				Priority:  advancedPriority,
				Type:      models.RecTypeAdvanced,
			})
		}
	}
	return recs, nil
}

// DeduplicateAndRank merges duplicate topic recommendations, sorts by
// priority descending, and truncates to limit. Duplicates keep the max
// priority, join reasons with "; " and types with ", ".
func DeduplicateAndRank(recs []models.Recommendation, limit int) []models.Recommendation {
	merged := make(map[int64]models.Recommendation, len(recs))
	order := make([]int64, 0, len(recs))

	for _, rec := range recs {
		existing, ok := merged[rec.TopicID]
		if !ok {
			merged[rec.TopicID] = rec
			order = append(order, rec.TopicID)
			continue
		}
		existing.Reason += "; " + rec.Reason
		if rec.Priority > existing.Priority {
			existing.Priority = rec.Priority
		}
		if !slices.Contains(strings.Split(existing.Type, ", "), rec.Type) {
			existing.Type += ", " + rec.Type
		}
		merged[rec.TopicID] = existing
	}

	result := make([]models.Recommendation, 0, len(order))
	for _, id := range order {
		result = append(result, merged[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority > result[j].Priority
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func masteryIndex(records []models.StudentProgress) map[int64]float64 {
	index := make(map[int64]float64, len(records))
	for _, record := range records {
		index[record.TopicID] = record.MasteryLevel
	}
	return index
}
