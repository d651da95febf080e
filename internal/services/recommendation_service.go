package services

import (
	"context"

	"github.com/mgriffin/studypath/internal/cache"
	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/recommend"
)

// WarmQueue accepts background recommendation warm requests. A full
// queue drops the request; the next read recomputes on demand.
type WarmQueue interface {
	Enqueue(studentID int64) bool
}

// RecommendationService fronts the recommendation engine with a
// read-through cache. Cache failures degrade to engine computation.
type RecommendationService struct {
	engine *recommend.Engine
	cache  cache.RecommendationCache
	warm   WarmQueue
}

// NewRecommendationService creates a RecommendationService. cache and
// warm may be nil, disabling caching and background warming.
func NewRecommendationService(engine *recommend.Engine, c cache.RecommendationCache, warm WarmQueue) *RecommendationService {
	return &RecommendationService{engine: engine, cache: c, warm: warm}
}

// SetWarmQueue attaches the warm queue after construction. The queue's
// jobs call back into this service, so it cannot exist first.
func (s *RecommendationService) SetWarmQueue(warm WarmQueue) {
	s.warm = warm
}

// Get returns recommendations for a student, serving from cache when
// possible.
func (s *RecommendationService) Get(ctx context.Context, studentID int64, opts recommend.Options) (*models.RecommendationSet, error) {
	log := logger.FromContext(ctx).WithPrefix("recommendation_service").WithField("student_id", studentID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, studentID, opts.SubjectID)
		if err != nil {
			log.Warn("cache read failed, computing: %v", err)
		} else if cached != nil {
			log.Debug("cache hit")
			return cached, nil
		}
	}

	set, err := s.engine.Recommendations(ctx, studentID, opts)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, studentID, opts.SubjectID, set); err != nil {
			log.Warn("cache write failed: %v", err)
		}
	}
	return set, nil
}

// Refresh recomputes and caches the default recommendation set for a
// student. Used by the warm worker and the nightly warm job.
func (s *RecommendationService) Refresh(ctx context.Context, studentID int64) error {
	set, err := s.engine.Recommendations(ctx, studentID, recommend.DefaultOptions())
	if err != nil {
		return err
	}
	if s.cache != nil {
		return s.cache.Set(ctx, studentID, 0, set)
	}
	return nil
}

// Invalidate drops cached recommendations for a student and queues a
// background rewarm. Both are best-effort.
func (s *RecommendationService) Invalidate(ctx context.Context, studentID int64) {
	log := logger.FromContext(ctx).WithPrefix("recommendation_service").WithField("student_id", studentID)

	if s.cache != nil {
		if err := s.cache.Delete(ctx, studentID); err != nil {
			log.Warn("cache invalidation failed: %v", err)
		}
	}
	if s.warm != nil {
		if !s.warm.Enqueue(studentID) {
			log.Warn("warm queue full, skipping rewarm")
		}
	}
}
