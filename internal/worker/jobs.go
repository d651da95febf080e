package worker

import (
	"context"
)

// Refresher recomputes and caches a student's recommendations.
type Refresher interface {
	Refresh(ctx context.Context, studentID int64) error
}

// WarmRecommendationsJob recomputes one student's recommendation cache
// in the background after a tracked session invalidated it.
type WarmRecommendationsJob struct {
	Refresher Refresher
	StudentID int64
}

func (j *WarmRecommendationsJob) Name() string { return "warm_recommendations" }

func (j *WarmRecommendationsJob) Run(ctx context.Context) error {
	return j.Refresher.Refresh(ctx, j.StudentID)
}

// RecommendationWarmer adapts the pool to the non-blocking warm queue
// the services layer expects.
type RecommendationWarmer struct {
	Pool      *Pool
	Refresher Refresher
}

func (w *RecommendationWarmer) Enqueue(studentID int64) bool {
	return w.Pool.TrySubmit(&WarmRecommendationsJob{
		Refresher: w.Refresher,
		StudentID: studentID,
	})
}
