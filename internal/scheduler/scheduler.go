// Package scheduler runs the periodic background jobs: the due-review
// digest and nightly recommendation cache warming.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/repository"
	"github.com/mgriffin/studypath/internal/worker"
)

// Options configures the periodic jobs.
type Options struct {
	DigestInterval     time.Duration
	RecentActivityDays int
}

// Scheduler manages the service's recurring jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	students  repository.StudentRepository
	reviews   repository.ReviewRepository
	pool      *worker.Pool
	refresher worker.Refresher
	opts      Options
	log       *logger.Logger
}

// New creates a scheduler. The refresher is used by the nightly cache
// warm; the pool absorbs the per-student warm jobs.
func New(students repository.StudentRepository, reviews repository.ReviewRepository, pool *worker.Pool, refresher worker.Refresher, opts Options) *Scheduler {
	if opts.DigestInterval <= 0 {
		opts.DigestInterval = time.Hour
	}
	if opts.RecentActivityDays <= 0 {
		opts.RecentActivityDays = 7
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		students:  students,
		reviews:   reviews,
		pool:      pool,
		refresher: refresher,
		opts:      opts,
		log:       logger.Default().WithPrefix("scheduler"),
	}
}

// Start registers the jobs and begins running them asynchronously.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.opts.DigestInterval).Do(s.reviewDigest); err != nil {
		return err
	}
	if _, err := s.scheduler.Every(1).Day().At("03:00").Do(s.warmRecommendations); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started: digest every %s, warm nightly at 03:00", s.opts.DigestInterval)
	return nil
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("scheduler stopped")
}

// reviewDigest logs how many reviews each recently active student has
// waiting. The tutoring layer reads these from its own notifier.
func (s *Scheduler) reviewDigest() {
	ctx := logger.NewContext(context.Background(), s.log.WithField("job", "review_digest"))
	log := logger.FromContext(ctx)

	since := time.Now().AddDate(0, 0, -s.opts.RecentActivityDays)
	ids, err := s.students.RecentlyActive(ctx, since)
	if err != nil {
		log.Error("failed to list active students: %v", err)
		return
	}

	now := time.Now()
	for _, id := range ids {
		count, err := s.reviews.CountDue(ctx, id, now)
		if err != nil {
			log.Error("failed to count due reviews for student %d: %v", id, err)
			continue
		}
		if count > 0 {
			log.Info("student %d has %d reviews due", id, count)
		}
	}
}

// warmRecommendations enqueues a cache rewarm for every recently
// active student.
func (s *Scheduler) warmRecommendations() {
	ctx := logger.NewContext(context.Background(), s.log.WithField("job", "warm_recommendations"))
	log := logger.FromContext(ctx)

	since := time.Now().AddDate(0, 0, -s.opts.RecentActivityDays)
	ids, err := s.students.RecentlyActive(ctx, since)
	if err != nil {
		log.Error("failed to list active students: %v", err)
		return
	}

	queued := 0
	for _, id := range ids {
		if s.pool.TrySubmit(&worker.WarmRecommendationsJob{Refresher: s.refresher, StudentID: id}) {
			queued++
		}
	}
	log.Info("queued %d of %d warm jobs", queued, len(ids))
}
