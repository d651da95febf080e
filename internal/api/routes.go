package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mgriffin/studypath/internal/export"
	"github.com/mgriffin/studypath/internal/learningpath"
	"github.com/mgriffin/studypath/internal/services"
)

type Server struct {
	DB              *sql.DB
	Students        *services.StudentService
	Catalog         *services.CatalogService
	Progress        *services.ProgressService
	Reviews         *services.ReviewService
	Recommendations *services.RecommendationService
	Paths           *learningpath.Service
	Reporter        *export.Reporter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Post("/students", s.handleCreateStudent)
	r.Get("/students", s.handleListStudents)
	r.Get("/students/{id}", s.handleGetStudent)

	r.Post("/subjects", s.handleCreateSubject)
	r.Post("/topics", s.handleCreateTopic)
	r.Get("/topics", s.handleListTopics)

	r.Post("/sessions", s.handleStartSession)
	r.Post("/sessions/{id}/progress", s.handleTrackProgress)

	r.Get("/students/{id}/recommendations", s.handleRecommendations)
	r.Get("/students/{id}/learning-path", s.handleLearningPath)
	r.Post("/students/{id}/learning-path/adjust", s.handleAdjustPath)
	r.Post("/students/{id}/reviews/{conceptId}", s.handleRecordReview)
	r.Get("/students/{id}/reviews/due", s.handleDueReviews)
	r.Get("/students/{id}/streak", s.handleStreak)
	r.Get("/students/{id}/report.xlsx", s.handleReport)

	return r
}
