package api

import (
	"net/http"

	"github.com/mgriffin/studypath/internal/learningpath"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/recommend"
)

func learningPathOptions(r *http.Request, limit int) learningpath.Options {
	return learningpath.Options{
		IncludeEnrichment: r.URL.Query().Get("include_enrichment") == "true",
		Limit:             limit,
	}
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	subjectID, err := queryInt64(r, "subject_id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}

	opts := recommend.DefaultOptions()
	opts.SubjectID = subjectID
	if limit > 0 {
		opts.Limit = limit
	}
	if r.URL.Query().Get("include_prerequisites") == "false" {
		opts.IncludePrerequisites = false
	}

	set, err := s.Recommendations.Get(r.Context(), id, opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, set)
}

func (s *Server) handleLearningPath(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	subjectID, err := queryInt64(r, "subject_id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}

	opts := learningPathOptions(r, limit)
	path, err := s.Paths.BuildPath(r.Context(), id, subjectID, opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, path)
}

type adjustPathRequest struct {
	TopicID  int64   `json:"topic_id"`
	Accuracy float64 `json:"accuracy"`
	Attempts int     `json:"attempts"`
}

func (s *Server) handleAdjustPath(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req adjustPathRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	adjustment, err := s.Paths.AdjustPath(r.Context(), id, req.TopicID, models.RecentPerformance{
		Accuracy: req.Accuracy,
		Attempts: req.Attempts,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, adjustment)
}
