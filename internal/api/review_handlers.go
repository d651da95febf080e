package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mgriffin/studypath/internal/errors"
)

type recordReviewRequest struct {
	Quality   int   `json:"quality"`
	SubjectID int64 `json:"subject_id"`
}

func (s *Server) handleRecordReview(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	conceptID := chi.URLParam(r, "conceptId")
	if conceptID == "" {
		handleError(w, r, errors.NewBadRequestError("invalid concept id"))
		return
	}

	var req recordReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	review, err := s.Reviews.RecordReview(r.Context(), id, conceptID, req.Quality, req.SubjectID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, review)
}

func (s *Server) handleDueReviews(w http.ResponseWriter, r *http.Request) {
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

	due, err := s.Reviews.DueForReview(r.Context(), id, subjectID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"reviews": due, "total": len(due)})
}
