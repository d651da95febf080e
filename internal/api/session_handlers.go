package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mgriffin/studypath/internal/errors"
	"github.com/mgriffin/studypath/internal/models"
)

type startSessionRequest struct {
	StudentID int64 `json:"student_id"`
	TopicID   int64 `json:"topic_id"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.StudentID <= 0 || req.TopicID <= 0 {
		handleError(w, r, errors.NewBadRequestError("student_id and topic_id required"))
		return
	}

	session, err := s.Progress.StartSession(r.Context(), req.StudentID, req.TopicID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleTrackProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		handleError(w, r, errors.NewBadRequestError("invalid session id"))
		return
	}

	var stats models.SessionStats
	if err := decodeJSON(r, &stats); err != nil {
		handleError(w, r, err)
		return
	}

	progress, err := s.Progress.TrackSessionProgress(r.Context(), sessionID, stats)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}
