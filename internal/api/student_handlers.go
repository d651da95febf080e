package api

import (
	"net/http"

	"github.com/mgriffin/studypath/internal/logger"
)

type createStudentRequest struct {
	Name       string `json:"name"`
	GradeLevel int    `json:"grade_level"`
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	student, err := s.Students.Create(r.Context(), req.Name, req.GradeLevel)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, student)
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.Students.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, students)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	student, err := s.Students.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, student)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	days, err := s.Progress.GetStreak(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"student_id": id, "streak_days": days})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := urlID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="progress-report.xlsx"`)
	if err := s.Reporter.WriteReport(r.Context(), w, id); err != nil {
		// Headers may already be out; log and fall through.
		log.Error("report export failed: %v", err)
		handleError(w, r, err)
	}
}
