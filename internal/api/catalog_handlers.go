package api

import (
	"net/http"

	"github.com/mgriffin/studypath/internal/models"
)

type createSubjectRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req createSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	id, err := s.Catalog.CreateSubject(r.Context(), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id, "name": req.Name})
}

type createTopicRequest struct {
	SubjectID     int64   `json:"subject_id"`
	Name          string  `json:"name"`
	GradeLevel    int     `json:"grade_level"`
	OrderIndex    int     `json:"order_index"`
	Prerequisites []int64 `json:"prerequisites"`
}

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	var req createTopicRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	topic, err := s.Catalog.CreateTopic(r.Context(), models.Topic{
		SubjectID:  req.SubjectID,
		Name:       req.Name,
		GradeLevel: req.GradeLevel,
		OrderIndex: req.OrderIndex,
	}, req.Prerequisites)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, topic)
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	subjectID, err := queryInt64(r, "subject_id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	gradeLevel, err := queryInt(r, "grade_level")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		handleError(w, r, err)
		return
	}

	topics, err := s.Catalog.ListTopics(r.Context(), models.TopicFilter{
		SubjectID:  subjectID,
		GradeLevel: gradeLevel,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, topics)
}
