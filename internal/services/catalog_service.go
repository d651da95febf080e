package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	apperrors "github.com/mgriffin/studypath/internal/errors"
	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/repository"
)

// CatalogService manages the curriculum: subjects, topics and the
// prerequisite graph between topics.
type CatalogService struct {
	topics repository.TopicRepository
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(topics repository.TopicRepository) *CatalogService {
	return &CatalogService{topics: topics}
}

// CreateSubject adds a subject to the catalog.
func (s *CatalogService) CreateSubject(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperrors.NewValidationError("name", "must not be empty")
	}
	id, err := s.topics.InsertSubject(ctx, models.Subject{Name: name})
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return id, nil
}

// CreateTopic adds a topic, optionally with prerequisites.
func (s *CatalogService) CreateTopic(ctx context.Context, topic models.Topic, prerequisiteIDs []int64) (*models.Topic, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_service")

	if strings.TrimSpace(topic.Name) == "" {
		return nil, apperrors.NewValidationError("name", "must not be empty")
	}
	if topic.SubjectID <= 0 {
		return nil, apperrors.NewValidationError("subject_id", "must be set")
	}

	id, err := s.topics.Insert(ctx, topic)
	if err != nil {
		log.Error("failed to insert topic: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	if len(prerequisiteIDs) > 0 {
		if err := s.topics.SetPrerequisites(ctx, id, prerequisiteIDs); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}
	return s.GetTopic(ctx, id)
}

// GetTopic fetches one topic.
func (s *CatalogService) GetTopic(ctx context.Context, id int64) (*models.Topic, error) {
	topic, err := s.topics.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("topic", id)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return topic, nil
}

// ListTopics returns topics matching the filter.
func (s *CatalogService) ListTopics(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error) {
	topics, err := s.topics.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return topics, nil
}
