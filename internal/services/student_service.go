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

// StudentService handles student enrollment and lookup.
type StudentService struct {
	students repository.StudentRepository
}

// NewStudentService creates a StudentService.
func NewStudentService(students repository.StudentRepository) *StudentService {
	return &StudentService{students: students}
}

// Create enrolls a new student.
func (s *StudentService) Create(ctx context.Context, name string, gradeLevel int) (*models.Student, error) {
	log := logger.FromContext(ctx).WithPrefix("student_service")

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "must not be empty")
	}
	if gradeLevel < 0 || gradeLevel > 12 {
		return nil, apperrors.NewValidationError("grade_level", "must be between 0 and 12")
	}

	id, err := s.students.Insert(ctx, models.Student{Name: name, GradeLevel: gradeLevel})
	if err != nil {
		log.Error("failed to insert student: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	student, err := s.students.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	log.Info("student enrolled: id=%d grade=%d", student.ID, gradeLevel)
	return student, nil
}

// Get fetches one student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("student", id)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return student, nil
}

// List returns all students.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return students, nil
}
