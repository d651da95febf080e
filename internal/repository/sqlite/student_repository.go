package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/repository"
)

type studentRepository struct {
	db *sql.DB
}

// NewStudentRepository creates a new StudentRepository implementation
func NewStudentRepository(db *sql.DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Get(ctx context.Context, id int64) (*models.Student, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("getting student: id=%d", id)

	var s models.Student
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, grade_level, created_at
FROM students
WHERE id = ?
`, id).Scan(&s.ID, &s.Name, &s.GradeLevel, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("student not found: id=%d", id)
		} else {
			log.Error("failed to get student: %v", err)
		}
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) List(ctx context.Context) ([]models.Student, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("listing students")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, grade_level, created_at
FROM students
ORDER BY created_at ASC
`)
	if err != nil {
		log.Error("failed to list students: %v", err)
		return nil, err
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.GradeLevel, &s.CreatedAt); err != nil {
			log.Error("failed to scan student row: %v", err)
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *studentRepository) Insert(ctx context.Context, s models.Student) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("inserting student: name=%s, grade=%d", s.Name, s.GradeLevel)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO students (name, grade_level)
VALUES (?, ?)
`, s.Name, s.GradeLevel)
	if err != nil {
		log.Error("failed to insert student: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get student id: %v", err)
		return 0, err
	}
	log.Debug("student inserted: id=%d", id)
	return id, nil
}

func (r *studentRepository) RecentlyActive(ctx context.Context, since time.Time) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("listing students active since %s", since.Format("2006-01-02"))

	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT student_id
FROM daily_activity
WHERE activity_date >= ?
ORDER BY student_id
`, since.Format("2006-01-02"))
	if err != nil {
		log.Error("failed to list active students: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan student id: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Debug("found %d recently active students", len(ids))
	return ids, rows.Err()
}
