// Package export renders a student's progress as an Excel workbook for
// parents and teachers.
package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/mgriffin/studypath/internal/errors"
	"github.com/mgriffin/studypath/internal/logger"
	"github.com/mgriffin/studypath/internal/models"
	"github.com/mgriffin/studypath/internal/repository"
	"github.com/mgriffin/studypath/internal/spacing"
)

const (
	progressSheet = "Progress"
	activitySheet = "Daily Activity"
	reviewsSheet  = "Reviews"

	activityWindow = 30
)

// Reporter assembles per-student progress workbooks.
type Reporter struct {
	students repository.StudentRepository
	topics   repository.TopicRepository
	progress repository.ProgressRepository
	activity repository.ActivityRepository
	reviews  repository.ReviewRepository
}

// NewReporter creates a Reporter.
func NewReporter(
	students repository.StudentRepository,
	topics repository.TopicRepository,
	progress repository.ProgressRepository,
	activity repository.ActivityRepository,
	reviews repository.ReviewRepository,
) *Reporter {
	return &Reporter{
		students: students,
		topics:   topics,
		progress: progress,
		activity: activity,
		reviews:  reviews,
	}
}

// WriteReport writes the student's workbook to w.
func (r *Reporter) WriteReport(ctx context.Context, w io.Writer, studentID int64) error {
	log := logger.FromContext(ctx).WithPrefix("export").WithField("student_id", studentID)

	student, err := r.students.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("student", studentID)
		}
		return apperrors.NewInternalError(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := r.writeProgressSheet(ctx, f, studentID); err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := r.writeActivitySheet(ctx, f, studentID); err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := r.writeReviewsSheet(ctx, f, studentID); err != nil {
		return apperrors.NewInternalError(err)
	}

	if _, err := f.WriteTo(w); err != nil {
		log.Error("failed to write workbook: %v", err)
		return apperrors.NewInternalError(err)
	}
	log.Info("report exported for %s", student.Name)
	return nil
}

func (r *Reporter) writeProgressSheet(ctx context.Context, f *excelize.File, studentID int64) error {
	// The default sheet becomes the progress sheet.
	if err := f.SetSheetName("Sheet1", progressSheet); err != nil {
		return err
	}

	headers := []any{"Topic", "Mastery", "Sessions", "Minutes", "Strengths", "Weaknesses", "Last Practiced"}
	if err := setRow(f, progressSheet, 1, headers); err != nil {
		return err
	}

	records, err := r.progress.ListByStudent(ctx, models.ProgressFilter{StudentID: studentID})
	if err != nil {
		return err
	}
	for i, record := range records {
		topicName := fmt.Sprintf("topic %d", record.TopicID)
		if topic, err := r.topics.Get(ctx, record.TopicID); err == nil {
			topicName = topic.Name
		}
		row := []any{
			topicName,
			record.MasteryLevel,
			record.SessionsCount,
			record.TotalTimeMinutes,
			strings.Join(record.Strengths, ", "),
			strings.Join(record.Weaknesses, ", "),
			record.LastPracticedAt.Format("2006-01-02"),
		}
		if err := setRow(f, progressSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) writeActivitySheet(ctx context.Context, f *excelize.File, studentID int64) error {
	if _, err := f.NewSheet(activitySheet); err != nil {
		return err
	}

	headers := []any{"Date", "Minutes", "Sessions", "Points", "Streak Day"}
	if err := setRow(f, activitySheet, 1, headers); err != nil {
		return err
	}

	history, err := r.activity.Recent(ctx, studentID, activityWindow)
	if err != nil {
		return err
	}
	for i, day := range history {
		row := []any{day.ActivityDate, day.MinutesLearned, day.SessionsCount, day.PointsEarned, day.StreakDay}
		if err := setRow(f, activitySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) writeReviewsSheet(ctx context.Context, f *excelize.File, studentID int64) error {
	if _, err := f.NewSheet(reviewsSheet); err != nil {
		return err
	}

	headers := []any{"Concept", "Repetitions", "Interval (days)", "Ease", "Avg Quality", "Next Review", "Mastery"}
	if err := setRow(f, reviewsSheet, 1, headers); err != nil {
		return err
	}

	reviews, err := r.reviews.ListByStudent(ctx, studentID)
	if err != nil {
		return err
	}
	for i, review := range reviews {
		row := []any{
			review.ConceptID,
			review.Repetitions,
			review.IntervalDays,
			review.EaseFactor,
			review.AverageQuality,
			review.NextReviewDate.Format("2006-01-02"),
			spacing.Mastery(review),
		}
		if err := setRow(f, reviewsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
