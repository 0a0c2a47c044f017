package services

import (
	"context"
	"errors"
	"math"
	"time"

	"lms/apperr"
	"lms/logger"
	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// CourseProgressRecord is one student's completion summary for one course.
type CourseProgressRecord struct {
	CourseID         uint    `json:"course_id"`
	CourseTitle      string  `json:"course_title"`
	TotalLessons     int64   `json:"total_lessons"`
	CompletedLessons int64   `json:"completed_lessons"`
	ProgressPercent  float64 `json:"progress_percent"`
}

// StudentProgressRecord is one enrolled student's completion summary inside a course.
type StudentProgressRecord struct {
	StudentID        uint    `json:"student_id"`
	StudentUsername  string  `json:"student_username"`
	TotalLessons     int64   `json:"total_lessons"`
	CompletedLessons int64   `json:"completed_lessons"`
	ProgressPercent  float64 `json:"progress_percent"`
}

type ProgressAggregator struct {
	db  *gorm.DB
	now func() time.Time
	log *logger.Logger
}

func NewProgressAggregator(db *gorm.DB) *ProgressAggregator {
	return &ProgressAggregator{
		db:  db,
		now: time.Now,
		log: logger.Log.With("service", "ProgressAggregator"),
	}
}

// Percent is completed/total*100 rounded to two decimals, 0 for an empty course.
func Percent(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}

// StudentProgress summarises progress for every course the student is
// enrolled in. When courseID is set only that course is reported, enrolled
// or not.
func (p *ProgressAggregator) StudentProgress(ctx context.Context, studentID uint, courseID *uint) ([]CourseProgressRecord, error) {
	db := p.db.WithContext(ctx)

	var student models.User
	err := db.Where("id = ? AND is_deleted = ?", studentID, false).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Student not found.")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load student", err)
	}

	var courses []courseModels.Course
	if courseID != nil {
		var course courseModels.Course
		err := db.Where("id = ? AND is_deleted = ?", *courseID, false).First(&course).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Course not found.")
		}
		if err != nil {
			return nil, apperr.Internal("failed to load course", err)
		}
		courses = append(courses, course)
	} else {
		err := db.Model(&courseModels.Course{}).
			Joins("JOIN enrollments ON enrollments.course_id = courses.id").
			Where("enrollments.user_id = ? AND enrollments.is_deleted = ? AND enrollments.deleted_at IS NULL", studentID, false).
			Where("courses.is_deleted = ?", false).
			Order("courses.id ASC").
			Find(&courses).Error
		if err != nil {
			return nil, apperr.Internal("failed to load enrollments", err)
		}
	}

	records := make([]CourseProgressRecord, 0, len(courses))
	for _, c := range courses {
		total, err := p.TotalLessons(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		done, err := p.CompletedLessons(ctx, studentID, c.ID)
		if err != nil {
			return nil, err
		}
		records = append(records, CourseProgressRecord{
			CourseID:         c.ID,
			CourseTitle:      c.Title,
			TotalLessons:     total,
			CompletedLessons: min(done, total),
			ProgressPercent:  Percent(done, total),
		})
	}
	return records, nil
}

// CourseProgress reports every enrolled student's progress in a course,
// ordered by student id.
func (p *ProgressAggregator) CourseProgress(ctx context.Context, courseID uint) ([]StudentProgressRecord, error) {
	db := p.db.WithContext(ctx)

	var course courseModels.Course
	err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Course not found.")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load course", err)
	}

	total, err := p.TotalLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}

	var students []models.User
	err = db.Model(&models.User{}).
		Joins("JOIN enrollments ON enrollments.user_id = users.id").
		Where("enrollments.course_id = ? AND enrollments.is_deleted = ? AND enrollments.deleted_at IS NULL", courseID, false).
		Where("users.is_deleted = ?", false).
		Order("users.id ASC").
		Find(&students).Error
	if err != nil {
		return nil, apperr.Internal("failed to load enrolled students", err)
	}

	records := make([]StudentProgressRecord, 0, len(students))
	for _, s := range students {
		done, err := p.CompletedLessons(ctx, s.ID, courseID)
		if err != nil {
			return nil, err
		}
		records = append(records, StudentProgressRecord{
			StudentID:        s.ID,
			StudentUsername:  s.Username,
			TotalLessons:     total,
			CompletedLessons: min(done, total),
			ProgressPercent:  Percent(done, total),
		})
	}
	return records, nil
}

// TotalLessons counts the live lessons of a course across all its live modules.
func (p *ProgressAggregator) TotalLessons(ctx context.Context, courseID uint) (int64, error) {
	var total int64
	err := p.db.WithContext(ctx).Model(&courseModels.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND modules.is_deleted = ? AND modules.deleted_at IS NULL", courseID, false).
		Where("lessons.is_deleted = ?", false).
		Count(&total).Error
	if err != nil {
		return 0, apperr.Internal("failed to count lessons", err)
	}
	return total, nil
}

// CompletedLessons counts the student's completed progress rows whose lesson
// still belongs to the course.
func (p *ProgressAggregator) CompletedLessons(ctx context.Context, studentID, courseID uint) (int64, error) {
	var done int64
	err := p.db.WithContext(ctx).Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("lesson_progress.student_id = ? AND lesson_progress.completed = ?", studentID, true).
		Where("lessons.is_deleted = ? AND lessons.deleted_at IS NULL", false).
		Where("modules.course_id = ? AND modules.is_deleted = ? AND modules.deleted_at IS NULL", courseID, false).
		Count(&done).Error
	if err != nil {
		return 0, apperr.Internal("failed to count completed lessons", err)
	}
	return done, nil
}

// MarkLessonComplete records that the student finished a lesson. The student
// must be enrolled in the lesson's course. Repeated calls keep the first
// completion time.
func (p *ProgressAggregator) MarkLessonComplete(ctx context.Context, studentID, lessonID uint) (*courseModels.LessonProgress, error) {
	db := p.db.WithContext(ctx)

	var lesson courseModels.Lesson
	err := db.Preload("Module").Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Lesson not found.")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load lesson", err)
	}

	var enrolled int64
	err = db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", studentID, lesson.Module.CourseID, false).
		Count(&enrolled).Error
	if err != nil {
		return nil, apperr.Internal("failed to check enrollment", err)
	}
	if enrolled == 0 {
		return nil, apperr.Permission("You are not enrolled in this course.")
	}

	var progress courseModels.LessonProgress
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			now := p.now()
			progress = courseModels.LessonProgress{
				StudentID:   studentID,
				LessonID:    lessonID,
				Completed:   true,
				CompletedAt: &now,
			}
			return tx.Create(&progress).Error
		}
		if err != nil {
			return err
		}
		if progress.Completed {
			return nil
		}
		now := p.now()
		progress.Completed = true
		progress.CompletedAt = &now
		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, apperr.Internal("failed to save lesson progress", err)
	}

	p.log.Debug("lesson completed", "student_id", studentID, "lesson_id", lessonID)
	return &progress, nil
}
