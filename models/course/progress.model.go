package course

import (
	"time"

	"lms/models"

	"gorm.io/gorm"
)

// LessonProgress tracks a student's completion of a lesson, one row per (student, lesson)
type LessonProgress struct {
	gorm.Model
	StudentID   uint        `json:"student" gorm:"not null;uniqueIndex:idx_progress_student_lesson"`
	Student     models.User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	LessonID    uint        `json:"lesson" gorm:"not null;uniqueIndex:idx_progress_student_lesson"`
	Lesson      Lesson      `json:"-" gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
	Completed   bool        `json:"completed" gorm:"default:false"`
	CompletedAt *time.Time  `json:"completed_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }
