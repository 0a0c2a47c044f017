package course

import (
	"lms/models"

	"gorm.io/gorm"
)

// Enrollment links a student to a course
type Enrollment struct {
	gorm.Model
	UserID    uint        `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID  uint        `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	User      models.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Course    Course      `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	IsDeleted bool        `json:"-" gorm:"default:false"`
}
