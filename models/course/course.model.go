package course

import (
	"lms/models"

	"gorm.io/gorm"
)

// Course represents a learning course owned by one teacher
type Course struct {
	gorm.Model
	Title       string      `json:"title" gorm:"size:200;not null"`
	Description string      `json:"description" gorm:"type:text"`
	TeacherID   uint        `json:"teacher" gorm:"index;not null"`
	Teacher     models.User `json:"-" gorm:"foreignKey:TeacherID"`
	IsDeleted   bool        `json:"-" gorm:"default:false"`
}
