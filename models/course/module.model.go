package course

import "gorm.io/gorm"

// Module represents a section/module within a course
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course" gorm:"index;not null"`
	Course      Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	Order       int    `json:"order" gorm:"column:order_index;default:0"` // Module order in course
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}
