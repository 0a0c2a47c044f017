package course

import "gorm.io/gorm"

// Lesson is the unit of progress tracking inside a module
type Lesson struct {
	gorm.Model
	ModuleID  uint   `json:"module" gorm:"index;not null"`
	Module    Module `json:"-" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
	Title     string `json:"title" gorm:"size:200;not null"`
	Content   string `json:"content" gorm:"type:text"`
	VideoURL  string `json:"video_url"`
	Order     int    `json:"order" gorm:"column:order_index;default:0"` // Order within module
	IsDeleted bool   `json:"-" gorm:"default:false"`
}
