package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	Title     string         `json:"title" gorm:"size:200;not null"`
	Message   string         `json:"message" gorm:"type:text"`
	Data      datatypes.JSON `json:"data"`
	IsRead    bool           `json:"is_read" gorm:"default:false"`
	IsDeleted bool           `json:"-" gorm:"default:false"`
}
