package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	CourseID  uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_review_course_user"` // Course reviewed
	UserID    uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_review_course_user"`   // Who gave the review
	User      User   `json:"user" gorm:"foreignKey:UserID"`
	Rating    int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1–5 rating
	Comment   string `json:"comment" gorm:"type:text;default:''"`                      // Optional comment
	IsDeleted bool   `json:"-" gorm:"default:false"`
}
