package models

import (
	"gorm.io/gorm"
)

// Permission names checked by middleware.CheckPermissionMiddleware.
const (
	PermLogin          = "login"
	PermViewProfile    = "view-profile"
	PermEnroll         = "enroll-course"
	PermSubmitQuiz     = "submit-quiz"
	PermWriteReview    = "write-review"
	PermManageCourses  = "manage-courses"
	PermViewProgress   = "view-course-progress"
	PermManageUsers    = "manage-users"
	PermManageNotifies = "manage-notifications"
)

type Permission struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index"`
	User       User   `gorm:"foreignKey:UserID"`
	Role       string `gorm:"size:20"`
	Permission string `gorm:"type:varchar(255)"` // e.g., "submit-quiz"
	IsDeleted  bool   `gorm:"default:false"`
}

// DefaultPermissions returns the permission set granted to a role at registration.
func DefaultPermissions(role string) []string {
	base := []string{PermLogin, PermViewProfile, PermWriteReview}
	switch role {
	case RoleStudent:
		return append(base, PermEnroll, PermSubmitQuiz)
	case RoleTeacher:
		return append(base, PermManageCourses, PermViewProgress)
	case RoleAdmin:
		return append(base, PermManageCourses, PermViewProgress, PermManageUsers, PermManageNotifies)
	}
	return base
}
