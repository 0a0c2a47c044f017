package controllers

import (
	"time"

	"lms/database"
	"lms/logger"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// StudentProgress reports per-course progress for a student; self or admin.
func StudentProgress(c *fiber.Ctx) error {
	studentID, _ := c.Locals("student_id").(uint)
	courseID, _ := c.Locals("courseFilter").(*uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !user.IsAdmin() && user.ID != studentID {
		return forbidden(c)
	}

	records, err := progressAggregator().StudentProgress(c.UserContext(), studentID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", records)
}

// CourseProgress reports progress of every enrolled student; course teacher or admin.
func CourseProgress(c *fiber.Ctx) error {
	courseID, _ := c.Locals("course_id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	course, err := findCourse(courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !canManageCourse(user, course) {
		return forbidden(c)
	}

	records, err := progressAggregator().CourseProgress(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", records)
}

// AdminDashboardStats gets dashboard statistics
func AdminDashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db.WithContext(c.UserContext())

	type roleCount struct {
		Role  string
		Count int64
	}
	failed := func(err error) error {
		logger.Log.Error("dashboard stats query failed", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch dashboard stats!", nil)
	}

	var roles []roleCount
	if err := db.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Where("is_deleted = ?", false).
		Group("role").
		Scan(&roles).Error; err != nil {
		return failed(err)
	}
	usersByRole := fiber.Map{models.RoleStudent: int64(0), models.RoleTeacher: int64(0), models.RoleAdmin: int64(0)}
	for _, r := range roles {
		usersByRole[r.Role] = r.Count
	}

	var totalCourses, totalEnrollments, totalCertificates int64
	if err := db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses).Error; err != nil {
		return failed(err)
	}
	if err := db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).Count(&totalEnrollments).Error; err != nil {
		return failed(err)
	}
	if err := db.Model(&courseModels.Certificate{}).Where("is_deleted = ?", false).Count(&totalCertificates).Error; err != nil {
		return failed(err)
	}

	current := time.Now()
	attempts := fiber.Map{}
	for _, period := range []struct {
		key  string
		from time.Time
	}{
		{"today", now.With(current).BeginningOfDay()},
		{"this_week", now.With(current).BeginningOfWeek()},
		{"this_month", now.With(current).BeginningOfMonth()},
	} {
		var n int64
		if err := db.Model(&courseModels.Attempt{}).Where("completed_at >= ?", period.from).Count(&n).Error; err != nil {
			return failed(err)
		}
		attempts[period.key] = n
	}

	var avg struct{ Average *float64 }
	if err := db.Model(&courseModels.Attempt{}).Select("AVG(score) AS average").Scan(&avg).Error; err != nil {
		return failed(err)
	}
	averageScore := 0.0
	if avg.Average != nil {
		averageScore = *avg.Average
	}

	var recentEnrollments []courseModels.Enrollment
	if err := db.Preload("User").Preload("Course").
		Where("is_deleted = ?", false).
		Order("created_at desc").Limit(5).
		Find(&recentEnrollments).Error; err != nil {
		return failed(err)
	}

	type recentEnrollment struct {
		Username    string    `json:"username"`
		CourseTitle string    `json:"course_title"`
		EnrolledAt  time.Time `json:"enrolled_at"`
	}
	recent := make([]recentEnrollment, len(recentEnrollments))
	for i, e := range recentEnrollments {
		recent[i] = recentEnrollment{
			Username:    e.User.Username,
			CourseTitle: e.Course.Title,
			EnrolledAt:  e.CreatedAt,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"stats": fiber.Map{
			"users_by_role":      usersByRole,
			"total_courses":      totalCourses,
			"total_enrollments":  totalEnrollments,
			"total_certificates": totalCertificates,
			"attempts":           attempts,
			"average_score":      averageScore,
		},
		"recent_enrollments": recent,
	})
}
