package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

func EnrollInCourse(c *fiber.Ctx) error {
	courseID, _ := c.Locals("id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !user.IsStudent() {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students can enroll in courses.", nil)
	}

	course, err := findCourse(courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	enrolled, err := isEnrolled(user.ID, course.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if enrolled {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You are already enrolled in this course.", nil)
	}

	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: course.ID}
	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	utils.SendEnrollmentEmail(user.Email, user.FullName(), course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

func UnenrollFromCourse(c *fiber.Ctx) error {
	courseID, _ := c.Locals("id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !user.IsStudent() {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students can unenroll from courses.", nil)
	}
	if _, err := findCourse(courseID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	// hard delete so the (user, course) unique index allows enrolling again
	res := database.Database.Db.Unscoped().
		Where("user_id = ? AND course_id = ?", user.ID, courseID).
		Delete(&courseModels.Enrollment{})
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll from course!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You are not enrolled in this course.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unenrolled from course successfully!", nil)
}

// GetStudentEnrollments lists a student's courses; self or admin only.
func GetStudentEnrollments(c *fiber.Ctx) error {
	studentID, _ := c.Locals("student_id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !user.IsAdmin() && user.ID != studentID {
		return forbidden(c)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.
		Preload("Course").
		Where("user_id = ? AND is_deleted = ?", studentID, false).
		Order("id ASC").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type enrollmentResponse struct {
		ID          uint   `json:"id"`
		CourseID    uint   `json:"course_id"`
		CourseTitle string `json:"course_title"`
		EnrolledAt  string `json:"enrolled_at"`
	}
	out := make([]enrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course.IsDeleted {
			continue
		}
		out = append(out, enrollmentResponse{
			ID:          e.ID,
			CourseID:    e.CourseID,
			CourseTitle: e.Course.Title,
			EnrolledAt:  e.CreatedAt.Format(time.RFC3339),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", out)
}
