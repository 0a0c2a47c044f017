package controllers

import (
	"lms/database"
	"lms/logger"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

type courseResponse struct {
	courseModels.Course
	TeacherUsername string `json:"teacher_username"`
	StudentCount    int64  `json:"student_count"`
}

func GetAllCourses(c *fiber.Ctx) error {
	page, _ := c.Locals("page").(int)
	limit, _ := c.Locals("limit").(int)
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if teacher, _ := c.Locals("teacherFilter").(*uint); teacher != nil {
		db = db.Where("teacher_id = ?", *teacher)
	}
	if search, _ := c.Locals("search").(string); search != "" {
		db = db.Where("LOWER(title) LIKE LOWER(?)", "%"+search+"%")
	}

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Preload("Teacher").Offset(offset).Limit(limit).Order("created_at desc").Order("id desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	out := make([]courseResponse, len(courses))
	for i, course := range courses {
		out[i] = courseResponse{Course: course, TeacherUsername: course.Teacher.Username}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": out,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetCourse(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)

	var course courseModels.Course
	if err := database.Database.Db.Preload("Teacher").Where("id = ? AND is_deleted = ?", id, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found.", nil)
	}

	var students int64
	database.Database.Db.Model(&courseModels.Enrollment{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&students)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", courseResponse{
		Course:          course,
		TeacherUsername: course.Teacher.Username,
		StudentCount:    students,
	})
}

// CreateCourse: teachers create for themselves, admins must name a teacher.
func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var teacherID uint
	switch {
	case user.IsTeacher():
		teacherID = user.ID
	case user.IsAdmin():
		if reqData.Teacher == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"teacher": "Admin must specify a teacher."})
		}
		var teacher models.User
		if err := database.Database.Db.Where("id = ? AND role = ? AND is_deleted = ?", *reqData.Teacher, models.RoleTeacher, false).
			First(&teacher).Error; err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"teacher": "Teacher not found."})
		}
		teacherID = teacher.ID
	default:
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only teachers or admins can create courses.", nil)
	}

	course := courseModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		TeacherID:   teacherID,
	}
	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	logger.Log.Info("course created", "course_id", course.ID, "teacher_id", teacherID, "by", user.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	id, _ := c.Locals("courseId").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	course, err := findCourse(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !canManageCourse(user, course) {
		return forbidden(c)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Teacher != nil && user.IsAdmin() {
		var teacher models.User
		if err := database.Database.Db.Where("id = ? AND role = ? AND is_deleted = ?", *reqData.Teacher, models.RoleTeacher, false).
			First(&teacher).Error; err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"teacher": "Teacher not found."})
		}
		updates["teacher_id"] = teacher.ID
	}

	if len(updates) > 0 {
		if err := database.Database.Db.Model(course).Updates(updates).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func DeleteCourse(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	course, err := findCourse(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !canManageCourse(user, course) {
		return forbidden(c)
	}

	if err := database.Database.Db.Model(course).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}
