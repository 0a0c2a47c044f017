package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// ListLessons returns a module's lessons in (order, id) order.
func ListLessons(c *fiber.Ctx) error {
	moduleID, _ := c.Locals("module_id").(uint)
	if _, err := findModule(moduleID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var lessons []courseModels.Lesson
	if err := database.Database.Db.
		Where("module_id = ? AND is_deleted = ?", moduleID, false).
		Order("order_index ASC").Order("id ASC").
		Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", lessons)
}

func CreateLesson(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	moduleID, _ := c.Locals("module_id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	module, err := findModule(moduleID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !isCourseTeacher(user, &module.Course) {
		return forbidden(c)
	}

	lesson := courseModels.Lesson{
		ModuleID: module.ID,
		Title:    reqData.Title,
		Content:  reqData.Content,
		VideoURL: reqData.VideoURL,
		Order:    reqData.Order,
	}
	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

func GetLesson(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)
	lesson, err := findLesson(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", lesson)
}

func UpdateLesson(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.UpdateLessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	id, _ := c.Locals("id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	lesson, err := findLesson(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !isCourseTeacher(user, &lesson.Module.Course) {
		return forbidden(c)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Content != nil {
		updates["content"] = *reqData.Content
	}
	if reqData.VideoURL != nil {
		updates["video_url"] = *reqData.VideoURL
	}
	if reqData.Order != nil {
		updates["order_index"] = *reqData.Order
	}
	if len(updates) > 0 {
		if err := database.Database.Db.Model(lesson).Updates(updates).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lesson!", nil)
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully!", lesson)
}

func DeleteLesson(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	lesson, err := findLesson(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !isCourseTeacher(user, &lesson.Module.Course) {
		return forbidden(c)
	}

	if err := database.Database.Db.Model(lesson).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lesson!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}

// MarkLessonComplete records the caller's completion of a lesson.
func MarkLessonComplete(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)

	progress, err := progressAggregator().MarkLessonComplete(c.UserContext(), middleware.CurrentUserID(c), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as complete.", progress)
}
