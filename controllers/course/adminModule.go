package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// ListModules returns a course's modules in (order, id) order.
func ListModules(c *fiber.Ctx) error {
	courseID, _ := c.Locals("course_id").(uint)
	if _, err := findCourse(courseID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var modules []courseModels.Module
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index ASC").Order("id ASC").
		Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", modules)
}

func CreateModule(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedModule").(*courseValidator.ModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	courseID, _ := c.Locals("course_id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	course, err := findCourse(courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !isCourseTeacher(user, course) {
		return forbidden(c)
	}

	module := courseModels.Module{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Order:       reqData.Order,
	}
	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

func GetModule(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)
	module, err := findModule(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module fetched successfully!", module)
}

func UpdateModule(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedModule").(*courseValidator.UpdateModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	id, _ := c.Locals("id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	module, err := findModule(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !isCourseTeacher(user, &module.Course) {
		return forbidden(c)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Order != nil {
		updates["order_index"] = *reqData.Order
	}
	if len(updates) > 0 {
		if err := database.Database.Db.Model(module).Updates(updates).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

func DeleteModule(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	module, err := findModule(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !isCourseTeacher(user, &module.Course) {
		return forbidden(c)
	}

	if err := database.Database.Db.Model(module).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}
