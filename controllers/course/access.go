package controllers

import (
	"errors"

	"lms/apperr"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func scoringEngine() *services.ScoringEngine {
	return services.NewScoringEngine(database.Database.Db, config.AppConfig.MissingQuestionPolicy)
}

func progressAggregator() *services.ProgressAggregator {
	return services.NewProgressAggregator(database.Database.Db)
}

func certificateService() *services.CertificateService {
	notifications := services.NewNotificationService(database.Database.Db, utils.DefaultDispatcher())
	return services.NewCertificateService(database.Database.Db, notifications)
}

// actor loads the authenticated user.
func actor(c *fiber.Ctx) (*models.User, error) {
	var user models.User
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", middleware.CurrentUserID(c), false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("User not found!")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	return &user, nil
}

func findCourse(id uint) (*courseModels.Course, error) {
	var course courseModels.Course
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Course not found.")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load course", err)
	}
	return &course, nil
}

func findModule(id uint) (*courseModels.Module, error) {
	var module courseModels.Module
	err := database.Database.Db.Preload("Course").Where("id = ? AND is_deleted = ?", id, false).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Module not found.")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load module", err)
	}
	return &module, nil
}

func findLesson(id uint) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	err := database.Database.Db.Preload("Module.Course").Where("id = ? AND is_deleted = ?", id, false).First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Lesson not found.")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load lesson", err)
	}
	return &lesson, nil
}

func findQuiz(id uint) (*courseModels.Quiz, error) {
	var quiz courseModels.Quiz
	err := database.Database.Db.Preload("Lesson.Module.Course").Where("id = ? AND is_deleted = ?", id, false).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Quiz not found.")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load quiz", err)
	}
	return &quiz, nil
}

func isCourseTeacher(user *models.User, course *courseModels.Course) bool {
	return user.IsTeacher() && course.TeacherID == user.ID
}

// canManageCourse: the owning teacher or any admin.
func canManageCourse(user *models.User, course *courseModels.Course) bool {
	return user.IsAdmin() || isCourseTeacher(user, course)
}

func isEnrolled(userID, courseID uint) (bool, error) {
	var count int64
	err := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Count(&count).Error
	return count > 0, err
}

func forbidden(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to perform this action.", nil)
}
