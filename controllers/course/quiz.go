package controllers

import (
	"errors"
	"strings"

	"lms/apperr"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	quizValidator "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListQuizzes returns quizzes, optionally filtered by ?lesson=.
func ListQuizzes(c *fiber.Ctx) error {
	db := database.Database.Db.Where("is_deleted = ?", false)
	if lesson, _ := c.Locals("lessonFilter").(*uint); lesson != nil {
		db = db.Where("lesson_id = ?", *lesson)
	}

	var quizzes []courseModels.Quiz
	if err := db.Order("id ASC").Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", quizzes)
}

// GetQuiz returns a quiz with its live questions.
func GetQuiz(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)

	var quiz courseModels.Quiz
	err := database.Database.Db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("id ASC")
		}).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found.", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", quiz)
}

func CreateQuiz(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedQuiz").(*quizValidator.QuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	lesson, err := findLesson(reqData.Lesson)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return middleware.ValidationErrorResponse(c, map[string]string{"lesson": "Lesson not found."})
		}
		return middleware.ErrorResponse(c, err)
	}
	if !canManageCourse(user, &lesson.Module.Course) {
		return forbidden(c)
	}

	quiz := courseModels.Quiz{
		LessonID:    lesson.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		TimeLimit:   reqData.TimeLimit,
	}
	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

func UpdateQuiz(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedQuiz").(*quizValidator.UpdateQuizRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	id, _ := c.Locals("id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	quiz, err := findQuiz(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !canManageCourse(user, &quiz.Lesson.Module.Course) {
		return forbidden(c)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = strings.TrimSpace(*reqData.Title)
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.TimeLimit != nil {
		updates["time_limit"] = *reqData.TimeLimit
	}
	if len(updates) > 0 {
		if err := database.Database.Db.Model(quiz).Updates(updates).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

func DeleteQuiz(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	quiz, err := findQuiz(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !canManageCourse(user, &quiz.Lesson.Module.Course) {
		return forbidden(c)
	}

	if err := database.Database.Db.Model(quiz).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}

// ListQuestions returns questions, optionally filtered by ?quiz=.
func ListQuestions(c *fiber.Ctx) error {
	db := database.Database.Db.Where("is_deleted = ?", false)
	if quiz, _ := c.Locals("quizFilter").(*uint); quiz != nil {
		db = db.Where("quiz_id = ?", *quiz)
	}

	var questions []courseModels.Question
	if err := db.Order("quiz_id ASC").Order("id ASC").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch questions!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Questions fetched successfully!", questions)
}

func GetQuestion(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)
	question, err := findQuestion(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question fetched successfully!", question)
}

func CreateQuestion(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedQuestion").(*quizValidator.QuestionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	quiz, err := findQuiz(reqData.Quiz)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return middleware.ValidationErrorResponse(c, map[string]string{"quiz": "Quiz not found."})
		}
		return middleware.ErrorResponse(c, err)
	}
	if !canManageCourse(user, &quiz.Lesson.Module.Course) {
		return forbidden(c)
	}

	question := courseModels.Question{
		QuizID:        quiz.ID,
		Text:          strings.TrimSpace(reqData.Text),
		OptionA:       reqData.OptionA,
		OptionB:       reqData.OptionB,
		OptionC:       blankToNil(reqData.OptionC),
		OptionD:       blankToNil(reqData.OptionD),
		CorrectOption: reqData.CorrectOption,
	}
	if err := database.Database.Db.Create(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully!", question)
}

func UpdateQuestion(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedQuestion").(*quizValidator.UpdateQuestionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	id, _ := c.Locals("id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	question, err := findQuestion(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	quiz, err := findQuiz(question.QuizID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !canManageCourse(user, &quiz.Lesson.Module.Course) {
		return forbidden(c)
	}

	if reqData.Text != nil {
		question.Text = strings.TrimSpace(*reqData.Text)
	}
	if reqData.OptionA != nil {
		question.OptionA = *reqData.OptionA
	}
	if reqData.OptionB != nil {
		question.OptionB = *reqData.OptionB
	}
	if reqData.OptionC != nil {
		question.OptionC = blankToNil(reqData.OptionC)
	}
	if reqData.OptionD != nil {
		question.OptionD = blankToNil(reqData.OptionD)
	}
	if reqData.CorrectOption != nil {
		question.CorrectOption = *reqData.CorrectOption
	}
	// the merged question must still point at an existing option
	if (question.CorrectOption == "C" && question.OptionC == nil) || (question.CorrectOption == "D" && question.OptionD == nil) {
		return middleware.ValidationErrorResponse(c, map[string]string{"correct_option": "Option " + question.CorrectOption + " is empty."})
	}

	if err := database.Database.Db.Select("text", "option_a", "option_b", "option_c", "option_d", "correct_option").
		Save(question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", question)
}

func DeleteQuestion(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)

	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	question, err := findQuestion(id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	quiz, err := findQuiz(question.QuizID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !canManageCourse(user, &quiz.Lesson.Module.Course) {
		return forbidden(c)
	}

	if err := database.Database.Db.Model(question).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}

func findQuestion(id uint) (*courseModels.Question, error) {
	var question courseModels.Question
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Question not found.")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load question", err)
	}
	return &question, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
