package controllers

import (
	"lms/logger"
	"lms/middleware"
	"lms/services"
	quizValidator "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SubmitQuiz scores a submission for the authenticated user.
func SubmitQuiz(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSubmission").(*quizValidator.SubmitRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	quizID, _ := c.Locals("id").(uint)
	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	userID := user.ID

	answers := make([]services.SubmittedAnswer, len(reqData.Answers))
	for i, a := range reqData.Answers {
		answers[i] = services.SubmittedAnswer{QuestionID: a.Question, SelectedOption: a.SelectedOption}
	}

	result, err := scoringEngine().SubmitAttempt(c.UserContext(), quizID, userID, answers)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("quiz submitted", "quiz_id", quizID, "user_id", userID, "attempt_id", result.AttemptID, "score", result.Score)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully.", result)
}

// QuizResults returns the caller's most recent attempt with an answer review.
func QuizResults(c *fiber.Ctx) error {
	quizID, _ := c.Locals("id").(uint)
	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	result, err := scoringEngine().LatestResult(c.UserContext(), quizID, user.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz results fetched successfully!", result)
}

// QuizAttempts lists every attempt of the caller, newest first.
func QuizAttempts(c *fiber.Ctx) error {
	quizID, _ := c.Locals("id").(uint)
	user, err := actor(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if _, err := findQuiz(quizID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	attempts, err := scoringEngine().AttemptHistory(c.UserContext(), quizID, user.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempts fetched successfully!", attempts)
}
