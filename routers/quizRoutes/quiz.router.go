package quizRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	courseValidators "lms/validators/course"
	quizValidators "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quizzes", middleware.JWTMiddleware)

	quizGroup.Get("/", quizValidators.QuizList(), controllers.ListQuizzes)
	quizGroup.Post("/", quizValidators.CreateQuiz(), controllers.CreateQuiz)
	quizGroup.Get("/:id", courseValidators.IDParam("id"), controllers.GetQuiz)
	quizGroup.Put("/:id", quizValidators.UpdateQuiz(), controllers.UpdateQuiz)
	quizGroup.Delete("/:id", courseValidators.IDParam("id"), controllers.DeleteQuiz)

	quizGroup.Post("/:id/submit", quizValidators.SubmitQuiz(), controllers.SubmitQuiz)
	quizGroup.Get("/:id/results", courseValidators.IDParam("id"), controllers.QuizResults)
	quizGroup.Get("/:id/attempts", courseValidators.IDParam("id"), controllers.QuizAttempts)

	questionGroup := app.Group("/questions", middleware.JWTMiddleware)
	questionGroup.Get("/", quizValidators.QuestionList(), controllers.ListQuestions)
	questionGroup.Post("/", quizValidators.CreateQuestion(), controllers.CreateQuestion)
	questionGroup.Get("/:id", courseValidators.IDParam("id"), controllers.GetQuestion)
	questionGroup.Put("/:id", quizValidators.UpdateQuestion(), controllers.UpdateQuestion)
	questionGroup.Delete("/:id", courseValidators.IDParam("id"), controllers.DeleteQuestion)
}
