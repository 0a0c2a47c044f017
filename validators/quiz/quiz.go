package quizValidator

import (
	"fmt"
	"strings"

	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type QuizRequest struct {
	Lesson      uint   `json:"lesson" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	TimeLimit   *int   `json:"time_limit" validate:"omitempty,gt=0"`
}

type UpdateQuizRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	TimeLimit   *int    `json:"time_limit" validate:"omitempty,gt=0"`
}

type QuestionRequest struct {
	Quiz          uint    `json:"quiz" validate:"required"`
	Text          string  `json:"text" validate:"required,max=300"`
	OptionA       string  `json:"option_a" validate:"required,max=200"`
	OptionB       string  `json:"option_b" validate:"required,max=200"`
	OptionC       *string `json:"option_c" validate:"omitempty,max=200"`
	OptionD       *string `json:"option_d" validate:"omitempty,max=200"`
	CorrectOption string  `json:"correct_option" validate:"required,oneof=A B C D"`
}

type UpdateQuestionRequest struct {
	Text          *string `json:"text" validate:"omitempty,min=1,max=300"`
	OptionA       *string `json:"option_a" validate:"omitempty,min=1,max=200"`
	OptionB       *string `json:"option_b" validate:"omitempty,min=1,max=200"`
	OptionC       *string `json:"option_c" validate:"omitempty,max=200"`
	OptionD       *string `json:"option_d" validate:"omitempty,max=200"`
	CorrectOption *string `json:"correct_option" validate:"omitempty,oneof=A B C D"`
}

type SubmittedAnswer struct {
	Question       uint    `json:"question"`
	SelectedOption *string `json:"selected_option"`
}

type SubmitRequest struct {
	Answers []SubmittedAnswer `json:"answers" validate:"dive"`
}

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validators.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
		}
		reqData := new(UpdateQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("id", id)
		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func CreateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuestionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.CorrectOption = strings.ToUpper(strings.TrimSpace(reqData.CorrectOption))

		errors := validators.Check(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if msg := optionKeyMissing(reqData.CorrectOption, reqData.OptionC, reqData.OptionD); msg != "" {
			errors["correct_option"] = msg
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

func UpdateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validators.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid question ID!", nil)
		}
		reqData := new(UpdateQuestionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.CorrectOption != nil {
			key := strings.ToUpper(strings.TrimSpace(*reqData.CorrectOption))
			reqData.CorrectOption = &key
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("id", id)
		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// SubmitQuiz validates POST /quizzes/:id/submit. An empty answer list passes
// through so the scoring engine can reject it with its own message. Unknown
// question ids and letters outside A-D are left to the scoring engine.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validators.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz ID!", nil)
		}

		reqData := new(SubmitRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Check(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		for i, a := range reqData.Answers {
			if a.SelectedOption == nil {
				continue
			}
			if len(strings.TrimSpace(*a.SelectedOption)) > 1 {
				errors[fmt.Sprintf("answers[%d].selected_option", i)] = "Must be a single option letter."
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("id", id)
		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// optionKeyMissing reports an answer key that points at an option the question does not have.
func optionKeyMissing(key string, optionC, optionD *string) string {
	switch key {
	case "C":
		if optionC == nil || strings.TrimSpace(*optionC) == "" {
			return "Option C is empty."
		}
	case "D":
		if optionD == nil || strings.TrimSpace(*optionD) == "" {
			return "Option D is empty."
		}
	}
	return ""
}

// QuizList validates GET /quizzes?lesson=
func QuizList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lesson, ok := validators.OptionalQueryID(c, "lesson")
		if !ok {
			return middleware.ValidationErrorResponse(c, map[string]string{"lesson": "Invalid lesson ID!"})
		}
		c.Locals("lessonFilter", lesson)
		return c.Next()
	}
}

// QuestionList validates GET /questions?quiz=
func QuestionList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quiz, ok := validators.OptionalQueryID(c, "quiz")
		if !ok {
			return middleware.ValidationErrorResponse(c, map[string]string{"quiz": "Invalid quiz ID!"})
		}
		c.Locals("quizFilter", quiz)
		return c.Next()
	}
}
