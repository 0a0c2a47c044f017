package courseValidator

import (
	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

// StudentProgress validates GET /students/:student_id/progress?course_id=
func StudentProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		studentID, ok := validators.ParamID(c, "student_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid student ID!", nil)
		}
		courseID, ok := validators.OptionalQueryID(c, "course_id")
		if !ok {
			return middleware.ValidationErrorResponse(c, map[string]string{"course_id": "Invalid course ID!"})
		}

		c.Locals("student_id", studentID)
		c.Locals("courseFilter", courseID)
		return c.Next()
	}
}
