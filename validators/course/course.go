package courseValidator

import (
	"strings"

	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CourseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description"`
	Teacher     *uint  `json:"teacher"`
}

type UpdateCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description"`
	Teacher     *uint   `json:"teacher"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validators.ParamID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Title != nil {
			t := strings.TrimSpace(*reqData.Title)
			reqData.Title = &t
		}
		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("courseId", id)
		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// IDParam parses a numeric route parameter into Locals under the same name.
func IDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validators.ParamID(c, name)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+strings.ReplaceAll(name, "_", " ")+"!", nil)
		}
		c.Locals(name, id)
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit := validators.Pagination(c)
		teacher, ok := validators.OptionalQueryID(c, "teacher")
		if !ok {
			return middleware.ValidationErrorResponse(c, map[string]string{"teacher": "Invalid teacher ID!"})
		}

		c.Locals("page", page)
		c.Locals("limit", limit)
		c.Locals("teacherFilter", teacher)
		c.Locals("search", strings.TrimSpace(c.Query("search")))
		return c.Next()
	}
}
