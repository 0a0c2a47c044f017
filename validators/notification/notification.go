package notificationValidator

import (
	"strings"

	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateNotificationRequest struct {
	User    uint           `json:"user" validate:"required"`
	Title   string         `json:"title" validate:"required,max=200"`
	Message string         `json:"message" validate:"required"`
	Data    map[string]any `json:"data"`
}

// CreateNotification validates the admin-only POST /notifications/create
func CreateNotification() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateNotificationRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Message = strings.TrimSpace(reqData.Message)

		if errs := validators.Check(reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedNotification", reqData)
		return c.Next()
	}
}

func NotificationList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("unreadOnly", c.QueryBool("unread", false))
		return c.Next()
	}
}
