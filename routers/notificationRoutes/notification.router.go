package notificationRoutes

import (
	notificationController "lms/controllers/notification"
	"lms/middleware"
	"lms/models"
	courseValidators "lms/validators/course"
	notificationValidators "lms/validators/notification"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	group := app.Group("/notifications", middleware.JWTMiddleware)

	group.Get("/", notificationValidators.NotificationList(), notificationController.NotificationList)
	group.Post("/read-all", notificationController.MarkAllRead)
	group.Post("/:id/read", courseValidators.IDParam("id"), notificationController.MarkRead)

	// admin only
	group.Post("/create", middleware.AdminOnly, middleware.CheckPermissionMiddleware(models.PermManageNotifies),
		notificationValidators.CreateNotification(), notificationController.CreateNotification)
	group.Delete("/:id/delete", middleware.AdminOnly, middleware.CheckPermissionMiddleware(models.PermManageNotifies),
		courseValidators.IDParam("id"), notificationController.DeleteNotification)
}
