package notificationController

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"
	"lms/utils"
	notificationValidator "lms/validators/notification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func notificationService() *services.NotificationService {
	return services.NewNotificationService(database.Database.Db, utils.DefaultDispatcher())
}

// NotificationList returns the caller's notifications, newest first.
func NotificationList(c *fiber.Ctx) error {
	unreadOnly, _ := c.Locals("unreadOnly").(bool)

	list, err := notificationService().List(c.UserContext(), middleware.CurrentUserID(c), unreadOnly)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully!", list)
}

func MarkRead(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)

	n, err := notificationService().MarkRead(c.UserContext(), middleware.CurrentUserID(c), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read.", n)
}

func MarkAllRead(c *fiber.Ctx) error {
	count, err := notificationService().MarkAllRead(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications marked as read.", fiber.Map{"updated": count})
}

// CreateNotification stores a notification for a user and e-mails it. Admin only.
func CreateNotification(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedNotification").(*notificationValidator.CreateNotificationRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var recipient models.User
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.User, false).First(&recipient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.ValidationErrorResponse(c, map[string]string{"user": "User not found."})
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load user!", nil)
	}

	n, err := notificationService().Notify(c.UserContext(), recipient.ID, reqData.Title, reqData.Message, reqData.Data)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	utils.SendNotificationEmail(recipient.Email, recipient.FullName(), n.Title, n.Message)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Notification created successfully!", n)
}

// DeleteNotification soft-deletes any notification. Admin only.
func DeleteNotification(c *fiber.Ctx) error {
	id, _ := c.Locals("id").(uint)

	if err := notificationService().Delete(c.UserContext(), id); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification deleted successfully!", nil)
}
