package superAdminController

import (
	"strings"

	"lms/config"
	authController "lms/controllers/auth"
	"lms/database"
	"lms/logger"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func UserList(c *fiber.Ctx) error {
	page, _ := c.Locals("page").(int)
	limit, _ := c.Locals("limit").(int)
	offset := (page - 1) * limit

	query := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)
	if role := strings.ToUpper(strings.TrimSpace(c.Query("role"))); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var users []models.User
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetUser(c *fiber.Ctx) error {
	user, ok := loadUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched.", user)
}

// CreateUser lets an admin create an account with any role.
func CreateUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.AdminUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	username := strings.TrimSpace(*reqData.Username)
	email := strings.ToLower(strings.TrimSpace(*reqData.Email))

	if err := db.Where("username = ?", username).First(&models.User{}).Error; err == nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"username": "A user with that username already exists."})
	}
	if err := db.Where("email = ?", email).First(&models.User{}).Error; err == nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"email": "Email is already registered!"})
	}

	hashedPassword, err := utils.HashSecret(*reqData.Password, config.AppConfig.SaltRound)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	newUser := models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleStudent,
	}
	if reqData.Role != nil {
		newUser.Role = *reqData.Role
	}
	if reqData.FirstName != nil {
		newUser.FirstName = *reqData.FirstName
	}
	if reqData.LastName != nil {
		newUser.LastName = *reqData.LastName
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return authController.SeedPermissions(tx, newUser.Role, newUser.ID)
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("admin created user", "admin_id", middleware.CurrentUserID(c), "user_id", newUser.ID, "role", newUser.Role)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully.", newUser)
}

func UpdateUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.AdminUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	user, ok := loadUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	db := database.Database.Db
	if reqData.Username != nil {
		username := strings.TrimSpace(*reqData.Username)
		var count int64
		db.Model(&models.User{}).Where("username = ? AND id <> ?", username, user.ID).Count(&count)
		if count > 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"username": "A user with that username already exists."})
		}
		user.Username = username
	}
	if reqData.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*reqData.Email))
		var count int64
		db.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count)
		if count > 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"email": "Email is already registered!"})
		}
		user.Email = email
	}
	if reqData.Password != nil {
		hashed, err := utils.HashSecret(*reqData.Password, config.AppConfig.SaltRound)
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}
		user.Password = hashed
	}
	if reqData.FirstName != nil {
		user.FirstName = *reqData.FirstName
	}
	if reqData.LastName != nil {
		user.LastName = *reqData.LastName
	}

	roleChanged := reqData.Role != nil && *reqData.Role != user.Role
	if roleChanged {
		user.Role = *reqData.Role
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		if roleChanged {
			return authController.ReseedPermissions(tx, user.Role, user.ID)
		}
		return nil
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully.", user)
}

func DeleteUser(c *fiber.Ctx) error {
	user, ok := loadUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	if user.ID == middleware.CurrentUserID(c) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account.", nil)
	}

	if err := database.Database.Db.Model(user).Update("is_deleted", true).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully.", nil)
}

func PermissionByUserID(c *fiber.Ctx) error {
	user, ok := loadUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var permissions []string
	if err := database.Database.Db.Model(&models.Permission{}).
		Where("user_id = ? AND is_deleted = ?", user.ID, false).
		Pluck("permission", &permissions).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Permission list.", permissions)
}

func loadUser(c *fiber.Ctx) (*models.User, bool) {
	id, _ := c.Locals("id").(uint)
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}
