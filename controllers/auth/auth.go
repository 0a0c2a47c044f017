package authController

import (
	"time"

	"lms/config"
	"lms/database"
	"lms/logger"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxFailedLogins  = 3
	loginBlockPeriod = time.Minute
	failedLoginReset = 15 * time.Minute
)

func Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("username = ?", reqData.Username).First(&models.User{}).Error; err == nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"username": "A user with that username already exists."})
	}
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"email": "Email is already registered!"})
	}

	hashedPassword, err := utils.HashSecret(reqData.Password, config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error("error hashing password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Username:  reqData.Username,
		Email:     reqData.Email,
		Password:  hashedPassword,
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
		Role:      reqData.Role,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return SeedPermissions(tx, newUser.Role, newUser.ID)
	})
	if err != nil {
		logger.Log.Error("error registering user", "username", newUser.Username, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	utils.SendWelcomeEmail(newUser.Email, newUser.FullName())

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

// SeedPermissions seeds default permissions for a given role and user ID
func SeedPermissions(db *gorm.DB, role string, userID uint) error {
	var permissionRecords []models.Permission
	for _, p := range models.DefaultPermissions(role) {
		permissionRecords = append(permissionRecords, models.Permission{
			UserID:     userID,
			Role:       role,
			Permission: p,
		})
	}
	return db.Create(&permissionRecords).Error
}

// ReseedPermissions replaces a user's permissions after a role change.
func ReseedPermissions(db *gorm.DB, role string, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Permission{}).Error; err != nil {
			return err
		}
		return SeedPermissions(tx, role, userID)
	})
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var user models.User
	var result *gorm.DB

	if reqData.Username != "" {
		result = db.Where("username = ? AND is_deleted = ?", reqData.Username, false).First(&user)
	} else {
		result = db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user)
	}
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	now := time.Now()
	if user.IsBlocked && user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > failedLoginReset {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
	}

	if !utils.CheckSecret(user.Password, reqData.Password) {
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now

		// Block user after 3 failed attempts
		if user.FailedLoginAttempts >= maxFailedLogins {
			user.IsBlocked = true
			unblockTime := now.Add(loginBlockPeriod)
			user.BlockedUntil = &unblockTime
			logger.Log.Warn("user blocked after failed logins", "user_id", user.ID)
		}

		if err := db.Save(&user).Error; err != nil {
			logger.Log.Error("error saving failed login", "user_id", user.ID, "error", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	user.LastLogin = &now
	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	user.IsBlocked = false
	user.BlockedUntil = nil
	if err := db.Save(&user).Error; err != nil {
		logger.Log.Error("error saving last login time", "user_id", user.ID, "error", err)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}
	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: now,
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		logger.Log.Error("error saving login tracking details", "user_id", user.ID, "error", err)
	}

	access, refresh, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":    user,
		"access":  access,
		"refresh": refresh,
	})
}

// Refresh trades a valid, unrevoked refresh token for a new access token.
func Refresh(c *fiber.Ctx) error {
	tokenString, _ := c.Locals("validatedToken").(string)

	claims, err := middleware.ParseToken(tokenString)
	if err != nil || claims.Type != middleware.TokenTypeRefresh {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Token is invalid or expired", nil)
	}

	db := database.Database.Db
	var revoked int64
	if err := db.Model(&models.RevokedToken{}).Where("jti = ?", claims.JTI).Count(&revoked).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if revoked > 0 {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Token is blacklisted", nil)
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", claims.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found", nil)
	}

	access, _, err := middleware.GenerateJWT(user.ID, user.Username, user.Role, middleware.TokenTypeAccess, config.AppConfig.AccessTokenTTL)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token refreshed.", fiber.Map{"access": access})
}

func Verify(c *fiber.Ctx) error {
	tokenString, _ := c.Locals("validatedToken").(string)
	if _, err := middleware.ParseToken(tokenString); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Token is invalid or expired", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token is valid.", fiber.Map{})
}

// Logout blacklists the caller's refresh token.
func Logout(c *fiber.Ctx) error {
	userId := middleware.CurrentUserID(c)
	tokenString, _ := c.Locals("validatedToken").(string)

	claims, err := middleware.ParseToken(tokenString)
	if err != nil || claims.Type != middleware.TokenTypeRefresh || claims.UserID != userId {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid token.", nil)
	}

	revoked := models.RevokedToken{JTI: claims.JTI, UserID: userId, ExpiresAt: claims.ExpiresAt}
	err = database.Database.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&revoked).Error
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully.", nil)
}

func GetProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched.", user)
}

// UpdateProfile changes email and names; id, username and role are read-only.
func UpdateProfile(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedProfile").(*authValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := currentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	db := database.Database.Db
	if reqData.Email != nil && *reqData.Email != user.Email {
		var count int64
		db.Model(&models.User{}).Where("email = ? AND id <> ?", *reqData.Email, user.ID).Count(&count)
		if count > 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"email": "Email is already registered!"})
		}
		user.Email = *reqData.Email
	}
	if reqData.FirstName != nil {
		user.FirstName = *reqData.FirstName
	}
	if reqData.LastName != nil {
		user.LastName = *reqData.LastName
	}

	if err := db.Save(user).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated.", user)
}

func LoginHistoryList(c *fiber.Ctx) error {
	userId := middleware.CurrentUserID(c)
	page, _ := c.Locals("page").(int)
	limit, _ := c.Locals("limit").(int)
	offset := (page - 1) * limit

	var loginTracking []models.LoginTracking
	var total int64

	db := database.Database.Db
	if err := db.Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("timestamp DESC").
		Offset(offset).
		Limit(limit).
		Find(&loginTracking).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	db.Model(&models.LoginTracking{}).Where("user_id = ? AND is_deleted = ?", userId, false).Count(&total)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", fiber.Map{
		"loginTracking": loginTracking,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// PasswordResetRequest issues a one-time token for the account behind an e-mail.
func PasswordResetRequest(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReset").(*authValidator.PasswordResetRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No user found with this email address.", nil)
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	hashed, err := utils.HashSecret(token, config.AppConfig.SaltRound)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	record := models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashed,
		ExpiresAt: time.Now().Add(config.AppConfig.ResetTokenTTL),
	}
	if err := db.Create(&record).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	utils.SendPasswordResetEmail(user.Email, user.FullName(), user.ID, token)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset token generated.", fiber.Map{
		"uid":   user.ID,
		"token": token,
	})
}

func PasswordResetConfirm(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReset").(*authValidator.PasswordResetConfirm)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", reqData.UID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID.", nil)
	}

	var candidates []models.PasswordResetToken
	if err := db.Where("user_id = ? AND is_used = ? AND is_deleted = ? AND expires_at > ?", user.ID, false, false, time.Now()).
		Order("id DESC").
		Find(&candidates).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var match *models.PasswordResetToken
	for i := range candidates {
		if utils.CheckSecret(candidates[i].TokenHash, reqData.Token) {
			match = &candidates[i]
			break
		}
	}
	if match == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired token.", nil)
	}

	hashed, err := utils.HashSecret(reqData.NewPassword, config.AppConfig.SaltRound)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"password":              hashed,
			"failed_login_attempts": 0,
			"is_blocked":            false,
			"blocked_until":         nil,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.PasswordResetToken{}).
			Where("user_id = ? AND is_used = ?", user.ID, false).
			Update("is_used", true).Error
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password has been reset successfully.", nil)
}

func currentUser(c *fiber.Ctx) (*models.User, error) {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", middleware.CurrentUserID(c), false).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
