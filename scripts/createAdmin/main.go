package main

import (
	"flag"
	"strings"

	"lms/config"
	authController "lms/controllers/auth"
	"lms/database"
	"lms/logger"
	"lms/models"
	"lms/utils"

	"gorm.io/gorm"
)

// Admins cannot self-register; this creates the first one.
func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin e-mail")
	password := flag.String("password", "", "admin password (min 8 characters)")
	flag.Parse()

	config.LoadConfig()
	if err := logger.Init(config.AppConfig.AppEnv); err != nil {
		panic(err)
	}
	defer logger.Log.Sync()

	if strings.TrimSpace(*email) == "" || len(*password) < 8 {
		logger.Log.Fatal("email is required and password must be at least 8 characters")
	}

	if err := database.ConnectDb(config.AppConfig); err != nil {
		logger.Log.Fatal("database connection failed", "error", err)
	}
	db := database.Database.Db

	var count int64
	db.Model(&models.User{}).Where("username = ? OR email = ?", *username, *email).Count(&count)
	if count > 0 {
		logger.Log.Fatal("a user with that username or email already exists", "username", *username)
	}

	hashed, err := utils.HashSecret(*password, config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Fatal("failed to hash password", "error", err)
	}

	admin := models.User{
		Username: strings.TrimSpace(*username),
		Email:    strings.ToLower(strings.TrimSpace(*email)),
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return authController.SeedPermissions(tx, admin.Role, admin.ID)
	})
	if err != nil {
		logger.Log.Fatal("failed to create admin", "error", err)
	}
	logger.Log.Info("admin created", "id", admin.ID, "username", admin.Username)
}
