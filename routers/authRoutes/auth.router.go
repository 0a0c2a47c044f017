package authRoutes

import (
	authControllers "lms/controllers/auth"
	"lms/middleware"
	"lms/validators"
	authValidators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Post("/refresh", authValidators.Token("refresh"), authControllers.Refresh)
	authGroup.Post("/verify", authValidators.Token("token"), authControllers.Verify)
	authGroup.Post("/logout", middleware.JWTMiddleware, authValidators.Token("refresh"), authControllers.Logout)

	authGroup.Get("/profile", middleware.JWTMiddleware, authControllers.GetProfile)
	authGroup.Put("/profile", middleware.JWTMiddleware, authValidators.UpdateProfile(), authControllers.UpdateProfile)
	authGroup.Get("/login/history", middleware.JWTMiddleware, validators.PageQuery(), authControllers.LoginHistoryList)

	authGroup.Post("/password-reset/request", authValidators.PasswordReset(), authControllers.PasswordResetRequest)
	authGroup.Post("/password-reset/confirm", authValidators.PasswordResetConfirmation(), authControllers.PasswordResetConfirm)
}
