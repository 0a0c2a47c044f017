package superAdminRoutes

import (
	controllers "lms/controllers/course"
	superAdminController "lms/controllers/superAdmin"
	"lms/middleware"
	"lms/models"
	"lms/validators"
	authValidators "lms/validators/auth"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupSuperAdminRoutes mounts admin user management under /auth/users and
// the dashboard under /admin.
func SetupSuperAdminRoutes(app *fiber.App) {
	usersGroup := app.Group("/auth/users", middleware.JWTMiddleware, middleware.AdminOnly, middleware.CheckPermissionMiddleware(models.PermManageUsers))

	usersGroup.Get("/", validators.PageQuery(), superAdminController.UserList)
	usersGroup.Post("/", authValidators.AdminUser(true), superAdminController.CreateUser)
	usersGroup.Get("/:id", courseValidators.IDParam("id"), superAdminController.GetUser)
	usersGroup.Put("/:id", courseValidators.IDParam("id"), authValidators.AdminUser(false), superAdminController.UpdateUser)
	usersGroup.Delete("/:id", courseValidators.IDParam("id"), superAdminController.DeleteUser)
	usersGroup.Get("/:id/permissions", courseValidators.IDParam("id"), superAdminController.PermissionByUserID)

	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Get("/dashboard/stats", controllers.AdminDashboardStats)
}
