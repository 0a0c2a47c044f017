package reviewRoutes

import (
	reviewController "lms/controllers/review"
	"lms/middleware"
	"lms/models"
	"lms/validators"
	courseValidators "lms/validators/course"
	reviewValidators "lms/validators/review"

	"github.com/gofiber/fiber/v2"
)

func SetupReviewRoutes(app *fiber.App) {
	app.Get("/courses/:course_id/reviews", courseValidators.IDParam("course_id"), validators.PageQuery(), reviewController.CourseReviews)
	app.Post("/courses/:course_id/reviews", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware(models.PermWriteReview),
		reviewValidators.CreateReview(), reviewController.SubmitReview)

	reviewGroup := app.Group("/reviews")
	reviewGroup.Get("/:id", courseValidators.IDParam("id"), reviewController.GetReview)
	reviewGroup.Put("/:id", middleware.JWTMiddleware, reviewValidators.UpdateReview(), reviewController.UpdateReview)
	reviewGroup.Delete("/:id", middleware.JWTMiddleware, courseValidators.IDParam("id"), reviewController.DeleteReview)
}
