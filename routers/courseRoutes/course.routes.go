package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes mounts courses, modules, lessons, enrollment, progress and certificates.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/courses")

	// Courses: public reads
	courseGroup.Get("/", validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Post("/", middleware.JWTMiddleware, validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Get("/:id", validators.IDParam("id"), controllers.GetCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, validators.IDParam("id"), controllers.DeleteCourse)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.IDParam("id"), controllers.EnrollInCourse)
	courseGroup.Post("/:id/unenroll", middleware.JWTMiddleware, validators.IDParam("id"), controllers.UnenrollFromCourse)

	// Modules of a course
	courseGroup.Get("/:course_id/modules", validators.IDParam("course_id"), controllers.ListModules)
	courseGroup.Post("/:course_id/modules", middleware.JWTMiddleware, validators.CreateModule(), controllers.CreateModule)

	// Progress and certificate
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.IDParam("course_id"), controllers.CourseProgress)
	courseGroup.Get("/:course_id/certificate", middleware.JWTMiddleware, validators.IDParam("course_id"), controllers.GetCourseCertificate)

	moduleGroup := app.Group("/modules")
	moduleGroup.Get("/:id", validators.IDParam("id"), controllers.GetModule)
	moduleGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdateModule(), controllers.UpdateModule)
	moduleGroup.Delete("/:id", middleware.JWTMiddleware, validators.IDParam("id"), controllers.DeleteModule)
	moduleGroup.Get("/:module_id/lessons", validators.IDParam("module_id"), controllers.ListLessons)
	moduleGroup.Post("/:module_id/lessons", middleware.JWTMiddleware, validators.CreateLesson(), controllers.CreateLesson)

	lessonGroup := app.Group("/lessons")
	lessonGroup.Get("/:id", validators.IDParam("id"), controllers.GetLesson)
	lessonGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdateLesson(), controllers.UpdateLesson)
	lessonGroup.Delete("/:id", middleware.JWTMiddleware, validators.IDParam("id"), controllers.DeleteLesson)
	lessonGroup.Post("/:id/complete", middleware.JWTMiddleware, validators.IDParam("id"), controllers.MarkLessonComplete)

	studentGroup := app.Group("/students", middleware.JWTMiddleware)
	studentGroup.Get("/:student_id/enrollments", validators.IDParam("student_id"), controllers.GetStudentEnrollments)
	studentGroup.Get("/:student_id/progress", validators.StudentProgress(), controllers.StudentProgress)

	app.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
}
