package progressRoutes

import (
	"medintern/config"
	controllers "medintern/controllers/progress"
	"medintern/middleware"
	validators "medintern/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up all course progress routes
func SetupProgressRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Enrollment happens implicitly on the first progress fetch
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseParam(), controllers.GetCourseProgress)
	courseGroup.Get("/:id/summary", middleware.JWTMiddleware, validators.CourseParam(), controllers.GetProgressSummary)

	// Video completion
	courseGroup.Post("/:id/video/:video_id/complete", middleware.JWTMiddleware, validators.CompleteVideo(), controllers.SubmitVideoCompletion)

	// Quiz and final assessment submission
	courseGroup.Post("/:id/quiz/:quiz_id/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuiz)
	courseGroup.Post("/:id/assessment/submit", middleware.JWTMiddleware, validators.SubmitAssessment(), controllers.SubmitFinalAssessment)

	// Certificate
	courseGroup.Get("/:id/certificate", middleware.JWTMiddleware, validators.CourseParam(), controllers.GetCertificate)

	// Admin override for locked-out interns
	courseGroup.Post("/:id/quiz/:quiz_id/reset",
		middleware.JWTMiddleware,
		middleware.RequireRole(config.AppConfig.QuizResetRole),
		validators.ResetQuiz(),
		controllers.ResetQuizAttempts)
}
