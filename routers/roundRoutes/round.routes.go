package roundRoutes

import (
	controllers "medintern/controllers/round"
	"medintern/middleware"
	validators "medintern/validators/round"

	"github.com/gofiber/fiber/v2"
)

// SetupRoundRoutes sets up the internship round routes
func SetupRoundRoutes(app *fiber.App) {
	roundGroup := app.Group("/round")

	roundGroup.Get("/list", middleware.JWTMiddleware, validators.RoundList(), controllers.GetRounds)
}
