package main

import (
	"log"

	"medintern/config"
	progressControllers "medintern/controllers/progress"
	"medintern/database"
	courseRoutes "medintern/routers/courseRoutes"
	progressRoutes "medintern/routers/progressRoutes"
	roundRoutes "medintern/routers/roundRoutes"
	"medintern/store"
	"medintern/utils"

	"medintern/progress"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// Wire the progress engine against the database-backed collaborators
	db := database.Database.Db
	engine := progress.NewEngine(
		store.NewProgressStore(db),
		store.NewContentProvider(db),
		store.NewCertificateIssuer(config.AppConfig.CertificateBasePath, config.AppConfig.CertificateRenderURL),
	)
	progressControllers.SetupEngine(engine)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve generated certificates from the public folder
	app.Static("/certificates", "./public/certificates")

	courseRoutes.SetupCourseRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	roundRoutes.SetupRoundRoutes(app)

	utils.InitializeRoundScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
