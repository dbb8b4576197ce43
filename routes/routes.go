package routes

import (
	"log"
	"os"

	controller "kantodex/controllers"
	"kantodex/middleware"
	"kantodex/models"
	"kantodex/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	auth.Post("/register", controller.Register)
	auth.Post("/login", middleware.LoginRateLimiter(), controller.Login)
	auth.Post("/refresh", controller.RefreshToken)

	protectedAuth := auth.Group("", middleware.Protected())
	protectedAuth.Get("/me", controller.GetCurrentUser)
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB, hub *worker.MedicalHub) {
	pokedexController := controller.NewPokedexController(db, log.New(os.Stdout, "POKEDEX: ", log.LstdFlags))
	collectionController := controller.NewCollectionController(db, log.New(os.Stdout, "COLLECTION: ", log.LstdFlags))
	teamController := controller.NewTeamController(db, log.New(os.Stdout, "TEAM: ", log.LstdFlags))
	medicalController := controller.NewMedicalController(db, log.New(os.Stdout, "MEDICAL: ", log.LstdFlags), hub)

	requestLog := logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	})

	// Catalog endpoints are public.
	pokemon := app.Group("/pokemon", requestLog)
	pokemon.Get("/", pokedexController.ListPokemon)
	pokemon.Get("/:id", pokedexController.GetPokemon)

	// Collection and teams belong to trainers.
	collection := app.Group("/collection", requestLog, middleware.Protected(), middleware.RequireRole(models.RoleTrainer))
	collection.Get("/", collectionController.GetCollection)
	collection.Post("/", collectionController.AddEntry)
	collection.Patch("/:id", collectionController.UpdateEntry)
	collection.Delete("/:id", collectionController.DeleteEntry)

	teams := app.Group("/teams", requestLog, middleware.Protected(), middleware.RequireRole(models.RoleTrainer))
	teams.Get("/", teamController.GetTeams)
	teams.Post("/", teamController.CreateTeam)
	teams.Patch("/:id", teamController.UpdateTeam)
	teams.Delete("/:id", teamController.DeleteTeam)
	teams.Post("/:id/members", teamController.AddMember)
	teams.Delete("/:id/members", teamController.RemoveMember)

	// The medical board is healer-only. Support lookups register before
	// the :id routes so fiber matches them first.
	medical := app.Group("/medical", requestLog, middleware.Protected(), middleware.RequireRole(models.RoleHealer))
	medical.Get("/trainers", medicalController.GetTrainers)
	medical.Get("/pokecenters", medicalController.GetPokeCenters)
	medical.Get("/live", websocket.New(controller.HandleMedicalLiveWS(hub)))
	medical.Get("/", medicalController.GetRecords)
	medical.Post("/", medicalController.CreateRecord)
	medical.Patch("/:id", medicalController.UpdateRecord)
	medical.Delete("/:id", medicalController.DeleteRecord)
}

func SetupRoutes(app *fiber.App, db *gorm.DB, hub *worker.MedicalHub) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	SetupAuthRoutes(app)
	SetupAPIRoutes(app, db, hub)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not Found",
		})
	})
}
