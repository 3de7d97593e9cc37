package handlers

import (
	"sumula-system/middleware"
	"sumula-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes registers every route. Everything runs behind the user
// context middleware; the event is always selected via ?event_id=.
func SetupRoutes(app *fiber.App, sumulaService *services.SumulaService, eventService *services.EventService, playerService *services.PlayerService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Sumula lifecycle
	secured.Get("/sumula", sumulaService.GetSumulas)
	secured.Get("/sumula/ativas", sumulaService.GetActiveSumulas)
	secured.Get("/sumula/encerradas", sumulaService.GetFinishedSumulas)
	secured.Post("/sumula/classificatoria", sumulaService.CreateClassificatoria)
	secured.Put("/sumula/classificatoria", sumulaService.CloseClassificatoria)
	secured.Post("/sumula/imortal", sumulaService.CreateImortal)
	secured.Put("/sumula/imortal", sumulaService.CloseImortal)
	secured.Put("/sumula/add-referee", sumulaService.AddReferee)

	// Player-facing view
	secured.Get("/sumula/player", sumulaService.GetSumulasForPlayer)

	// Staff-facing player listing
	secured.Get("/players", playerService.ListPlayers)

	// Event administration
	secured.Get("/event", eventService.GetEvent)
	secured.Delete("/event", eventService.DeleteEvent)
	secured.Put("/event/token", eventService.RotateToken)
}
