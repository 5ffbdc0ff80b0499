package routes

import (
	"github.com/JonesEri07/reqcheck-sub002/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	sync   *handler.SyncHandler
}

func NewRegistry(health *handler.HealthHandler, sync *handler.SyncHandler) *Registry {
	return &Registry{health: health, sync: sync}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	r.sync.RegisterRoutes(api.Group("/v1"))
}
