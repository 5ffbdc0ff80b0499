package handler

import (
	"context"

	"github.com/JonesEri07/reqcheck-sub002/internal/database"
	"github.com/JonesEri07/reqcheck-sub002/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    database.DB
	cache Pinger
}

func NewHealthHandler(db database.DB, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

type healthResponse struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Health reports component status. The cache is optional infrastructure,
// so a down redis degrades the report without failing the check.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	res := healthResponse{Database: "ok", Cache: "ok"}

	if h.db == nil || h.db.Ping(c.Context()) != nil {
		res.Database = "down"
		return response.Error(c, fiber.StatusServiceUnavailable, "unhealthy", res)
	}

	if h.cache == nil || h.cache.Ping(c.Context()) != nil {
		res.Cache = "bypassed"
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}
