package app

import (
	"fmt"
	"strings"

	"github.com/JonesEri07/reqcheck-sub002/internal/delivery/http/handler"
	"github.com/JonesEri07/reqcheck-sub002/internal/delivery/http/middleware"
	"github.com/JonesEri07/reqcheck-sub002/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container and the fiber app with all routes and
// middleware registered. The returned cleanup closes shared resources.
func Bootstrap(c *Container) (*App, func() error, error) {
	if c == nil {
		return nil, nil, fmt.Errorf("nil container")
	}

	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	errMw := middleware.NewErrorMiddleware(c.Logger)
	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	f.Use(errMw.Middleware())
	f.Use(accessMw.Middleware())

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		handler.NewSyncHandler(c.SyncUC),
	)
	registry.Register(f)

	app := &App{Fiber: f, Container: c}
	return app, c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
