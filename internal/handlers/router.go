package handlers

import (
	"attendtrack/internal/app"
	"attendtrack/internal/handlers/middleware"
	"attendtrack/internal/logger"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

// NewServer builds the fiber app with every route registered.
func NewServer(app *app.App) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:   "attendtrack",
		BodyLimit: max(app.Config.ImportMaxUploadMB, 1) * 1024 * 1024,
	})

	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(app.Config.AllowedOrigins(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.IdentityHeader,
	}))

	Router(server, app)
	return server
}

func Router(router fiber.Router, app *app.App) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewImportHandler(*app, api).Register()
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
