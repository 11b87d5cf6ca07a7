package server

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/auth"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/handlers"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/middleware"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/ws"
)

type Deps struct {
	Chat      *handlers.ChatHandler
	Items     *handlers.ItemHandler
	Media     *handlers.MediaHandler
	WS        *ws.Server
	Validator *auth.JWTValidator
	RateLimit *middleware.RateLimiter
}

func New(d Deps) *fiber.App {
	app := fiber.New()
	app.Use(fiberlogger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/v1")
	api.Use(middleware.JWTAuth(d.Validator))
	if d.RateLimit != nil {
		api.Use(d.RateLimit.ByUser())
	}

	api.Post("/conversations", d.Chat.OpenConversation)
	api.Get("/conversations", d.Chat.ListConversations)
	api.Get("/conversations/:id", d.Chat.GetConversation)
	api.Get("/conversations/:id/messages", d.Chat.ListMessages)
	api.Post("/conversations/:id/messages", d.Chat.SendMessage)
	api.Post("/conversations/:id/read", d.Chat.MarkRead)
	api.Put("/presence", d.Chat.SetPresence)
	api.Get("/presence/:id", d.Chat.GetPresence)
	api.Put("/profile/push-token", d.Chat.SavePushToken)
	api.Get("/profiles/:id", d.Chat.GetProfile)
	api.Get("/profiles/:id/push-token", d.Chat.GetPushToken)
	api.Post("/push", d.Chat.SendPush)

	api.Get("/items", d.Items.Browse)
	api.Get("/items/mine", d.Items.Mine)
	api.Get("/items/:id", d.Items.Get)
	api.Post("/items", d.Items.Create)
	api.Put("/items/:id", d.Items.Update)
	api.Delete("/items/:id", d.Items.Delete)

	if d.Media != nil {
		api.Post("/media/images", d.Media.UploadImage)
	}

	api.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("user_id", middleware.UserID(c))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/ws", websocket.New(d.WS.Handle))

	return app
}
