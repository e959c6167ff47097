package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/skillcheck-go-api/internal/config"
	"github.com/noah-isme/skillcheck-go-api/internal/handler"
	"github.com/noah-isme/skillcheck-go-api/internal/middleware"
	"github.com/noah-isme/skillcheck-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ChallengeHandler  *handler.ChallengeHandler
	EvaluationHandler *handler.EvaluationHandler
	SessionHandler    *handler.SessionHandler
	HistoryHandler    *handler.HistoryHandler
	LiveHandler       *handler.LiveHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Generation and grading lean on the model gateway, so both carry a
	// per-owner limiter on top of auth.
	if deps.ChallengeHandler != nil {
		challenges := api.Group("/challenges", jwtMiddleware, middleware.RateLimit("challenges", 30, time.Minute))
		deps.ChallengeHandler.Register(challenges)
	}

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations", jwtMiddleware, middleware.RateLimit("evaluations", 60, time.Minute))
		deps.EvaluationHandler.Register(evaluations)
	}

	if deps.SessionHandler != nil {
		sessions := api.Group("/sessions", jwtMiddleware)
		deps.SessionHandler.Register(sessions)
	}

	if deps.HistoryHandler != nil {
		history := api.Group("/history", jwtMiddleware)
		deps.HistoryHandler.Register(history)
	}

	if deps.LiveHandler != nil {
		live := app.Group("/ws", jwtMiddleware)
		deps.LiveHandler.Register(live)
	}
}
