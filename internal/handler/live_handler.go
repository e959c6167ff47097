package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skillcheck-go-api/internal/service"
)

// LiveHandler wires the websocket upgrade for interactive assessment sessions.
type LiveHandler struct {
	service service.LiveSessionService
	logger  zerolog.Logger
}

// NewLiveHandler creates a live session handler instance.
func NewLiveHandler(service service.LiveSessionService, logger zerolog.Logger) *LiveHandler {
	return &LiveHandler{
		service: service,
		logger:  logger.With().Str("component", "live_handler").Logger(),
	}
}

// Register binds the live session routes under the provided router group.
func (h *LiveHandler) Register(router fiber.Router) {
	router.Use("/sessions/:id", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/sessions/:id", websocket.New(h.handleConnection))
}

func (h *LiveHandler) handleConnection(conn *websocket.Conn) {
	sessionID := strings.TrimSpace(conn.Params("id"))
	if sessionID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "session id required"))
		_ = conn.Close()
		return
	}

	ownerKey, _ := conn.Locals("owner_key").(string)
	baseCtx, _ := conn.Locals("request_ctx").(context.Context)
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	h.logger.Info().Str("session_id", sessionID).Msg("live session connected")
	h.service.ServeConnection(conn, service.LiveConnectionOptions{
		SessionID: sessionID,
		OwnerKey:  ownerKey,
		Context:   baseCtx,
	})
	h.logger.Info().Str("session_id", sessionID).Msg("live session disconnected")
}
