package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skillcheck-go-api/internal/service"
	"github.com/noah-isme/skillcheck-go-api/internal/utils"
)

// HistoryHandler serves the append-only assessment history.
type HistoryHandler struct {
	service service.HistoryService
	logger  zerolog.Logger
}

// NewHistoryHandler constructs the handler instance.
func NewHistoryHandler(service service.HistoryService, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger.With().Str("component", "history_handler").Logger(),
	}
}

// Register wires the history routes.
func (h *HistoryHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *HistoryHandler) list(c *fiber.Ctx) error {
	ownerKey := ownerKeyFromContext(c)
	if ownerKey == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	records, err := h.service.ListByOwner(c.Context(), ownerKey)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch history")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch history")
	}

	return utils.SendSuccess(c, "history retrieved", records)
}
