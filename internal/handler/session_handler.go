package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skillcheck-go-api/internal/dto"
	"github.com/noah-isme/skillcheck-go-api/internal/service"
	"github.com/noah-isme/skillcheck-go-api/internal/utils"
)

// SessionHandler serves the guided assessment session endpoints.
type SessionHandler struct {
	service       service.SessionService
	logger        zerolog.Logger
	includeDetail bool
}

// NewSessionHandler constructs the handler instance.
func NewSessionHandler(service service.SessionService, logger zerolog.Logger, includeDetail bool) *SessionHandler {
	return &SessionHandler{
		service:       service,
		logger:        logger.With().Str("component", "session_handler").Logger(),
		includeDetail: includeDetail,
	}
}

// Register wires the session routes.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Post("", h.start)
	router.Get("/:id", h.get)
	router.Post("/:id/answers", h.answer)
}

func (h *SessionHandler) start(c *fiber.Ctx) error {
	var payload dto.SessionStartRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	session, err := h.service.Start(c.Context(), payload, ownerKeyFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "session started", session)
}

func (h *SessionHandler) get(c *fiber.Ctx) error {
	session, err := h.service.Get(c.Context(), c.Params("id"), ownerKeyFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "session retrieved", session)
}

func (h *SessionHandler) answer(c *fiber.Ctx) error {
	var payload dto.SessionAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	session, err := h.service.Advance(c.Context(), c.Params("id"), payload, ownerKeyFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer recorded", session)
}

func (h *SessionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrSessionCompleted):
		return utils.SendError(c, fiber.StatusConflict, "session already completed")
	case errors.Is(err, service.ErrNoChallengeOutstanding):
		return utils.SendError(c, fiber.StatusConflict, "no challenge outstanding")
	}
	if f, ok := faultOf(err); ok {
		return sendFault(c, f, h.includeDetail)
	}
	requestLogger(h.logger, c).Error().Err(err).Msg("session operation failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "session operation failed")
}
