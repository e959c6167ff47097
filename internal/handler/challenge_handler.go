package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skillcheck-go-api/internal/dto"
	"github.com/noah-isme/skillcheck-go-api/internal/service"
	"github.com/noah-isme/skillcheck-go-api/internal/utils"
)

// ChallengeHandler serves the challenge generation endpoint.
type ChallengeHandler struct {
	service       service.ChallengeService
	logger        zerolog.Logger
	includeDetail bool
}

// NewChallengeHandler constructs the handler instance.
func NewChallengeHandler(service service.ChallengeService, logger zerolog.Logger, includeDetail bool) *ChallengeHandler {
	return &ChallengeHandler{
		service:       service,
		logger:        logger.With().Str("component", "challenge_handler").Logger(),
		includeDetail: includeDetail,
	}
}

// Register wires the challenge routes.
func (h *ChallengeHandler) Register(router fiber.Router) {
	router.Post("", h.generate)
}

func (h *ChallengeHandler) generate(c *fiber.Ctx) error {
	var payload dto.GenerateChallengeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	challenges, err := h.service.Generate(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "challenges generated", dto.NewChallengeResponseSlice(challenges))
}

func (h *ChallengeHandler) handleError(c *fiber.Ctx, err error) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if f, ok := faultOf(err); ok {
		return sendFault(c, f, h.includeDetail)
	}
	requestLogger(h.logger, c).Error().Err(err).Msg("failed to generate challenges")
	return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate challenges")
}
