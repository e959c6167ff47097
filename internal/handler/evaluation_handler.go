package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skillcheck-go-api/internal/dto"
	"github.com/noah-isme/skillcheck-go-api/internal/service"
	"github.com/noah-isme/skillcheck-go-api/internal/utils"
)

// EvaluationHandler serves single and batch answer grading.
type EvaluationHandler struct {
	service       service.EvaluationService
	logger        zerolog.Logger
	includeDetail bool
}

// NewEvaluationHandler constructs the handler instance.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger, includeDetail bool) *EvaluationHandler {
	return &EvaluationHandler{
		service:       service,
		logger:        logger.With().Str("component", "evaluation_handler").Logger(),
		includeDetail: includeDetail,
	}
}

// Register wires the evaluation routes.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("", h.evaluate)
	router.Post("/batch", h.evaluateBatch)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.SubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Evaluate(c.Context(), payload, ownerKeyFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer evaluated", dto.NewEvaluationResponse(result))
}

func (h *EvaluationHandler) evaluateBatch(c *fiber.Ctx) error {
	var payload dto.BatchEvaluateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	results, err := h.service.EvaluateBatch(c.Context(), payload, ownerKeyFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answers evaluated", dto.NewEvaluationResponseSlice(results))
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if f, ok := faultOf(err); ok {
		return sendFault(c, f, h.includeDetail)
	}
	requestLogger(h.logger, c).Error().Err(err).Msg("failed to evaluate answers")
	return utils.SendError(c, fiber.StatusInternalServerError, "failed to evaluate answers")
}
