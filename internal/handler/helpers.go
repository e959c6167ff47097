package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skillcheck-go-api/internal/fault"
	"github.com/noah-isme/skillcheck-go-api/internal/middleware"
	"github.com/noah-isme/skillcheck-go-api/internal/utils"
)

// ownerKeyFromContext returns the opaque owner key the auth middleware bound to
// the request, or an empty string for anonymous traffic.
func ownerKeyFromContext(c *fiber.Ctx) string {
	if v := c.Locals("owner_key"); v != nil {
		if key, ok := v.(string); ok {
			return strings.TrimSpace(key)
		}
	}
	return ""
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendFault maps an engine fault onto the HTTP surface. Transport faults never
// leak internal error text; normalization and schema faults expose their debug
// detail only outside production.
func sendFault(c *fiber.Ctx, f *fault.Fault, includeDetail bool) error {
	switch f.Kind {
	case fault.KindTransport:
		return utils.SendErrorKind(c, fiber.StatusBadGateway, string(f.Kind), f.Message)
	case fault.KindNormalization, fault.KindSchemaMismatch:
		message := f.Message
		if includeDetail && f.Detail != "" {
			message = message + ": " + f.Detail
		}
		return utils.SendErrorKind(c, fiber.StatusBadGateway, string(f.Kind), message)
	case fault.KindPersistence:
		return utils.SendErrorKind(c, fiber.StatusInternalServerError, string(f.Kind), f.Message)
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func faultOf(err error) (*fault.Fault, bool) {
	var f *fault.Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
