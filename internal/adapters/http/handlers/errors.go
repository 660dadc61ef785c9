package handlers

import (
	"errors"

	"library-lending/internal/core/domain"
	"library-lending/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps a service error onto the JSON envelope.
// Unknown errors are logged and answered with a generic 500.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid input")
	case errors.Is(err, domain.ErrWeakPassword):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, domain.ErrBookNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrLoanNotFound),
		errors.Is(err, domain.ErrLibrarianNotFound):
		return response.NotFound(c, capitalize(err.Error()))
	case errors.Is(err, domain.ErrLibrarianExists),
		errors.Is(err, domain.ErrMemberEmailTaken),
		errors.Is(err, domain.ErrLoanAlreadyReturned):
		return response.Conflict(c, capitalize(err.Error()))
	}

	logger.Error(fallback,
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Bool("infrastructure", domain.IsInfrastructure(err)),
		zap.Error(err),
	)
	return response.InternalServerError(c, fallback)
}

// declineStatus is the HTTP status for a refused loan
func declineStatus(reason domain.DeclineReason) int {
	switch reason {
	case domain.DeclineBookNotFound, domain.DeclineMemberNotFound:
		return fiber.StatusNotFound
	case domain.DeclineLimitExceeded:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusUnprocessableEntity
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// pathID reads a positive numeric route parameter
func pathID(c *fiber.Ctx, key string) (uint, bool) {
	id, err := c.ParamsInt(key)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
