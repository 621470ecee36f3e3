package handler

import (
	"errors"

	"loker/internal/delivery/http/dto"
	"loker/internal/delivery/http/middleware"
	"loker/internal/pkg/response"
	"loker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// mapUsecaseError turns the usecase error taxonomy into an AppError. Every
// authorization denial gets the same body regardless of its reason.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var quotaErr *usecase.QuotaExceededError
	switch {
	case errors.As(err, &quotaErr):
		data := dto.QuotaExceededData{
			CurrentCount: quotaErr.CurrentCount,
			MaxAllowed:   quotaErr.MaxAllowed,
			Subscription: string(quotaErr.Subscription),
		}
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageQuotaExceeded, data, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, usecase.ErrDuplicate):
		return middleware.NewAppError(fiber.StatusConflict, "Already exists", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
