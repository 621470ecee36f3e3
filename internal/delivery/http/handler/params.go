package handler

import (
	"strconv"
	"strings"

	"loker/internal/delivery/http/middleware"
	"loker/internal/domain/account"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func callerFrom(c fiber.Ctx) (uuid.UUID, account.Role, error) {
	id, role, ok := middleware.Caller(c)
	if !ok {
		return uuid.Nil, "", middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return id, role, nil
}

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}

// intQuery returns 0 when the key is absent.
func intQuery(c fiber.Ctx, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return v, nil
}

func csvQuery(c fiber.Ctx, name string) []string {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
