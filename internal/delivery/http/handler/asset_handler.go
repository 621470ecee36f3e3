package handler

import (
	"strconv"
	"strings"
	"time"

	"loker/internal/delivery/http/dto"
	"loker/internal/delivery/http/middleware"
	"loker/internal/pkg/response"
	"loker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AssetHandler struct {
	uc usecase.AssetAccessUsecase
}

func NewAssetHandler(uc usecase.AssetAccessUsecase) *AssetHandler {
	return &AssetHandler{uc: uc}
}

// RegisterPublicRoutes mounts the temporary link resolver, which needs no
// session: the token is the credential.
func (h *AssetHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/assets/temp/:token", h.Resolve)
}

func (h *AssetHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/assets/:id/link", h.Link)
}

// Link handles POST /assets/:id/link?ttl=<seconds>&reuse=<bool>.
func (h *AssetHandler) Link(c fiber.Ctx) error {
	viewerID, role, err := callerFrom(c)
	if err != nil {
		return err
	}
	assetID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	req := usecase.LinkRequest{
		Viewer:  usecase.Viewer{ID: viewerID, Role: role},
		AssetID: assetID,
		Reuse:   true,
	}
	if raw := strings.TrimSpace(c.Query("ttl")); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid ttl", nil, err)
		}
		req.TTL = time.Duration(secs) * time.Second
	}
	if raw := strings.TrimSpace(c.Query("reuse")); raw != "" {
		reuse, err := strconv.ParseBool(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid reuse", nil, err)
		}
		req.Reuse = reuse
	}

	link, err := h.uc.BuildAccessLink(c.Context(), req)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.AssetLinkResponse{
		URL:       link.URL,
		TokenID:   link.TokenID,
		ExpiresAt: link.ExpiresAt,
	})
}

func (h *AssetHandler) Resolve(c fiber.Ctx) error {
	url, err := h.uc.ResolveToken(c.Context(), c.Params("token"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return c.Redirect().Status(fiber.StatusFound).To(url)
}
