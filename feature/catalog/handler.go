package catalog

import (
	"errors"

	"bandori-index/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog preview.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes. Fixed paths come before the
// parameterized ones.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/assets", h.HandleAssets)
	group.Get("/data.json", h.HandleArtifact)
	group.Post("/reload", h.HandleReload)
	group.Get("/:kind", h.HandleIDs)
	group.Get("/:kind/:id", h.HandleRecord)
}

// HandleIDs returns the ids of one kind.
func (h *Handler) HandleIDs(c *fiber.Ctx) error {
	kind := c.Params("kind")
	ids, err := h.service.IDs(kind)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"kind": kind, "ids": ids})
}

// HandleRecord returns one decoded record.
func (h *Handler) HandleRecord(c *fiber.Ctx) error {
	rec, err := h.service.Record(c.Params("kind"), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rec)
}

// HandleAssets returns the asset manifest, optionally filtered by ?type=.
func (h *Handler) HandleAssets(c *fiber.Ctx) error {
	entries, err := h.service.Assets(c.Query("type"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(entries)
}

// HandleArtifact returns the artifact exactly as written by the build.
func (h *Handler) HandleArtifact(c *fiber.Ctx) error {
	raw, err := h.service.Artifact()
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(raw)
}

// HandleReload reloads the catalog from its source.
func (h *Handler) HandleReload(c *fiber.Ctx) error {
	if err := h.service.Load(c.Context()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "reloaded"})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnknownKind), errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrNotLoaded):
		status = fiber.StatusServiceUnavailable
	default:
		logger.WithRayID(h.service.logger, c).Error("Catalog request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
