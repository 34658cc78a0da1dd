package handlers

import (
	"resep/internal/middleware"
	"resep/internal/repositories"
	"resep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AttributeHandler serves the tag or ingredient endpoints.
type AttributeHandler[T repositories.Attribute] struct {
	path    string
	kind    string
	service *services.AttributeService[T]
}

// NewAttributeHandler creates a handler mounted at path, e.g. "/tags".
func NewAttributeHandler[T repositories.Attribute](path, kind string, service *services.AttributeService[T]) *AttributeHandler[T] {
	return &AttributeHandler[T]{
		path:    path,
		kind:    kind,
		service: service,
	}
}

// RegisterRoutes registers the list, rename and delete routes.
func (h *AttributeHandler[T]) RegisterRoutes(router fiber.Router) {
	routes := router.Group(h.path)
	routes.Get("/", h.HandleList)
	routes.Put("/:id", h.HandleUpdate)
	routes.Patch("/:id", h.HandleUpdate)
	routes.Delete("/:id", h.HandleDelete)
}

// HandleList lists the caller's rows. assigned_only=1 keeps only rows used
// by at least one recipe.
func (h *AttributeHandler[T]) HandleList(c *fiber.Ctx) error {
	assignedOnly := parseFlag(c.Query("assigned_only"))
	rows, err := h.service.List(c.UserContext(), middleware.CurrentUser(c).ID, assignedOnly)
	if err != nil {
		return respondError(c, err, h.kind+" listing")
	}
	if rows == nil {
		rows = []T{}
	}
	return c.JSON(rows)
}

// HandleUpdate renames a row.
func (h *AttributeHandler[T]) HandleUpdate(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	var req services.AttributeInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	partial := c.Method() == fiber.MethodPatch
	row, err := h.service.Update(c.UserContext(), middleware.CurrentUser(c).ID, id, req, partial)
	if err != nil {
		return respondError(c, err, h.kind+" update")
	}
	return c.JSON(row)
}

// HandleDelete removes a row and detaches it from the caller's recipes.
func (h *AttributeHandler[T]) HandleDelete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	if err := h.service.Delete(c.UserContext(), middleware.CurrentUser(c).ID, id); err != nil {
		return respondError(c, err, h.kind+" deletion")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
