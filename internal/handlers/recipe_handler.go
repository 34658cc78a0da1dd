package handlers

import (
	"resep/internal/middleware"
	"resep/internal/repositories"
	"resep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	service *services.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		service: service,
	}
}

// RegisterRoutes registers the recipe routes on an authenticated router.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router) {
	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Get("/", h.HandleListRecipes)
	recipeRoutes.Post("/", h.HandleCreateRecipe)
	recipeRoutes.Get("/:id", h.HandleGetRecipe)
	recipeRoutes.Put("/:id", h.HandleUpdateRecipe)
	recipeRoutes.Patch("/:id", h.HandleUpdateRecipe)
	recipeRoutes.Delete("/:id", h.HandleDeleteRecipe)
}

// HandleListRecipes lists the caller's recipes. The tags and ingredients
// query parameters take comma-separated ids.
func (h *RecipeHandler) HandleListRecipes(c *fiber.Ctx) error {
	filter := repositories.RecipeFilter{
		TagIDs:        parseIDList(c.Query("tags")),
		IngredientIDs: parseIDList(c.Query("ingredients")),
	}
	recipes, err := h.service.ListRecipes(c.UserContext(), middleware.CurrentUser(c).ID, filter)
	if err != nil {
		return respondError(c, err, "recipe listing")
	}

	out := make([]recipeSummary, 0, len(recipes))
	for i := range recipes {
		out = append(out, newRecipeSummary(&recipes[i]))
	}
	return c.JSON(out)
}

// HandleGetRecipe returns one of the caller's recipes.
func (h *RecipeHandler) HandleGetRecipe(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	recipe, err := h.service.GetRecipe(c.UserContext(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		return respondError(c, err, "recipe lookup")
	}
	return c.JSON(newRecipeDetail(recipe))
}

// HandleCreateRecipe creates a recipe with its nested tags and ingredients.
func (h *RecipeHandler) HandleCreateRecipe(c *fiber.Ctx) error {
	var req services.RecipeInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	recipe, err := h.service.CreateRecipe(c.UserContext(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return respondError(c, err, "recipe creation")
	}
	return c.Status(fiber.StatusCreated).JSON(newRecipeDetail(recipe))
}

// HandleUpdateRecipe serves both PUT (full) and PATCH (partial) updates.
func (h *RecipeHandler) HandleUpdateRecipe(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	var req services.RecipeInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	partial := c.Method() == fiber.MethodPatch
	recipe, err := h.service.UpdateRecipe(c.UserContext(), middleware.CurrentUser(c).ID, id, req, partial)
	if err != nil {
		return respondError(c, err, "recipe update")
	}
	return c.JSON(newRecipeDetail(recipe))
}

// HandleDeleteRecipe deletes one of the caller's recipes.
func (h *RecipeHandler) HandleDeleteRecipe(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c)
	}
	if err := h.service.DeleteRecipe(c.UserContext(), middleware.CurrentUser(c).ID, id); err != nil {
		return respondError(c, err, "recipe deletion")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
