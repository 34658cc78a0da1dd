package repositories

import (
	"context"

	"resep/internal/models"
)

// RecipeFilter narrows a recipe listing. Empty id sets do not filter.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeRepository defines the interface for recipe data access. Every
// method is scoped to the owning user.
type RecipeRepository interface {
	List(ctx context.Context, userID uint, filter RecipeFilter) ([]models.Recipe, error)
	GetByID(ctx context.Context, userID, id uint) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, userID, id uint) error
	// SetTags and SetIngredients replace the recipe's links with exactly
	// the given ids.
	SetTags(ctx context.Context, recipeID uint, tagIDs []uint) error
	SetIngredients(ctx context.Context, recipeID uint, ingredientIDs []uint) error
}
