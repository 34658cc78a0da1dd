package repositories

import (
	"context"
	"errors"
	"fmt"

	"resep/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

func preloadRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name, tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredients.name, ingredients.id") })
}

// List retrieves the user's recipes, newest first. Each filter id set
// matches recipes linked to at least one of its ids; both sets must match
// when given. EXISTS subqueries keep every recipe in the result once.
func (r *GORMRecipeRepository) List(ctx context.Context, userID uint, filter RecipeFilter) ([]models.Recipe, error) {
	query := r.db.WithContext(ctx).Where("recipes.user_id = ?", userID)
	if len(filter.TagIDs) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = recipes.id AND rt.tag_id IN ?)",
			filter.TagIDs,
		)
	}
	if len(filter.IngredientIDs) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = recipes.id AND ri.ingredient_id IN ?)",
			filter.IngredientIDs,
		)
	}

	var recipes []models.Recipe
	if err := preloadRelations(query).Order("recipes.id DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// GetByID retrieves a recipe with its tags and ingredients. A recipe owned
// by someone else is reported as not found.
func (r *GORMRecipeRepository) GetByID(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := preloadRelations(r.db.WithContext(ctx)).
		Where("user_id = ? AND id = ?", userID, id).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recipe by ID %d: %w", id, err)
	}
	return &recipe, nil
}

// Create inserts the recipe's own columns. Links are written by SetTags
// and SetIngredients.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// Update saves the recipe's own columns.
func (r *GORMRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	res := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("user_id = ? AND id = ?", recipe.UserID, recipe.ID).
		Updates(map[string]interface{}{
			"title":        recipe.Title,
			"description":  recipe.Description,
			"time_minutes": recipe.TimeMinutes,
			"price_cents":  recipe.Price,
			"link":         recipe.Link,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recipe with ID %d: %w", recipe.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the recipe and its links. Tags and ingredients stay.
func (r *GORMRecipeRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND id = ?", userID, id).Delete(&models.Recipe{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("recipe with ID %d: %w", id, ErrNotFound)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
			return fmt.Errorf("failed to unlink recipe tags: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to unlink recipe ingredients: %w", err)
		}
		return nil
	})
}

// SetTags implements RecipeRepository.
func (r *GORMRecipeRepository) SetTags(ctx context.Context, recipeID uint, tagIDs []uint) error {
	return replaceLinks(r.db.WithContext(ctx), "tag_id", recipeID, tagIDs, func(id uint) models.RecipeTag {
		return models.RecipeTag{RecipeID: recipeID, TagID: id}
	})
}

// SetIngredients implements RecipeRepository.
func (r *GORMRecipeRepository) SetIngredients(ctx context.Context, recipeID uint, ingredientIDs []uint) error {
	return replaceLinks(r.db.WithContext(ctx), "ingredient_id", recipeID, ingredientIDs, func(id uint) models.RecipeIngredient {
		return models.RecipeIngredient{RecipeID: recipeID, IngredientID: id}
	})
}
