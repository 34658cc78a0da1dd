package services

import (
	"context"
	"fmt"

	"resep/internal/models"
	"resep/internal/repositories"
)

// syncRelations makes the recipe's tags and ingredients match the payload
// lists. A nil list leaves that relation untouched; an empty one clears it.
// It must run inside the same transaction as the recipe write.
func syncRelations(ctx context.Context, tx repositories.Store, recipe *models.Recipe, tags, ingredients *[]string) error {
	if tags != nil {
		ids, err := resolveNames(ctx, tx.Tags(), recipe.UserID, *tags)
		if err != nil {
			return fmt.Errorf("failed to resolve tags: %w", err)
		}
		if err := tx.Recipes().SetTags(ctx, recipe.ID, ids); err != nil {
			return err
		}
	}
	if ingredients != nil {
		ids, err := resolveNames(ctx, tx.Ingredients(), recipe.UserID, *ingredients)
		if err != nil {
			return fmt.Errorf("failed to resolve ingredients: %w", err)
		}
		if err := tx.Recipes().SetIngredients(ctx, recipe.ID, ids); err != nil {
			return err
		}
	}
	return nil
}

// resolveNames finds or creates one owner row per distinct name and returns
// their ids in first-seen order.
func resolveNames[T repositories.Attribute](ctx context.Context, repo repositories.AttributeRepository[T], userID uint, names []string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		row, err := repo.FindOrCreate(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, row.GetID())
	}
	return ids, nil
}
