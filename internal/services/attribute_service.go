package services

import (
	"context"
	"strings"

	"resep/internal/models"
	"resep/internal/repositories"
)

// AttributeInput is the payload for renaming a tag or ingredient.
type AttributeInput struct {
	Name *string `json:"name"`
}

// AttributeService manages a user's tags or ingredients directly. Creation
// only happens through recipe payloads.
type AttributeService[T repositories.Attribute] struct {
	repo repositories.AttributeRepository[T]
}

// NewTagService creates an AttributeService for tags.
func NewTagService(store repositories.Store) *AttributeService[*models.Tag] {
	return &AttributeService[*models.Tag]{repo: store.Tags()}
}

// NewIngredientService creates an AttributeService for ingredients.
func NewIngredientService(store repositories.Store) *AttributeService[*models.Ingredient] {
	return &AttributeService[*models.Ingredient]{repo: store.Ingredients()}
}

// List returns the user's rows ordered by name descending.
func (s *AttributeService[T]) List(ctx context.Context, userID uint, assignedOnly bool) ([]T, error) {
	return s.repo.List(ctx, userID, assignedOnly)
}

// Update renames one of the user's rows. With partial set an absent name
// leaves the row unchanged.
func (s *AttributeService[T]) Update(ctx context.Context, userID, id uint, in AttributeInput, partial bool) (T, error) {
	if in.Name == nil {
		if partial {
			return s.repo.GetByID(ctx, userID, id)
		}
		return nil, &ValidationError{Fields: map[string]string{"name": "is required"}}
	}

	name := *in.Name
	ve := &ValidationError{}
	switch {
	case strings.TrimSpace(name) == "":
		ve.add("name", "may not be blank")
	case len(name) > maxNameLength:
		ve.add("name", "must not exceed 255 characters")
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}
	return s.repo.Rename(ctx, userID, id, name)
}

// Delete removes one of the user's rows and detaches it from every recipe.
func (s *AttributeService[T]) Delete(ctx context.Context, userID, id uint) error {
	return s.repo.Delete(ctx, userID, id)
}
