package repositories

import (
	"context"

	"resep/internal/models"
)

// Attribute constrains the per-user name records a recipe links to.
type Attribute interface {
	*models.Tag | *models.Ingredient
	GetID() uint
}

// AttributeRepository defines owner-scoped data access for tags and ingredients.
type AttributeRepository[T Attribute] interface {
	// List returns the owner's rows ordered by name descending. With
	// assignedOnly set, only rows linked to at least one of the owner's
	// recipes are returned, each once.
	List(ctx context.Context, userID uint, assignedOnly bool) ([]T, error)
	GetByID(ctx context.Context, userID, id uint) (T, error)
	// FindOrCreate returns the owner's row with exactly this name, creating
	// it when missing. Concurrent callers always end up with the same row.
	FindOrCreate(ctx context.Context, userID uint, name string) (T, error)
	Rename(ctx context.Context, userID, id uint, name string) (T, error)
	Delete(ctx context.Context, userID, id uint) error
}
