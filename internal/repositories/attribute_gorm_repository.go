package repositories

import (
	"context"
	"errors"
	"fmt"

	"resep/internal/models"

	"gorm.io/gorm"
)

// attributeTable describes where a kind of attribute lives.
type attributeTable struct {
	kind       string // used in error messages
	table      string
	joinTable  string
	joinColumn string
}

var (
	tagTable = attributeTable{
		kind:       "tag",
		table:      "tags",
		joinTable:  "recipe_tags",
		joinColumn: "tag_id",
	}
	ingredientTable = attributeTable{
		kind:       "ingredient",
		table:      "ingredients",
		joinTable:  "recipe_ingredients",
		joinColumn: "ingredient_id",
	}
)

// GORMAttributeRepository is a GORM implementation of AttributeRepository.
type GORMAttributeRepository[T Attribute] struct {
	db    *gorm.DB
	meta  attributeTable
	build func(userID uint, name string) T
}

// NewGORMTagRepository creates a tag repository.
func NewGORMTagRepository(db *gorm.DB) *GORMAttributeRepository[*models.Tag] {
	return &GORMAttributeRepository[*models.Tag]{db: db, meta: tagTable, build: models.NewTag}
}

// NewGORMIngredientRepository creates an ingredient repository.
func NewGORMIngredientRepository(db *gorm.DB) *GORMAttributeRepository[*models.Ingredient] {
	return &GORMAttributeRepository[*models.Ingredient]{db: db, meta: ingredientTable, build: models.NewIngredient}
}

// List implements AttributeRepository.
func (r *GORMAttributeRepository[T]) List(ctx context.Context, userID uint, assignedOnly bool) ([]T, error) {
	query := r.db.WithContext(ctx).
		Table(r.meta.table).
		Where(r.meta.table+".user_id = ?", userID)
	if assignedOnly {
		// EXISTS keeps each row once no matter how many recipes use it.
		query = query.Where(
			"EXISTS (SELECT 1 FROM "+r.meta.joinTable+" j"+
				" JOIN recipes ON recipes.id = j.recipe_id"+
				" WHERE j."+r.meta.joinColumn+" = "+r.meta.table+".id AND recipes.user_id = ?)",
			userID,
		)
	}

	var rows []T
	err := query.
		Order(r.meta.table + ".name DESC").
		Order(r.meta.table + ".id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", r.meta.kind, err)
	}
	return rows, nil
}

// GetByID implements AttributeRepository.
func (r *GORMAttributeRepository[T]) GetByID(ctx context.Context, userID, id uint) (T, error) {
	row := r.build(0, "")
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s with ID %d: %w", r.meta.kind, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s by ID %d: %w", r.meta.kind, id, err)
	}
	return row, nil
}

// FindOrCreate implements AttributeRepository.
func (r *GORMAttributeRepository[T]) FindOrCreate(ctx context.Context, userID uint, name string) (T, error) {
	row, err := r.findByName(ctx, userID, name)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return r.createOrReread(ctx, userID, name)
}

func (r *GORMAttributeRepository[T]) findByName(ctx context.Context, userID uint, name string) (T, error) {
	row := r.build(0, "")
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %q: %w", r.meta.kind, name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find %s %q: %w", r.meta.kind, name, err)
	}
	return row, nil
}

// createOrReread inserts the row and, if another writer got there first,
// returns that writer's row instead. The insert runs in its own
// (nested) transaction so a conflict inside an outer transaction only
// rolls back to the savepoint.
func (r *GORMAttributeRepository[T]) createOrReread(ctx context.Context, userID uint, name string) (T, error) {
	row := r.build(userID, name)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(row).Error
	})
	if err == nil {
		return row, nil
	}
	if !isUniqueViolation(err) {
		return nil, fmt.Errorf("failed to create %s %q: %w", r.meta.kind, name, err)
	}
	return r.findByName(ctx, userID, name)
}

// Rename implements AttributeRepository.
func (r *GORMAttributeRepository[T]) Rename(ctx context.Context, userID, id uint, name string) (T, error) {
	row, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(row).Update("name", name).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s %q: %w", r.meta.kind, name, ErrDuplicateName)
		}
		return nil, fmt.Errorf("failed to rename %s %d: %w", r.meta.kind, id, err)
	}
	return r.GetByID(ctx, userID, id)
}

// Delete removes the row and every recipe link pointing at it.
func (r *GORMAttributeRepository[T]) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND id = ?", userID, id).Delete(r.build(0, ""))
		if res.Error != nil {
			return fmt.Errorf("failed to delete %s: %w", r.meta.kind, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%s with ID %d: %w", r.meta.kind, id, ErrNotFound)
		}
		err := tx.Exec("DELETE FROM "+r.meta.joinTable+" WHERE "+r.meta.joinColumn+" = ?", id).Error
		if err != nil {
			return fmt.Errorf("failed to unlink %s %d: %w", r.meta.kind, id, err)
		}
		return nil
	})
}
