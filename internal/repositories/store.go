package repositories

import (
	"context"

	"resep/internal/models"

	"gorm.io/gorm"
)

// Store groups the owner-scoped repositories so they can share a transaction.
type Store interface {
	Recipes() RecipeRepository
	Tags() AttributeRepository[*models.Tag]
	Ingredients() AttributeRepository[*models.Ingredient]
	// Transaction runs fn against a store bound to a single transaction.
	// Any error returned by fn rolls back every change made through it.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// GORMStore is a GORM implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a new instance of GORMStore.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Recipes() RecipeRepository {
	return NewGORMRecipeRepository(s.db)
}

func (s *GORMStore) Tags() AttributeRepository[*models.Tag] {
	return NewGORMTagRepository(s.db)
}

func (s *GORMStore) Ingredients() AttributeRepository[*models.Ingredient] {
	return NewGORMIngredientRepository(s.db)
}

// Transaction implements Store.
func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}

// Ping checks database connectivity.
func (s *GORMStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
