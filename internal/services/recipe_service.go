package services

import (
	"context"
	"log"
	"time"

	"resep/internal/models"
	"resep/internal/repositories"
	"resep/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
)

// EventPublisher is implemented by anything that can publish recipe events.
type EventPublisher interface {
	PublishRecipeEvent(event rabbitmq.RecipeEvent) error
}

// RecipeService handles business logic related to recipes and their nested
// tags and ingredients.
type RecipeService struct {
	store     repositories.Store
	publisher EventPublisher
	validate  *validator.Validate
}

// NewRecipeService creates a new RecipeService. publisher may be nil, in
// which case no events are published.
func NewRecipeService(store repositories.Store, publisher EventPublisher) *RecipeService {
	return &RecipeService{
		store:     store,
		publisher: publisher,
		validate:  newValidator(),
	}
}

// ListRecipes returns the user's recipes, newest first, narrowed by filter.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uint, filter repositories.RecipeFilter) ([]models.Recipe, error) {
	return s.store.Recipes().List(ctx, userID, filter)
}

// GetRecipe returns one of the user's recipes.
func (s *RecipeService) GetRecipe(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	return s.store.Recipes().GetByID(ctx, userID, id)
}

// CreateRecipe validates in and creates the recipe together with its nested
// tags and ingredients in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uint, in RecipeInput) (*models.Recipe, error) {
	changes, err := validateRecipeInput(s.validate, in, true)
	if err != nil {
		return nil, err
	}

	var created *models.Recipe
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		recipe := &models.Recipe{UserID: userID}
		changes.applyTo(recipe, true)
		if err := tx.Recipes().Create(ctx, recipe); err != nil {
			return err
		}
		if err := syncRelations(ctx, tx, recipe, changes.tags, changes.ingredients); err != nil {
			return err
		}
		created, err = tx.Recipes().GetByID(ctx, userID, recipe.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(rabbitmq.EventRecipeCreated, created)
	return created, nil
}

// UpdateRecipe changes one of the user's recipes. With partial set only the
// fields present in in are touched; otherwise title, time_minutes and price
// are required and omitted optional fields are reset. A tags or ingredients
// list that is present replaces the recipe's links completely.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uint, in RecipeInput, partial bool) (*models.Recipe, error) {
	changes, err := validateRecipeInput(s.validate, in, !partial)
	if err != nil {
		return nil, err
	}

	var updated *models.Recipe
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		recipe, err := tx.Recipes().GetByID(ctx, userID, id)
		if err != nil {
			return err
		}
		changes.applyTo(recipe, !partial)
		if err := tx.Recipes().Update(ctx, recipe); err != nil {
			return err
		}
		if err := syncRelations(ctx, tx, recipe, changes.tags, changes.ingredients); err != nil {
			return err
		}
		updated, err = tx.Recipes().GetByID(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(rabbitmq.EventRecipeUpdated, updated)
	return updated, nil
}

// DeleteRecipe removes one of the user's recipes. Its tags and ingredients
// stay in the user's catalog.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uint) error {
	if err := s.store.Recipes().Delete(ctx, userID, id); err != nil {
		return err
	}
	s.publish(rabbitmq.EventRecipeDeleted, &models.Recipe{ID: id, UserID: userID})
	return nil
}

// publish runs after commit. Failures are logged and never surface to the
// caller.
func (s *RecipeService) publish(eventType string, recipe *models.Recipe) {
	if s.publisher == nil || recipe == nil {
		return
	}
	event := rabbitmq.RecipeEvent{
		Type:       eventType,
		UserID:     recipe.UserID,
		RecipeID:   recipe.ID,
		OccurredAt: time.Now().UTC(),
	}
	for _, t := range recipe.Tags {
		event.Tags = append(event.Tags, t.Name)
	}
	for _, i := range recipe.Ingredients {
		event.Ingredients = append(event.Ingredients, i.Name)
	}
	if err := s.publisher.PublishRecipeEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s for recipe %d: %v", eventType, recipe.ID, err)
	}
}

