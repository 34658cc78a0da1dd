package services

import (
	"encoding/json"
	"strings"

	"resep/internal/models"

	"github.com/go-playground/validator/v10"
)

const maxNameLength = 255

// NameInput is the nested form of a tag or ingredient inside a recipe payload.
type NameInput struct {
	Name string `json:"name"`
}

// RecipeInput is a recipe write payload. A nil field was absent from the
// request. Unknown keys such as "user" are never bound, so ownership cannot
// be changed through it.
type RecipeInput struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	TimeMinutes *int             `json:"time_minutes" validate:"omitempty,gte=0"`
	Price       *json.RawMessage `json:"price"` // number or numeric string, checked by validateRecipeInput
	Link        *string          `json:"link" validate:"omitempty,max=255"`
	Tags        *[]NameInput     `json:"tags"`
	Ingredients *[]NameInput     `json:"ingredients"`
}

// recipeChanges is a validated RecipeInput.
type recipeChanges struct {
	title       *string
	description *string
	timeMinutes *int
	price       *models.Price
	link        *string
	tags        *[]string // nil: leave links alone; empty: clear them
	ingredients *[]string
}

// validateRecipeInput checks every present field. With full set, title,
// time_minutes and price must also be present.
func validateRecipeInput(v *validator.Validate, in RecipeInput, full bool) (*recipeChanges, error) {
	ve := &ValidationError{}
	if full {
		if in.Title == nil {
			ve.add("title", "is required")
		}
		if in.TimeMinutes == nil {
			ve.add("time_minutes", "is required")
		}
		if in.Price == nil {
			ve.add("price", "is required")
		}
	}
	if err := collectFieldErrors(v.Struct(in), ve); err != nil {
		return nil, err
	}

	changes := &recipeChanges{
		description: in.Description,
		timeMinutes: in.TimeMinutes,
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			ve.add("title", "may not be blank")
		}
		changes.title = &title
	}
	if in.Price != nil {
		var price models.Price
		if err := price.UnmarshalJSON(*in.Price); err != nil {
			ve.add("price", err.Error())
		}
		changes.price = &price
	}
	if in.Link != nil {
		link := strings.TrimSpace(*in.Link)
		if link != "" {
			if err := v.Var(link, "url"); err != nil {
				ve.add("link", "must be a valid URL")
			}
		}
		changes.link = &link
	}
	changes.tags = validateNames(ve, "tags", in.Tags)
	changes.ingredients = validateNames(ve, "ingredients", in.Ingredients)

	if err := ve.orNil(); err != nil {
		return nil, err
	}
	return changes, nil
}

// validateNames flattens a nested name list. Names are kept verbatim
// because lookups match them exactly.
func validateNames(ve *ValidationError, field string, in *[]NameInput) *[]string {
	if in == nil {
		return nil
	}
	names := make([]string, 0, len(*in))
	for _, item := range *in {
		switch {
		case strings.TrimSpace(item.Name) == "":
			ve.add(field, "name may not be blank")
		case len(item.Name) > maxNameLength:
			ve.add(field, "name must not exceed 255 characters")
		}
		names = append(names, item.Name)
	}
	return &names
}

// applyTo copies the scalar changes onto recipe. A full update resets the
// optional fields the payload left out.
func (c *recipeChanges) applyTo(recipe *models.Recipe, full bool) {
	if full {
		recipe.Description = ""
		recipe.Link = ""
	}
	if c.title != nil {
		recipe.Title = *c.title
	}
	if c.description != nil {
		recipe.Description = *c.description
	}
	if c.timeMinutes != nil {
		recipe.TimeMinutes = *c.timeMinutes
	}
	if c.price != nil {
		recipe.Price = *c.price
	}
	if c.link != nil {
		recipe.Link = *c.link
	}
}
