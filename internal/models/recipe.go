package models

import "time"

// Recipe is a dish owned by a single user.
type Recipe struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	UserID      uint         `json:"-" gorm:"not null;index"`
	Title       string       `json:"title" gorm:"type:varchar(255);not null"`
	Description string       `json:"description" gorm:"type:text"`
	TimeMinutes int          `json:"time_minutes" gorm:"not null"`
	Price       Price        `json:"price" gorm:"column:price_cents;not null"`
	Link        string       `json:"link" gorm:"type:varchar(255)"`
	Image       string       `json:"image,omitempty" gorm:"type:varchar(255)"` // Storage key, written by the upload pipeline only
	Tags        []Tag        `json:"tags" gorm:"many2many:recipe_tags"`
	Ingredients []Ingredient `json:"ingredients" gorm:"many2many:recipe_ingredients"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// Tag labels recipes for filtering. Names are unique per owner.
type Tag struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID uint   `json:"-" gorm:"not null;uniqueIndex:idx_tags_user_name"`
	Name   string `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_tags_user_name"`
}

// Ingredient is something a recipe is made of. Names are unique per owner.
type Ingredient struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID uint   `json:"-" gorm:"not null;uniqueIndex:idx_ingredients_user_name"`
	Name   string `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_ingredients_user_name"`
}

// RecipeTag is a row of the recipe_tags join table.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey;index"`
}

// RecipeIngredient is a row of the recipe_ingredients join table.
type RecipeIngredient struct {
	RecipeID     uint `gorm:"primaryKey"`
	IngredientID uint `gorm:"primaryKey;index"`
}

// NewTag builds an unsaved tag owned by userID.
func NewTag(userID uint, name string) *Tag {
	return &Tag{UserID: userID, Name: name}
}

// NewIngredient builds an unsaved ingredient owned by userID.
func NewIngredient(userID uint, name string) *Ingredient {
	return &Ingredient{UserID: userID, Name: name}
}

func (t *Tag) GetID() uint        { return t.ID }
func (i *Ingredient) GetID() uint { return i.ID }
