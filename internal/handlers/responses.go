package handlers

import "resep/internal/models"

type attributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// recipeSummary is the list representation of a recipe.
type recipeSummary struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       models.Price        `json:"price"`
	Link        string              `json:"link"`
	Tags        []attributeResponse `json:"tags"`
	Ingredients []attributeResponse `json:"ingredients"`
}

// recipeDetail adds the fields only shown for a single recipe.
type recipeDetail struct {
	recipeSummary
	Description string `json:"description"`
	Image       string `json:"image"`
}

type userResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newRecipeSummary(r *models.Recipe) recipeSummary {
	s := recipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        make([]attributeResponse, 0, len(r.Tags)),
		Ingredients: make([]attributeResponse, 0, len(r.Ingredients)),
	}
	for _, t := range r.Tags {
		s.Tags = append(s.Tags, attributeResponse{ID: t.ID, Name: t.Name})
	}
	for _, i := range r.Ingredients {
		s.Ingredients = append(s.Ingredients, attributeResponse{ID: i.ID, Name: i.Name})
	}
	return s
}

func newRecipeDetail(r *models.Recipe) recipeDetail {
	return recipeDetail{
		recipeSummary: newRecipeSummary(r),
		Description:   r.Description,
		Image:         r.Image,
	}
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}
