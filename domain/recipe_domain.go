package domain

import (
	"errors"
	"time"
)

const (
	MinCookingTime = 1
	MaxCookingTime = 360
)

var (
	MessageSuccessGetRecipes         = "success get recipes"
	MessageSuccessGetRecipeDetail    = "success get recipe detail"
	MessageSuccessCreateRecipe       = "recipe created successfully"
	MessageSuccessUpdateRecipe       = "recipe updated successfully"
	MessageSuccessDeleteRecipe       = "recipe deleted successfully"
	MessageSuccessAddFavorite        = "recipe added to favorites"
	MessageSuccessRemoveFavorite     = "recipe removed from favorites"
	MessageSuccessAddShoppingCart    = "recipe added to shopping cart"
	MessageSuccessRemoveShoppingCart = "recipe removed from shopping cart"
	MessageSuccessGetShoppingList    = "success get shopping list"
	MessageSuccessEmailShoppingList  = "shopping list sent"

	MessageFailedGetRecipes         = "failed to get recipes"
	MessageFailedGetRecipeDetail    = "failed to get recipe detail"
	MessageFailedCreateRecipe       = "failed to create recipe"
	MessageFailedUpdateRecipe       = "failed to update recipe"
	MessageFailedDeleteRecipe       = "failed to delete recipe"
	MessageFailedAddFavorite        = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite     = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart    = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart = "failed to remove recipe from shopping cart"
	MessageFailedGetShoppingList    = "failed to get shopping list"
	MessageFailedEmailShoppingList  = "failed to send shopping list"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrNoIngredients            = errors.New("recipe must contain at least one ingredient")
	ErrNoTags                   = errors.New("recipe must contain at least one tag")
	ErrInvalidAmount            = errors.New("ingredient amount must be positive")
	ErrInvalidCookingTime       = errors.New("cooking time must be between 1 and 360 minutes")
	ErrAuthorImmutable          = errors.New("recipe author cannot be changed")
	ErrAlreadyFavorited         = errors.New("recipe is already in favorites")
	ErrNotFavorited             = errors.New("recipe is not in favorites")
	ErrAlreadyInCart            = errors.New("recipe is already in shopping cart")
	ErrNotInCart                = errors.New("recipe is not in shopping cart")
	ErrInvalidImage             = errors.New("image must be a base64 encoded picture")
)

type (
	RecipeIngredientRequest struct {
		ID     string  `json:"id" validate:"required,uuid"`
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}

	CreateRecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Image       string                    `json:"image" validate:"required"`
		Name        string                    `json:"name" validate:"required,max=128"`
		Text        string                    `json:"text" validate:"required,max=4000"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1,max=360"`
	}

	UpdateRecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"omitempty,min=1,dive"`
		Tags        []string                  `json:"tags" validate:"omitempty,min=1,dive,uuid"`
		Image       string                    `json:"image" validate:"omitempty"`
		Name        string                    `json:"name" validate:"omitempty,max=128"`
		Text        string                    `json:"text" validate:"omitempty,max=4000"`
		CookingTime *int                      `json:"cooking_time" validate:"omitempty,min=1,max=360"`
		Author      *string                   `json:"author,omitempty"`
	}

	RecipeFilter struct {
		Tags             []string
		AuthorID         string
		IsFavorited      bool
		IsInShoppingCart bool
		PaginationRequest
	}

	RecipeIngredientResponse struct {
		ID              string  `json:"id"`
		Name            string  `json:"name"`
		MeasurementUnit string  `json:"measurement_unit"`
		Amount          float64 `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Name             string                     `json:"name"`
		Text             string                     `json:"text"`
		Author           UserResponse               `json:"author"`
		CookingTime      int                        `json:"cooking_time"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		Image            string                     `json:"image"`
		Tags             []TagResponse              `json:"tags"`
		IsFavorited      *bool                      `json:"is_favorited,omitempty"`
		IsInShoppingCart *bool                      `json:"is_in_shopping_cart,omitempty"`
		CreatedAt        time.Time                  `json:"created_at"`
	}

	RecipeShortResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}
)
