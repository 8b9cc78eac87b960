package handlers

import (
	"errors"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/utils/logging"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	notFoundErrors = []error{
		domain.ErrRecipeNotFound,
		domain.ErrUserNotFound,
		domain.ErrTagNotFound,
		domain.ErrIngredientNotFound,
	}
	forbiddenErrors = []error{
		domain.ErrUnauthorizedRecipeAccess,
		domain.ErrUserNotAllowed,
	}
	unauthorizedErrors = []error{
		domain.ErrInvalidCredentials,
		domain.ErrTokenInvalid,
		domain.ErrTokenExpired,
		domain.ErrTokenRevoked,
		domain.ErrTokenNotFound,
	}
	badRequestErrors = []error{
		domain.ErrParseUUID,
		domain.ErrEmailTaken,
		domain.ErrUsernameTaken,
		domain.ErrWrongPassword,
		domain.ErrSelfSubscription,
		domain.ErrAlreadySubscribed,
		domain.ErrNotSubscribed,
		domain.ErrTagExists,
		domain.ErrIngredientExists,
		domain.ErrNoIngredients,
		domain.ErrNoTags,
		domain.ErrInvalidAmount,
		domain.ErrInvalidCookingTime,
		domain.ErrAuthorImmutable,
		domain.ErrAlreadyFavorited,
		domain.ErrNotFavorited,
		domain.ErrAlreadyInCart,
		domain.ErrNotInCart,
		domain.ErrInvalidImage,
		domain.ErrUnknownShoppingFormat,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusFor maps service errors to HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case isAny(err, notFoundErrors):
		return fiber.StatusNotFound
	case isAny(err, forbiddenErrors):
		return fiber.StatusForbidden
	case isAny(err, unauthorizedErrors):
		return fiber.StatusUnauthorized
	case isAny(err, badRequestErrors), errors.As(err, &validationErrs):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, message string, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.Path()).Msg(message)
	}
	return presenters.ErrorResponse(c, status, message, err)
}

func viewerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func viewerRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

func clamp(value, fallback, max int) int {
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func parsePagination(c *fiber.Ctx) domain.PaginationRequest {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return domain.PaginationRequest{
		Page:  page,
		Limit: clamp(c.QueryInt("limit", domain.DefaultPageSize), domain.DefaultPageSize, domain.MaxPageSize),
	}
}

func parseRecipesLimit(c *fiber.Ctx) int {
	limit := c.QueryInt("recipes_limit", domain.DefaultRecipesCap)
	if limit <= 0 {
		return domain.DefaultRecipesCap
	}
	return limit
}

func parseRecipeFilter(c *fiber.Ctx) domain.RecipeFilter {
	filter := domain.RecipeFilter{
		AuthorID:          c.Query("author"),
		IsFavorited:       c.Query("is_favorited") == "1",
		IsInShoppingCart:  c.Query("is_in_shopping_cart") == "1",
		PaginationRequest: parsePagination(c),
	}

	for _, raw := range c.Context().QueryArgs().PeekMulti("tags") {
		for _, slug := range strings.Split(string(raw), ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				filter.Tags = append(filter.Tags, slug)
			}
		}
	}
	return filter
}

func paginated(results any, p domain.PaginationRequest, total int64) fiber.Map {
	return fiber.Map{
		"results":    results,
		"pagination": domain.NewPaginationResponse(p, total),
	}
}
