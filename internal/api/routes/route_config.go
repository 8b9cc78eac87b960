package routes

import (
	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	RecipeHandler     handlers.RecipeHandler
	TagHandler        handlers.TagHandler
	IngredientHandler handlers.IngredientHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Recipe()
	c.Tag()
	c.Ingredient()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth/token")
	{
		auth.Post("/login", c.UserHandler.Login)
		auth.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Logout)
	}
}

func (c *Config) User() {
	authRequired := c.Middleware.AuthMiddleware(c.JWTService)
	optionalAuth := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	user := c.App.Group("/api/users")
	{
		user.Post("", c.UserHandler.Register)
		user.Get("", optionalAuth, c.UserHandler.GetUsers)
		user.Get("/me", authRequired, c.UserHandler.Me)
		user.Post("/set_password", authRequired, c.UserHandler.SetPassword)
		user.Get("/subscriptions", authRequired, c.UserHandler.GetSubscriptions)
		user.Get("/:id", optionalAuth, c.UserHandler.GetUser)
		user.Post("/:id/subscribe", authRequired, c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", authRequired, c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Recipe() {
	authRequired := c.Middleware.AuthMiddleware(c.JWTService)
	optionalAuth := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	recipe := c.App.Group("/api/recipes")
	{
		recipe.Get("", optionalAuth, c.RecipeHandler.GetRecipes)
		recipe.Post("", authRequired, c.RecipeHandler.CreateRecipe)

		// shopping list export, registered before /:id
		recipe.Get("/download_shopping_cart", authRequired, c.RecipeHandler.DownloadShoppingCart)
		recipe.Post("/download_shopping_cart/email", authRequired, c.RecipeHandler.EmailShoppingCart)

		recipe.Get("/:id", optionalAuth, c.RecipeHandler.GetRecipeDetail)
		recipe.Patch("/:id", authRequired, c.RecipeHandler.UpdateRecipe)
		recipe.Delete("/:id", authRequired, c.RecipeHandler.DeleteRecipe)

		recipe.Post("/:id/favorite", authRequired, c.RecipeHandler.AddFavorite)
		recipe.Delete("/:id/favorite", authRequired, c.RecipeHandler.RemoveFavorite)
		recipe.Post("/:id/shopping_cart", authRequired, c.RecipeHandler.AddToShoppingCart)
		recipe.Delete("/:id/shopping_cart", authRequired, c.RecipeHandler.RemoveFromShoppingCart)
	}
}

func (c *Config) Tag() {
	adminOnly := []fiber.Handler{c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.AdminMiddleware()}

	tag := c.App.Group("/api/tags")
	{
		tag.Get("", c.TagHandler.GetTags)
		tag.Get("/:id", c.TagHandler.GetTag)
		tag.Post("", append(adminOnly, c.TagHandler.CreateTag)...)
		tag.Patch("/:id", append(adminOnly, c.TagHandler.UpdateTag)...)
		tag.Delete("/:id", append(adminOnly, c.TagHandler.DeleteTag)...)
	}
}

func (c *Config) Ingredient() {
	adminOnly := []fiber.Handler{c.Middleware.AuthMiddleware(c.JWTService), c.Middleware.AdminMiddleware()}

	ingredient := c.App.Group("/api/ingredients")
	{
		ingredient.Get("", c.IngredientHandler.GetIngredients)
		ingredient.Get("/:id", c.IngredientHandler.GetIngredient)
		ingredient.Post("", append(adminOnly, c.IngredientHandler.CreateIngredient)...)
		ingredient.Patch("/:id", append(adminOnly, c.IngredientHandler.UpdateIngredient)...)
		ingredient.Delete("/:id", append(adminOnly, c.IngredientHandler.DeleteIngredient)...)
	}
}
