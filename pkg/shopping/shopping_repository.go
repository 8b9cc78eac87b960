package shopping

import (
	"context"

	"Foodgram-Backend/domain"

	"gorm.io/gorm"
)

type (
	ShoppingRepository interface {
		GetCartRows(ctx context.Context, userID string) ([]domain.ShoppingRow, error)
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

// GetCartRows returns one row per recipe ingredient for every recipe in the
// user's cart. Repeated rows are kept.
func (r *shoppingRepository) GetCartRows(ctx context.Context, userID string) ([]domain.ShoppingRow, error) {
	var rows []domain.ShoppingRow
	if err := r.db.WithContext(ctx).
		Table("shopping_cart_items").
		Select("ingredient_types.name AS name, ingredient_types.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_items.recipe_id").
		Joins("JOIN ingredient_types ON ingredient_types.id = recipe_ingredients.ingredient_type_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Order("ingredient_types.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
