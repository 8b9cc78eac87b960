package ingredient

import (
	"context"
	"strings"

	"Foodgram-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const seedBatchSize = 500

type (
	IngredientRepository interface {
		CreateIngredient(ctx context.Context, ingredient *entities.IngredientType) error
		BulkCreateIngredients(ctx context.Context, ingredients []*entities.IngredientType) error
		GetIngredientByID(ctx context.Context, id string) (*entities.IngredientType, error)
		GetIngredientsByIDs(ctx context.Context, ids []string) ([]*entities.IngredientType, error)
		GetIngredients(ctx context.Context, name string) ([]*entities.IngredientType, error)
		ExistsByNameAndUnit(ctx context.Context, name, unit, excludeID string) (bool, error)
		CountIngredients(ctx context.Context) (int64, error)
		UpdateIngredient(ctx context.Context, ingredient *entities.IngredientType) error
		DeleteIngredient(ctx context.Context, id string) error
		GetShoppingCartUserIDs(ctx context.Context, ingredientID string) ([]string, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) CreateIngredient(ctx context.Context, ingredient *entities.IngredientType) error {
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func (r *ingredientRepository) BulkCreateIngredients(ctx context.Context, ingredients []*entities.IngredientType) error {
	if len(ingredients) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(ingredients, seedBatchSize).Error
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id string) (*entities.IngredientType, error) {
	var ingredient entities.IngredientType
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) GetIngredientsByIDs(ctx context.Context, ids []string) ([]*entities.IngredientType, error) {
	var ingredients []*entities.IngredientType
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetIngredients lists ingredient types, names starting with the query first.
func (r *ingredientRepository) GetIngredients(ctx context.Context, name string) ([]*entities.IngredientType, error) {
	var ingredients []*entities.IngredientType
	query := r.db.WithContext(ctx).Model(&entities.IngredientType{})

	name = strings.TrimSpace(name)
	if name != "" {
		lowered := strings.ToLower(name)
		query = query.
			Where("LOWER(name) LIKE ?", "%"+lowered+"%").
			Order(gorm.Expr("CASE WHEN LOWER(name) LIKE ? THEN 0 ELSE 1 END", lowered+"%"))
	}

	if err := query.Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) ExistsByNameAndUnit(ctx context.Context, name, unit, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&entities.IngredientType{}).
		Where("name = ? AND measurement_unit = ?", name, unit)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ingredientRepository) CountIngredients(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.IngredientType{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ingredientRepository) UpdateIngredient(ctx context.Context, ingredient *entities.IngredientType) error {
	return r.db.WithContext(ctx).Save(ingredient).Error
}

func (r *ingredientRepository) DeleteIngredient(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.IngredientType{}).Error
}

// GetShoppingCartUserIDs returns the users whose cart holds a recipe that uses
// the ingredient type.
func (r *ingredientRepository) GetShoppingCartUserIDs(ctx context.Context, ingredientID string) ([]string, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCartItem{}).
		Distinct("shopping_cart_items.user_id").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_items.recipe_id").
		Where("recipe_ingredients.ingredient_type_id = ?", ingredientID).
		Pluck("shopping_cart_items.user_id", &ids).Error; err != nil {
		return nil, err
	}

	res := make([]string, 0, len(ids))
	for _, id := range ids {
		res = append(res, id.String())
	}
	return res, nil
}
