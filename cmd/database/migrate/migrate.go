package migration

import (
	"fmt"

	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/logging"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
		return fmt.Errorf("create uuid-ossp extension: %w", err)
	}

	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"subscription", &entities.Subscription{}},
		{"tag", &entities.Tag{}},
		{"ingredient type", &entities.IngredientType{}},
		{"recipe", &entities.Recipe{}},
		{"recipe ingredient", &entities.RecipeIngredient{}},
		{"recipe favorite", &entities.RecipeFavorite{}},
		{"shopping cart item", &entities.ShoppingCartItem{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("migrate %s table: %w", m.name, err)
		}
	}

	logging.Info().Int("tables", len(models)).Msg("database migration complete")
	return nil
}
