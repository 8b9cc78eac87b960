package seed

import (
	"context"
	"fmt"
	"os"

	"Foodgram-Backend/internal/utils/logging"
	"Foodgram-Backend/pkg/ingredient"
)

// SeedIngredients loads the ingredient catalogue from a CSV file with header
// name,measurement_unit. It does nothing when path is empty or the table
// already has rows.
func SeedIngredients(ctx context.Context, service ingredient.IngredientService, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open ingredients csv: %w", err)
	}
	defer file.Close()

	inserted, err := service.SeedFromCSV(ctx, file)
	if err != nil {
		return fmt.Errorf("seed ingredients: %w", err)
	}
	if inserted > 0 {
		logging.Info().Int("inserted", inserted).Str("path", path).Msg("ingredients seeded")
	}
	return nil
}
