package ingredient

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/logging"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, name string) ([]domain.IngredientResponse, error)
		GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error)
		CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.IngredientResponse, error)
		UpdateIngredient(ctx context.Context, id string, req domain.UpdateIngredientRequest) (domain.IngredientResponse, error)
		DeleteIngredient(ctx context.Context, id string) error
		SeedFromCSV(ctx context.Context, r io.Reader) (int, error)
	}

	// ShoppingListInvalidator drops cached shopping lists of the given users.
	ShoppingListInvalidator interface {
		Invalidate(ctx context.Context, userIDs ...string)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
		shoppingLists        ShoppingListInvalidator
	}
)

func NewIngredientService(ingredientRepository IngredientRepository, shoppingLists ShoppingListInvalidator) IngredientService {
	return &ingredientService{
		ingredientRepository: ingredientRepository,
		shoppingLists:        shoppingLists,
	}
}

func ToIngredientResponse(ingredient *entities.IngredientType) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              ingredient.ID.String(),
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

func (s *ingredientService) GetIngredients(ctx context.Context, name string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, name)
	if err != nil {
		return nil, err
	}

	res := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		res = append(res, ToIngredientResponse(ingredient))
	}
	return res, nil
}

func (s *ingredientService) getIngredient(ctx context.Context, id string) (*entities.IngredientType, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrIngredientNotFound
	}
	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, err
	}
	return ingredient, nil
}

func (s *ingredientService) GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ingredient, err := s.getIngredient(ctx, id)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	return ToIngredientResponse(ingredient), nil
}

func (s *ingredientService) CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.IngredientResponse, error) {
	name := strings.TrimSpace(req.Name)
	unit := strings.TrimSpace(req.MeasurementUnit)

	exists, err := s.ingredientRepository.ExistsByNameAndUnit(ctx, name, unit, "")
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	if exists {
		return domain.IngredientResponse{}, domain.ErrIngredientExists
	}

	ingredient := &entities.IngredientType{
		ID:              uuid.New(),
		Name:            name,
		MeasurementUnit: unit,
	}
	if err := s.ingredientRepository.CreateIngredient(ctx, ingredient); err != nil {
		return domain.IngredientResponse{}, fmt.Errorf("create ingredient: %w", err)
	}
	return ToIngredientResponse(ingredient), nil
}

func (s *ingredientService) UpdateIngredient(ctx context.Context, id string, req domain.UpdateIngredientRequest) (domain.IngredientResponse, error) {
	ingredient, err := s.getIngredient(ctx, id)
	if err != nil {
		return domain.IngredientResponse{}, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		ingredient.Name = name
	}
	if unit := strings.TrimSpace(req.MeasurementUnit); unit != "" {
		ingredient.MeasurementUnit = unit
	}

	exists, err := s.ingredientRepository.ExistsByNameAndUnit(ctx, ingredient.Name, ingredient.MeasurementUnit, ingredient.ID.String())
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	if exists {
		return domain.IngredientResponse{}, domain.ErrIngredientExists
	}

	userIDs := s.cartUserIDs(ctx, id)
	if err := s.ingredientRepository.UpdateIngredient(ctx, ingredient); err != nil {
		return domain.IngredientResponse{}, fmt.Errorf("update ingredient: %w", err)
	}
	s.shoppingLists.Invalidate(ctx, userIDs...)
	return ToIngredientResponse(ingredient), nil
}

func (s *ingredientService) DeleteIngredient(ctx context.Context, id string) error {
	if _, err := s.getIngredient(ctx, id); err != nil {
		return err
	}

	// carts must be read before the delete cascades their recipe rows away
	userIDs := s.cartUserIDs(ctx, id)
	if err := s.ingredientRepository.DeleteIngredient(ctx, id); err != nil {
		return err
	}
	s.shoppingLists.Invalidate(ctx, userIDs...)
	return nil
}

func (s *ingredientService) cartUserIDs(ctx context.Context, ingredientID string) []string {
	userIDs, err := s.ingredientRepository.GetShoppingCartUserIDs(ctx, ingredientID)
	if err != nil {
		logging.Warn().Err(err).Str("ingredient_id", ingredientID).Msg("failed to load carts for invalidation")
		return nil
	}
	return userIDs
}

// SeedFromCSV loads "name,measurement_unit" rows when the catalogue is empty.
// It returns the number of inserted rows.
func (s *ingredientService) SeedFromCSV(ctx context.Context, r io.Reader) (int, error) {
	count, err := s.ingredientRepository.CountIngredients(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	nameIdx, unitIdx := -1, -1
	for i, column := range header {
		switch strings.TrimSpace(strings.TrimPrefix(column, "\ufeff")) {
		case "name":
			nameIdx = i
		case "measurement_unit":
			unitIdx = i
		}
	}
	if nameIdx < 0 || unitIdx < 0 {
		return 0, fmt.Errorf("csv header must contain name and measurement_unit, got %v", header)
	}

	seen := make(map[[2]string]struct{})
	var ingredients []*entities.IngredientType
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv row: %w", err)
		}
		if len(record) <= nameIdx || len(record) <= unitIdx {
			continue
		}

		name := strings.TrimSpace(record[nameIdx])
		unit := strings.TrimSpace(record[unitIdx])
		if name == "" || unit == "" {
			continue
		}
		key := [2]string{name, unit}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		ingredients = append(ingredients, &entities.IngredientType{
			ID:              uuid.New(),
			Name:            name,
			MeasurementUnit: unit,
		})
	}

	if err := s.ingredientRepository.BulkCreateIngredients(ctx, ingredients); err != nil {
		return 0, fmt.Errorf("seed ingredients: %w", err)
	}
	return len(ingredients), nil
}
