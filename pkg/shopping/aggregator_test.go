package shopping

import (
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipeWith(rows ...domain.ShoppingRow) *entities.Recipe {
	recipe := &entities.Recipe{}
	for _, row := range rows {
		recipe.Ingredients = append(recipe.Ingredients, &entities.RecipeIngredient{
			Amount: row.Amount,
			IngredientType: &entities.IngredientType{
				Name:            row.Name,
				MeasurementUnit: row.MeasurementUnit,
			},
		})
	}
	return recipe
}

func TestAggregateSumsAcrossRecipes(t *testing.T) {
	a := recipeWith(
		domain.ShoppingRow{Name: "Egg", MeasurementUnit: "pcs", Amount: 2},
		domain.ShoppingRow{Name: "Flour", MeasurementUnit: "g", Amount: 100},
	)
	b := recipeWith(domain.ShoppingRow{Name: "Egg", MeasurementUnit: "pcs", Amount: 1})

	list := Aggregate([]*entities.Recipe{a, b})

	assert.Equal(t, map[string]float64{"Egg": 3, "Flour": 100}, list.Totals())
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Egg", list.Items[0].Name)
	assert.Equal(t, "Flour", list.Items[1].Name)
	assert.Equal(t, map[string]string{"Egg": "3 pcs", "Flour": "100 g"}, list.Display())
}

func TestAggregateEmptyCart(t *testing.T) {
	list := Aggregate(nil)
	assert.True(t, list.IsEmpty())
	assert.Empty(t, list.Totals())

	list = Aggregate([]*entities.Recipe{{}})
	assert.True(t, list.IsEmpty())
}

func TestAggregateKeepsRepeatedRowsOfOneRecipe(t *testing.T) {
	recipe := recipeWith(
		domain.ShoppingRow{Name: "Salt", MeasurementUnit: "g", Amount: 5},
		domain.ShoppingRow{Name: "Salt", MeasurementUnit: "g", Amount: 3},
	)

	list := Aggregate([]*entities.Recipe{recipe})
	assert.Equal(t, 8.0, list.Totals()["Salt"])
}

func TestAggregateRowsIsOrderIndependent(t *testing.T) {
	rows := []domain.ShoppingRow{
		{Name: "Milk", MeasurementUnit: "ml", Amount: 0.1},
		{Name: "Milk", MeasurementUnit: "ml", Amount: 0.2},
		{Name: "Milk", MeasurementUnit: "ml", Amount: 0.3},
		{Name: "Butter", MeasurementUnit: "g", Amount: 50},
	}
	reversed := make([]domain.ShoppingRow, len(rows))
	for i, row := range rows {
		reversed[len(rows)-1-i] = row
	}

	assert.Equal(t, AggregateRows(rows), AggregateRows(reversed))
}

func TestAggregateRowsNameSetMatchesInput(t *testing.T) {
	rows := []domain.ShoppingRow{
		{Name: "Tomato", MeasurementUnit: "pcs", Amount: 2},
		{Name: "Basil", MeasurementUnit: "g", Amount: 10},
		{Name: "Tomato", MeasurementUnit: "pcs", Amount: 1},
		{Name: "Olive oil", MeasurementUnit: "ml", Amount: 30},
	}

	list := AggregateRows(rows)

	names := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Basil", "Olive oil", "Tomato"}, names)
}

func TestAggregateRowsBreaksDownUnits(t *testing.T) {
	list := AggregateRows([]domain.ShoppingRow{
		{Name: "Sugar", MeasurementUnit: "g", Amount: 200},
		{Name: "Sugar", MeasurementUnit: "tbsp", Amount: 2},
		{Name: "Sugar", MeasurementUnit: "g", Amount: 50},
	})

	require.Len(t, list.Items, 1)
	item := list.Items[0]
	assert.Equal(t, 252.0, item.Amount)
	assert.Equal(t, []domain.UnitAmount{{Unit: "g", Amount: 250}, {Unit: "tbsp", Amount: 2}}, item.Units)
	assert.Equal(t, "250 g, 2 tbsp", item.AmountString())
}
