package shopping

import (
	"sort"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
)

// Aggregate flattens every ingredient row of the given recipes and sums the
// amounts per ingredient name. Rows without a loaded IngredientType are skipped.
func Aggregate(recipes []*entities.Recipe) domain.ShoppingList {
	var rows []domain.ShoppingRow
	for _, recipe := range recipes {
		if recipe == nil {
			continue
		}
		for _, row := range recipe.Ingredients {
			if row == nil || row.IngredientType == nil {
				continue
			}
			rows = append(rows, domain.ShoppingRow{
				Name:            row.IngredientType.Name,
				MeasurementUnit: row.IngredientType.MeasurementUnit,
				Amount:          row.Amount,
			})
		}
	}
	return AggregateRows(rows)
}

// AggregateRows groups rows by name. Amounts inside a group are added in
// ascending order so the result does not depend on row order.
func AggregateRows(rows []domain.ShoppingRow) domain.ShoppingList {
	byName := make(map[string]map[string][]float64)
	for _, row := range rows {
		units, ok := byName[row.Name]
		if !ok {
			units = make(map[string][]float64)
			byName[row.Name] = units
		}
		units[row.MeasurementUnit] = append(units[row.MeasurementUnit], row.Amount)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	list := domain.ShoppingList{Items: make([]domain.ShoppingListItem, 0, len(names))}
	for _, name := range names {
		units := byName[name]

		unitNames := make([]string, 0, len(units))
		var all []float64
		for unit, amounts := range units {
			unitNames = append(unitNames, unit)
			all = append(all, amounts...)
		}
		sort.Strings(unitNames)

		item := domain.ShoppingListItem{
			Name:   name,
			Amount: sum(all),
			Units:  make([]domain.UnitAmount, 0, len(unitNames)),
		}
		for _, unit := range unitNames {
			item.Units = append(item.Units, domain.UnitAmount{Unit: unit, Amount: sum(units[unit])})
		}
		list.Items = append(list.Items, item)
	}
	return list
}

func sum(amounts []float64) float64 {
	sorted := append([]float64(nil), amounts...)
	sort.Float64s(sorted)

	var total float64
	for _, amount := range sorted {
		total += amount
	}
	return total
}
