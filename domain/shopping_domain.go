package domain

import (
	"errors"
	"strconv"
	"strings"
)

const (
	ShoppingFormatJSON = "json"
	ShoppingFormatText = "txt"
	ShoppingFormatPDF  = "pdf"
)

var ErrUnknownShoppingFormat = errors.New("format must be one of json, txt, pdf")

type (
	// ShoppingRow is one ingredient row of one recipe in a cart, flattened.
	ShoppingRow struct {
		Name            string  `json:"name"`
		MeasurementUnit string  `json:"measurement_unit"`
		Amount          float64 `json:"amount"`
	}

	UnitAmount struct {
		Unit   string  `json:"unit"`
		Amount float64 `json:"amount"`
	}

	ShoppingListItem struct {
		Name   string       `json:"name"`
		Amount float64      `json:"amount"`
		Units  []UnitAmount `json:"units"`
	}

	// ShoppingList holds items sorted by name.
	ShoppingList struct {
		Items []ShoppingListItem `json:"items"`
	}

	ShoppingExport struct {
		Filename    string
		ContentType string
		Data        []byte
	}
)

func (l ShoppingList) IsEmpty() bool {
	return len(l.Items) == 0
}

// Totals maps ingredient name to the summed amount.
func (l ShoppingList) Totals() map[string]float64 {
	totals := make(map[string]float64, len(l.Items))
	for _, item := range l.Items {
		totals[item.Name] = item.Amount
	}
	return totals
}

// Display maps ingredient name to a human readable "amount unit" string.
func (l ShoppingList) Display() map[string]string {
	display := make(map[string]string, len(l.Items))
	for _, item := range l.Items {
		display[item.Name] = item.AmountString()
	}
	return display
}

func (i ShoppingListItem) AmountString() string {
	if len(i.Units) == 0 {
		return FormatAmount(i.Amount)
	}
	parts := make([]string, 0, len(i.Units))
	for _, u := range i.Units {
		parts = append(parts, strings.TrimSpace(FormatAmount(u.Amount)+" "+u.Unit))
	}
	return strings.Join(parts, ", ")
}

func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
