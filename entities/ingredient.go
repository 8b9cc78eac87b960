package entities

import "github.com/google/uuid"

// IngredientType is the catalogue entry a recipe row points at.
type IngredientType struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name            string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`

	Timestamp
}
