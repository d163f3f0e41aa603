package models

import (
	"gorm.io/gorm"
)

// Production year bound kept as the source's literal rather than derived
// from the clock.
const (
	VehicleMinProductionYear = 1950
	VehicleMaxProductionYear = 2025
)

type Vehicle struct {
	gorm.Model
	OwnerID        uint   `json:"ownerId" gorm:"not null;index"`
	Owner          User   `json:"owner"`
	Make           string `json:"make" gorm:"not null"`
	ModelName      string `json:"model" gorm:"column:model;not null"`
	Color          string `json:"color" gorm:"not null"`
	LicensePlate   string `json:"licensePlate" gorm:"not null"` // Tunisian plate, stored uppercase
	ProductionYear *int   `json:"productionYear"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) Description() string {
	return v.Make + " " + v.ModelName + " (" + v.Color + ")"
}
