package entity

import "time"

// PackagingType tipo de empaque (strip, frasco, caja...).
type PackagingType struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UnitType unidad de medida (tableta, ml, mg...).
type UnitType struct {
	ID           string
	Name         string
	Abbreviation string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
