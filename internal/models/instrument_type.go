package models

import "gorm.io/gorm"

// InstrumentType classifies what kind of security a trade is in (EQUITY, ETF, ...).
type InstrumentType struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
