package models

import "gorm.io/gorm"

// Member is a person whose trades are tracked in the journal.
type Member struct {
	gorm.Model
	Name   string `gorm:"uniqueIndex;not null" json:"name"`
	Active bool   `gorm:"default:true" json:"active"`
}
