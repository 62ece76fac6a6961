package models

import "gorm.io/gorm"

// Category groups products. Looked up by slug on the public listing routes.
type Category struct {
	gorm.Model
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Slug string `gorm:"size:255;not null;uniqueIndex" json:"slug"`
}
