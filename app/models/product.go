package models

import "gorm.io/gorm"

// Product is a catalog entry. Name and Slug are globally unique; a product
// that was created successfully always carries at least one image.
type Product struct {
	gorm.Model
	Name        string         `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Slug        string         `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string         `gorm:"type:text;not null"            json:"description"`
	Price       float64        `gorm:"not null"                      json:"price"`
	CategoryID  uint           `gorm:"not null;index"                json:"category_id"`
	Category    *Category      `json:"category,omitempty"`
	Quantity    int            `gorm:"not null"                      json:"quantity"`
	Shipping    float64        `gorm:"not null;default:0"            json:"shipping"`
	Color       string         `gorm:"size:100;not null"             json:"color"`
	Images      []ProductImage `gorm:"constraint:OnDelete:CASCADE"   json:"images"`
}

// ProductImage is one hosted image: the public URL plus the media store's
// opaque identifier, which is what delete-by-identifier takes.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"not null;index"           json:"-"`
	URL       string `gorm:"size:1024;not null"       json:"url"`
	MediaID   string `gorm:"size:255;not null"        json:"media_id"`
	Position  int    `gorm:"not null;default:0"       json:"position"`
}
