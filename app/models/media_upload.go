package models

import "gorm.io/gorm"

// MediaUpload is a standalone scratch collection for exercising the upload
// pipeline. It has no relation to Product.
type MediaUpload struct {
	gorm.Model
	Name   string             `gorm:"size:255;not null"           json:"name"`
	Images []MediaUploadImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`
}

// MediaUploadImage mirrors ProductImage for the scratch collection.
type MediaUploadImage struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	MediaUploadID uint   `gorm:"not null;index"           json:"-"`
	URL           string `gorm:"size:1024;not null"       json:"url"`
	MediaID       string `gorm:"size:255;not null"        json:"media_id"`
}
