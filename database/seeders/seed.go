package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/slug"
)

func init() {
	Register("admin", SeedAdmin)
	Register("categories", SeedCategories)
}

// SeedAdmin inserts the default admin account if it does not exist.
// Change the password right after the first login.
func SeedAdmin(db *gorm.DB) error {
	var existing models.User
	err := db.Where("email = ?", "admin@bazaar.local").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:     "Admin",
		Email:    "admin@bazaar.local",
		Password: hashed,
		Role:     "admin",
	}).Error
}

// SeedCategories inserts the starter category set, skipping ones that
// already exist.
func SeedCategories(db *gorm.DB) error {
	names := []string{
		"Electronics",
		"Clothing",
		"Books",
		"Home & Garden",
		"Toys",
	}
	for _, name := range names {
		var existing models.Category
		err := db.Where("slug = ?", slug.Make(name)).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&models.Category{Name: name, Slug: slug.Make(name)}).Error; err != nil {
			return err
		}
	}
	return nil
}
