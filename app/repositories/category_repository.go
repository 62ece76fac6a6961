package repositories

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// CategoryRepository handles database operations for Category.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

func NewCategoryRepositoryOn(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) query() *orm.Query {
	if r.db != nil {
		return orm.Use(r.db)
	}
	return orm.DB()
}

// FindBySlug looks up a category by its slug.
func (r *CategoryRepository) FindBySlug(slug string) (models.Category, error) {
	var c models.Category
	err := r.query().Model(&models.Category{}).Where("slug = ?", slug).First(&c)
	return c, err
}

// FindByID looks up a category by primary key.
func (r *CategoryRepository) FindByID(id uint) (models.Category, error) {
	var c models.Category
	err := r.query().Model(&models.Category{}).Where("id = ?", id).First(&c)
	return c, err
}

// All returns every category.
func (r *CategoryRepository) All() ([]models.Category, error) {
	var out []models.Category
	err := r.query().Model(&models.Category{}).Order("name asc").Get(&out)
	return out, err
}

// Create persists a new category.
func (r *CategoryRepository) Create(c *models.Category) error {
	return r.query().Create(c)
}
