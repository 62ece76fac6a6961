package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// countCacheKey caches the catalog-wide product count briefly; the count
// endpoint is advertised as approximate.
const (
	countCacheKey = "products:count"
	countCacheTTL = 30 * time.Second
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB // nil means the shared connection
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// NewProductRepositoryOn binds the repository to an explicit connection.
// Tests pass an in-memory sqlite handle here.
func NewProductRepositoryOn(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) query() *orm.Query {
	if r.db != nil {
		return orm.Use(r.db)
	}
	return orm.DB()
}

// FindByID looks up a product by primary key with images and category loaded.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var p models.Product
	err := r.query().
		Preload("Category").
		Preload("Images").
		Where("id = ?", id).
		First(&p)
	return p, err
}

// FindBySlug looks up a product by its slug.
func (r *ProductRepository) FindBySlug(slug string) (models.Product, error) {
	var p models.Product
	err := r.query().
		Preload("Category").
		Preload("Images").
		Where("slug = ?", slug).
		First(&p)
	return p, err
}

// ExistsByName reports whether a product with the name is already cataloged,
// excluding the record with exceptID (0 means exclude nothing).
func (r *ProductRepository) ExistsByName(name string, exceptID uint) (bool, error) {
	var n int64
	q := r.query().Model(&models.Product{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Not("id = ?", exceptID)
	}
	err := q.Count(&n)
	return n > 0, err
}

// Create persists a new product with its image rows.
func (r *ProductRepository) Create(p *models.Product) error {
	return r.query().Create(p)
}

// Save persists changes to an existing product.
func (r *ProductRepository) Save(p *models.Product) error {
	return r.query().Save(p)
}

// Delete removes the product and its image rows.
func (r *ProductRepository) Delete(p *models.Product) error {
	if err := r.DeleteImages(p.ID); err != nil {
		return err
	}
	return r.query().Delete(p)
}

// DeleteImages removes every image row for a product.
func (r *ProductRepository) DeleteImages(productID uint) error {
	return r.query().
		Where("product_id = ?", productID).
		Delete(&models.ProductImage{})
}

// ReplaceImages swaps a product's image rows for the given set.
func (r *ProductRepository) ReplaceImages(productID uint, images []models.ProductImage) error {
	if err := r.DeleteImages(productID); err != nil {
		return err
	}
	for i := range images {
		images[i].ProductID = productID
		images[i].Position = i
	}
	if len(images) == 0 {
		return nil
	}
	return r.query().Create(&images)
}

// Latest returns the newest products, category and images loaded.
func (r *ProductRepository) Latest(limit int) ([]models.Product, error) {
	var out []models.Product
	err := r.query().
		Model(&models.Product{}).
		Preload("Category").
		Preload("Images").
		Order("created_at desc").
		Limit(limit).
		Get(&out)
	return out, err
}

// Page returns one newest-first page of the catalog.
func (r *ProductRepository) Page(page, perPage int) ([]models.Product, orm.Pagination, error) {
	var out []models.Product
	pg, err := r.query().
		Model(&models.Product{}).
		Preload("Category").
		Preload("Images").
		Order("created_at desc").
		GetWithPagination(&out, page, perPage)
	return out, pg, err
}

// Filter applies the optional category and price filters. An empty category
// list means no category filter; the price range applies only when at least
// one bound is positive, with inclusive bounds.
func (r *ProductRepository) Filter(categoryIDs []uint, minPrice, maxPrice float64) ([]models.Product, error) {
	q := r.query().
		Model(&models.Product{}).
		Preload("Category").
		Preload("Images").
		Order("created_at desc")

	if len(categoryIDs) > 0 {
		q = q.Where("category_id IN ?", categoryIDs)
	}
	if minPrice > 0 || maxPrice > 0 {
		if minPrice > 0 {
			q = q.Where("price >= ?", minPrice)
		}
		if maxPrice > 0 {
			q = q.Where("price <= ?", maxPrice)
		}
	}

	var out []models.Product
	err := q.Get(&out)
	return out, err
}

// Search matches the keyword case-insensitively against name or description.
func (r *ProductRepository) Search(keyword string) ([]models.Product, error) {
	like := "%" + strings.ToLower(keyword) + "%"
	var out []models.Product
	err := r.query().
		Model(&models.Product{}).
		Preload("Category").
		Preload("Images").
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like).
		Get(&out)
	return out, err
}

// Related returns up to limit other products in the same category.
func (r *ProductRepository) Related(productID, categoryID uint, limit int) ([]models.Product, error) {
	var out []models.Product
	err := r.query().
		Model(&models.Product{}).
		Preload("Category").
		Preload("Images").
		Where("category_id = ?", categoryID).
		Not("id = ?", productID).
		Limit(limit).
		Get(&out)
	return out, err
}

// ByCategoryID lists every product referencing the category.
func (r *ProductRepository) ByCategoryID(categoryID uint) ([]models.Product, error) {
	var out []models.Product
	err := r.query().
		Model(&models.Product{}).
		Preload("Category").
		Preload("Images").
		Where("category_id = ?", categoryID).
		Order("created_at desc").
		Get(&out)
	return out, err
}

// Count returns the catalog-wide product count, served from cache for up to
// thirty seconds.
func (r *ProductRepository) Count() (int64, error) {
	if orm.CacheStore != nil {
		var cached int64
		if orm.CacheStore.Get(countCacheKey, &cached) {
			return cached, nil
		}
	}

	var n int64
	if err := r.query().Model(&models.Product{}).Count(&n); err != nil {
		return 0, err
	}
	if orm.CacheStore != nil {
		_ = orm.CacheStore.Set(countCacheKey, n, countCacheTTL)
	}
	return n, nil
}
