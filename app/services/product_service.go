package services

import (
	"context"
	"errors"
	"mime/multipart"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/media"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/collection"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
	"github.com/shashiranjanraj/bazaar/pkg/slug"
)

const (
	latestLimit  = 12
	relatedLimit = 6
	pageSize     = 30
)

// ProductInput carries the writable product fields. Every field is required
// on both create and update.
type ProductInput struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"required,numeric,gt=0"`
	CategoryID  uint    `json:"category"    validate:"required"`
	Quantity    int     `json:"quantity"    validate:"required,gte=0"`
	Shipping    float64 `json:"shipping"    validate:"required,gte=0"`
	Color       string  `json:"color"       validate:"required,max=100"`
}

// ProductService orchestrates catalog writes against the media store and
// the product repository, and serves the catalog read paths.
type ProductService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	media      media.Store
}

func NewProductService(store media.Store) *ProductService {
	return &ProductService{
		products:   repositories.NewProductRepository(),
		categories: repositories.NewCategoryRepository(),
		media:      store,
	}
}

// NewProductServiceWith wires explicit collaborators. Tests pass an
// in-memory database and a fake media store.
func NewProductServiceWith(p *repositories.ProductRepository, c *repositories.CategoryRepository, store media.Store) *ProductService {
	return &ProductService{products: p, categories: c, media: store}
}

// Create validates the input, uploads every file to the media store, and
// persists the product. Nothing is uploaded and nothing is written when
// validation fails. A media or store failure after some uploads succeeded
// triggers a best-effort release of what was already pushed.
func (s *ProductService) Create(ctx context.Context, in ProductInput, files []*multipart.FileHeader) (models.Product, error) {
	if len(files) == 0 {
		return models.Product{}, apperr.Invalid("at least one image is required", map[string]string{"image": "at least one image is required"})
	}

	if _, err := s.categories.FindByID(in.CategoryID); err != nil {
		return models.Product{}, notFoundOr(err, "category not found")
	}

	taken, err := s.products.ExistsByName(in.Name, 0)
	if err != nil {
		return models.Product{}, apperr.Wrap(apperr.Persistence, "could not check product name", err)
	}
	if taken {
		return models.Product{}, apperr.New(apperr.Conflict, "a product with this name already exists")
	}

	images, err := s.uploadAll(ctx, files)
	if err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Quantity:    in.Quantity,
		Shipping:    in.Shipping,
		Color:       in.Color,
		Images:      images,
	}

	if err := s.products.Create(&p); err != nil {
		s.releaseAssets(ctx, images, "compensation")
		return models.Product{}, apperr.Wrap(apperr.Persistence, "could not save product", err)
	}

	return s.products.FindByID(p.ID)
}

// Update applies a full-field update. When new files are supplied, every
// existing image is released from the media store before the replacements
// are uploaded; with no files, the image list is retained verbatim. The
// slug is recomputed from the name on every update.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput, files []*multipart.FileHeader) (models.Product, error) {
	p, err := s.products.FindByID(id)
	if err != nil {
		return models.Product{}, notFoundOr(err, "product not found")
	}

	if _, err := s.categories.FindByID(in.CategoryID); err != nil {
		return models.Product{}, notFoundOr(err, "category not found")
	}

	taken, err := s.products.ExistsByName(in.Name, p.ID)
	if err != nil {
		return models.Product{}, apperr.Wrap(apperr.Persistence, "could not check product name", err)
	}
	if taken {
		return models.Product{}, apperr.New(apperr.Conflict, "a product with this name already exists")
	}

	if len(files) > 0 {
		// Old images first, then the replacements. Same sequencing on
		// every update so a crash can only orphan one side.
		s.releaseAssets(ctx, p.Images, "replace")

		images, err := s.uploadAll(ctx, files)
		if err != nil {
			return models.Product{}, err
		}
		if err := s.products.ReplaceImages(p.ID, images); err != nil {
			s.releaseAssets(ctx, images, "compensation")
			return models.Product{}, apperr.Wrap(apperr.Persistence, "could not save product images", err)
		}
	}

	p.Name = in.Name
	p.Slug = slug.Make(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.CategoryID = in.CategoryID
	p.Quantity = in.Quantity
	p.Shipping = in.Shipping
	p.Color = in.Color
	p.Images = nil // image rows are managed separately
	p.Category = nil

	if err := s.products.Save(&p); err != nil {
		return models.Product{}, apperr.Wrap(apperr.Persistence, "could not save product", err)
	}

	return s.products.FindByID(p.ID)
}

// Delete releases every hosted image, then removes the catalog record.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	p, err := s.products.FindByID(id)
	if err != nil {
		return notFoundOr(err, "product not found")
	}

	s.releaseAssets(ctx, p.Images, "product_delete")

	if err := s.products.Delete(&p); err != nil {
		return apperr.Wrap(apperr.Persistence, "could not delete product", err)
	}
	return nil
}

// Latest returns the twelve most recent products, newest first.
func (s *ProductService) Latest() ([]models.Product, error) {
	out, err := s.products.Latest(latestLimit)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "could not list products", err)
	}
	return out, nil
}

// GetBySlug fetches one product by slug with its category populated.
func (s *ProductService) GetBySlug(sl string) (models.Product, error) {
	p, err := s.products.FindBySlug(sl)
	if err != nil {
		return models.Product{}, notFoundOr(err, "product not found")
	}
	return p, nil
}

// Filter applies the optional category and price filters.
func (s *ProductService) Filter(categoryIDs []uint, minPrice, maxPrice float64) ([]models.Product, error) {
	out, err := s.products.Filter(categoryIDs, minPrice, maxPrice)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "could not filter products", err)
	}
	return out, nil
}

// Count returns the approximate catalog size.
func (s *ProductService) Count() (int64, error) {
	n, err := s.products.Count()
	if err != nil {
		return 0, apperr.Wrap(apperr.Persistence, "could not count products", err)
	}
	return n, nil
}

// Page returns one newest-first page of thirty products. Page zero or a
// negative page is treated as page one.
func (s *ProductService) Page(page int) ([]models.Product, orm.Pagination, error) {
	out, pg, err := s.products.Page(page, pageSize)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Wrap(apperr.Persistence, "could not list products", err)
	}
	return out, pg, nil
}

// Search matches the keyword against product names and descriptions,
// case-insensitively.
func (s *ProductService) Search(keyword string) ([]models.Product, error) {
	out, err := s.products.Search(keyword)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "could not search products", err)
	}
	return out, nil
}

// Related returns up to six other products sharing the category.
func (s *ProductService) Related(productID, categoryID uint) ([]models.Product, error) {
	out, err := s.products.Related(productID, categoryID, relatedLimit)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "could not load related products", err)
	}
	return out, nil
}

// ByCategorySlug resolves the category, then lists its products.
func (s *ProductService) ByCategorySlug(sl string) (models.Category, []models.Product, error) {
	c, err := s.categories.FindBySlug(sl)
	if err != nil {
		return models.Category{}, nil, notFoundOr(err, "category not found")
	}
	out, err := s.products.ByCategoryID(c.ID)
	if err != nil {
		return models.Category{}, nil, apperr.Wrap(apperr.Persistence, "could not list products", err)
	}
	return c, out, nil
}

// uploadAll spools the multipart files and pushes them to the media store
// one at a time, in input order. On failure the assets uploaded so far are
// released and the unspooled remainder is removed.
func (s *ProductService) uploadAll(ctx context.Context, files []*multipart.FileHeader) ([]models.ProductImage, error) {
	paths, err := media.SpoolUploads(files)
	if err != nil {
		return nil, err
	}

	var images []models.ProductImage
	for i, p := range paths {
		asset, err := s.media.Upload(ctx, p)
		if err != nil {
			s.releaseAssets(ctx, images, "compensation")
			media.Cleanup(paths[i:])
			return nil, err
		}
		images = append(images, models.ProductImage{URL: asset.URL, MediaID: asset.MediaID, Position: i})
	}
	return images, nil
}

// releaseAssets deletes hosted images best-effort; a failed release is
// logged and skipped so the caller's own error (or success) stands.
func (s *ProductService) releaseAssets(ctx context.Context, images []models.ProductImage, reason string) {
	ids := collection.Map(images, func(img models.ProductImage) string { return img.MediaID })
	for _, id := range ids {
		if err := s.media.Destroy(ctx, id); err != nil {
			logger.WithCtx(ctx).Error("product: media release failed", "media_id", id, "reason", reason, "error", err)
			continue
		}
		metrics.MediaReleases.WithLabelValues(reason).Inc()
	}
}

// notFoundOr maps a missing record to NotFound and anything else to a
// wrapped Persistence error.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.NotFound, msg)
	}
	return apperr.Wrap(apperr.Persistence, msg, err)
}
