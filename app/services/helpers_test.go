package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/bazaar/app/media"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/slug"
)

// setupDB opens a fresh in-memory database with the full schema.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Order{},
		&models.OrderItem{},
		&models.MediaUpload{},
		&models.MediaUploadImage{},
	))
	return db
}

// fakeStore records every upload and destroy. FailAt n makes the n-th
// upload (1-based) fail.
type fakeStore struct {
	mu        sync.Mutex
	uploads   []string // local paths seen
	assets    []media.Asset
	destroyed []string
	FailAt    int
}

func (f *fakeStore) Upload(_ context.Context, localPath string) (media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailAt > 0 && len(f.uploads)+1 == f.FailAt {
		return media.Asset{}, fmt.Errorf("media host down")
	}

	f.uploads = append(f.uploads, localPath)
	a := media.Asset{
		URL:     fmt.Sprintf("https://cdn.test/m-%d.jpg", len(f.uploads)),
		MediaID: fmt.Sprintf("m-%d", len(f.uploads)),
	}
	f.assets = append(f.assets, a)
	os.Remove(localPath) // mimic the real store's spool cleanup
	return a, nil
}

func (f *fakeStore) Destroy(_ context.Context, mediaID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, mediaID)
	return nil
}

// fileHeaders builds real multipart file headers the way a request would.
func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, n := range names {
		fw, err := w.CreateFormFile("image", n)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes for " + n))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"]
}

// newProductService wires a service onto the test database and fake store.
func newProductService(db *gorm.DB, store media.Store) *ProductService {
	return NewProductServiceWith(
		repositories.NewProductRepositoryOn(db),
		repositories.NewCategoryRepositoryOn(db),
		store,
	)
}

func seedCategory(t *testing.T, db *gorm.DB, name, sl string) models.Category {
	t.Helper()
	c := models.Category{Name: name, Slug: sl}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// seedProduct inserts a product directly, with images, at the given age so
// newest-first ordering is deterministic.
func seedProduct(t *testing.T, db *gorm.DB, name string, categoryID uint, price float64, age time.Duration, mediaIDs ...string) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Slug:        slug.Make(name),
		Description: "seeded " + name,
		Price:       price,
		CategoryID:  categoryID,
		Quantity:    5,
		Shipping:    1,
		Color:       "black",
	}
	p.CreatedAt = time.Now().Add(-age)
	for i, id := range mediaIDs {
		p.Images = append(p.Images, models.ProductImage{
			URL:      "https://cdn.test/" + id + ".jpg",
			MediaID:  id,
			Position: i,
		})
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func validInput(categoryID uint, name string) ProductInput {
	return ProductInput{
		Name:        name,
		Description: "a very good " + name,
		Price:       19.99,
		CategoryID:  categoryID,
		Quantity:    3,
		Shipping:    2.5,
		Color:       "blue",
	}
}
