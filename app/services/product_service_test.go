package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/apperr"
)

func TestCreateRequiresImage(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{}
	svc := newProductService(db, store)
	cat := seedCategory(t, db, "Electronics", "electronics")

	_, err := svc.Create(context.Background(), validInput(cat.ID, "Widget"), nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))

	var n int64
	db.Model(&models.Product{}).Count(&n)
	assert.Zero(t, n, "no catalog record may be written")
	assert.Empty(t, store.uploads, "nothing may be uploaded")
}

func TestCreateUnknownCategory(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{}
	svc := newProductService(db, store)

	_, err := svc.Create(context.Background(), validInput(999, "Widget"), fileHeaders(t, "a.jpg"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Empty(t, store.uploads)
}

func TestCreateDuplicateName(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{}
	svc := newProductService(db, store)
	cat := seedCategory(t, db, "Electronics", "electronics")

	_, err := svc.Create(context.Background(), validInput(cat.ID, "Widget"), fileHeaders(t, "a.jpg"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validInput(cat.ID, "Widget"), fileHeaders(t, "b.jpg"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Conflict))

	var n int64
	db.Model(&models.Product{}).Where("name = ?", "Widget").Count(&n)
	assert.EqualValues(t, 1, n, "exactly one record for the name")
}

func TestCreatePersistsWithImages(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{}
	svc := newProductService(db, store)
	cat := seedCategory(t, db, "Electronics", "electronics")

	p, err := svc.Create(context.Background(), validInput(cat.ID, "Widget Pro"), fileHeaders(t, "a.jpg", "b.jpg"))
	require.NoError(t, err)

	assert.Equal(t, "widget-pro", p.Slug)
	require.Len(t, p.Images, 2)
	assert.Equal(t, "m-1", p.Images[0].MediaID)
	assert.Equal(t, "m-2", p.Images[1].MediaID)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Electronics", p.Category.Name)
	assert.Len(t, store.uploads, 2)
}

func TestCreateCompensatesOnUploadFailure(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{FailAt: 2}
	svc := newProductService(db, store)
	cat := seedCategory(t, db, "Electronics", "electronics")

	_, err := svc.Create(context.Background(), validInput(cat.ID, "Widget"), fileHeaders(t, "a.jpg", "b.jpg"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.External))

	assert.Equal(t, []string{"m-1"}, store.destroyed, "the first upload must be released")
	var n int64
	db.Model(&models.Product{}).Count(&n)
	assert.Zero(t, n)
}

func TestCreateCompensatesOnSaveFailure(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{}
	svc := newProductService(db, store)
	cat := seedCategory(t, db, "Electronics", "electronics")

	// Different names, identical slug: the unique slug index rejects the
	// second insert after its images were already uploaded.
	_, err := svc.Create(context.Background(), validInput(cat.ID, "Widget Pro"), fileHeaders(t, "a.jpg"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validInput(cat.ID, "Widget  Pro"), fileHeaders(t, "b.jpg"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Persistence))
	assert.Contains(t, store.destroyed, "m-2", "the orphaned upload must be released")
}

func TestUpdateWithoutFilesKeepsImages(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{}
	svc := newProductService(db, store)
	cat := seedCategory(t, db, "Electronics", "electronics")
	p := seedProduct(t, db, "Widget", cat.ID, 10, time.Hour, "img-1", "img-2")

	in := validInput(cat.ID, "Widget")
	in.Price = 12.50

	updated, err := svc.Update(context.Background(), p.ID, in, nil)
	require.NoError(t, err)

	assert.Equal(t, 12.50, updated.Price)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, "img-1", updated.Images[0].MediaID)
	assert.Equal(t, "img-2", updated.Images[1].MediaID)
	assert.Empty(t, store.destroyed, "no image may be released")
	assert.Empty(t, store.uploads)
}

func TestUpdateWithFilesReplacesImages(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{}
	svc := newProductService(db, store)
	cat := seedCategory(t, db, "Electronics", "electronics")
	p := seedProduct(t, db, "Widget", cat.ID, 10, time.Hour, "img-1", "img-2")

	updated, err := svc.Update(context.Background(), p.ID, validInput(cat.ID, "Widget"), fileHeaders(t, "new.jpg"))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"img-1", "img-2"}, store.destroyed, "every prior image must be released")
	require.Len(t, updated.Images, 1)
	assert.Equal(t, "m-1", updated.Images[0].MediaID)
}

func TestUpdateRecomputesSlug(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{}
	svc := newProductService(db, store)
	cat := seedCategory(t, db, "Electronics", "electronics")
	p := seedProduct(t, db, "Widget", cat.ID, 10, time.Hour, "img-1")

	updated, err := svc.Update(context.Background(), p.ID, validInput(cat.ID, "Super Gadget"), nil)
	require.NoError(t, err)
	assert.Equal(t, "super-gadget", updated.Slug)

	_, err = svc.GetBySlug("widget")
	assert.True(t, apperr.Is(err, apperr.NotFound), "old slug must be gone")
}

func TestUpdateMissingProduct(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db, &fakeStore{})
	cat := seedCategory(t, db, "Electronics", "electronics")

	_, err := svc.Update(context.Background(), 42, validInput(cat.ID, "Widget"), nil)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestDeleteReleasesEveryImage(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{}
	svc := newProductService(db, store)
	cat := seedCategory(t, db, "Electronics", "electronics")
	p := seedProduct(t, db, "Widget", cat.ID, 10, time.Hour, "img-1", "img-2", "img-3")

	require.NoError(t, svc.Delete(context.Background(), p.ID))

	assert.ElementsMatch(t, []string{"img-1", "img-2", "img-3"}, store.destroyed)
	_, err := svc.GetBySlug("widget")
	assert.True(t, apperr.Is(err, apperr.NotFound))

	var n int64
	db.Model(&models.ProductImage{}).Count(&n)
	assert.Zero(t, n, "image rows must be removed with the product")
}

func TestDeleteMissingProduct(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db, &fakeStore{})

	err := svc.Delete(context.Background(), 42)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestLatestReturnsTwelveNewestFirst(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db, &fakeStore{})
	cat := seedCategory(t, db, "Electronics", "electronics")

	for i := 0; i < 15; i++ {
		seedProduct(t, db, productName(i), cat.ID, 10, time.Duration(i)*time.Minute, "img")
	}

	out, err := svc.Latest()
	require.NoError(t, err)
	require.Len(t, out, 12)
	assert.Equal(t, productName(0), out[0].Name, "newest first")
	assert.Equal(t, productName(11), out[11].Name)
	require.NotNil(t, out[0].Category)
}

func TestFilterProducts(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db, &fakeStore{})
	catA := seedCategory(t, db, "Electronics", "electronics")
	catB := seedCategory(t, db, "Books", "books")

	seedProduct(t, db, "Cheap Gadget", catA.ID, 5, time.Hour, "img")
	seedProduct(t, db, "Mid Gadget", catA.ID, 25, 2*time.Hour, "img")
	seedProduct(t, db, "Pricey Gadget", catA.ID, 80, 3*time.Hour, "img")
	seedProduct(t, db, "Novel", catB.ID, 25, 4*time.Hour, "img")

	all, err := svc.Filter(nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4, "no filters means the full catalog")

	out, err := svc.Filter([]uint{catA.ID}, 10, 50)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Mid Gadget", out[0].Name)

	// Inclusive bounds.
	out, err = svc.Filter([]uint{catA.ID}, 25, 25)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Mid Gadget", out[0].Name)
}

func TestSearchProducts(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db, &fakeStore{})
	cat := seedCategory(t, db, "Electronics", "electronics")

	seedProduct(t, db, "Foo Widget", cat.ID, 10, time.Hour, "img")
	p := models.Product{
		Name: "Plain Thing", Slug: "plain-thing",
		Description: "contains FOO in description",
		Price:       5, CategoryID: cat.ID, Quantity: 1, Color: "red",
	}
	require.NoError(t, db.Create(&p).Error)
	seedProduct(t, db, "Unrelated", cat.ID, 10, 2*time.Hour, "img")

	out, err := svc.Search("foo")
	require.NoError(t, err)
	require.Len(t, out, 2)

	names := []string{out[0].Name, out[1].Name}
	assert.Contains(t, names, "Foo Widget")
	assert.Contains(t, names, "Plain Thing")
}

func TestPageSkipsNewestThirty(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db, &fakeStore{})
	cat := seedCategory(t, db, "Electronics", "electronics")

	for i := 0; i < 35; i++ {
		seedProduct(t, db, productName(i), cat.ID, 10, time.Duration(i)*time.Minute, "img")
	}

	out, pg, err := svc.Page(2)
	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.Equal(t, productName(30), out[0].Name, "page 2 starts after the 30 newest")
	assert.Equal(t, 2, pg.Page)
	assert.EqualValues(t, 35, pg.Total)
	assert.Equal(t, 2, pg.TotalPages)

	// Page zero falls back to page one.
	out, pg, err = svc.Page(0)
	require.NoError(t, err)
	assert.Len(t, out, 30)
	assert.Equal(t, 1, pg.Page)
}

func TestRelatedProducts(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db, &fakeStore{})
	cat := seedCategory(t, db, "Electronics", "electronics")
	other := seedCategory(t, db, "Books", "books")

	self := seedProduct(t, db, "Widget", cat.ID, 10, time.Hour, "img")
	for i := 0; i < 8; i++ {
		seedProduct(t, db, productName(i), cat.ID, 10, time.Duration(i+2)*time.Hour, "img")
	}
	seedProduct(t, db, "Novel", other.ID, 10, time.Hour, "img")

	out, err := svc.Related(self.ID, cat.ID)
	require.NoError(t, err)
	assert.Len(t, out, 6, "capped at six")
	for _, p := range out {
		assert.NotEqual(t, self.ID, p.ID, "the product itself is excluded")
		assert.Equal(t, cat.ID, p.CategoryID)
	}
}

func TestByCategorySlug(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db, &fakeStore{})
	cat := seedCategory(t, db, "Electronics", "electronics")
	seedProduct(t, db, "Widget", cat.ID, 10, time.Hour, "img")
	seedProduct(t, db, "Gadget", cat.ID, 10, 2*time.Hour, "img")

	got, out, err := svc.ByCategorySlug("electronics")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.ID)
	assert.Len(t, out, 2)

	_, _, err = svc.ByCategorySlug("nope")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestCountProducts(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db, &fakeStore{})
	cat := seedCategory(t, db, "Electronics", "electronics")
	for i := 0; i < 3; i++ {
		seedProduct(t, db, productName(i), cat.ID, 10, time.Duration(i)*time.Hour, "img")
	}

	n, err := svc.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestGetBySlugPopulatesCategory(t *testing.T) {
	db := setupDB(t)
	svc := newProductService(db, &fakeStore{})
	cat := seedCategory(t, db, "Electronics", "electronics")
	seedProduct(t, db, "Widget", cat.ID, 10, time.Hour, "img-1")

	p, err := svc.GetBySlug("widget")
	require.NoError(t, err)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Electronics", p.Category.Name)
	require.Len(t, p.Images, 1)

	_, err = svc.GetBySlug("missing")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func productName(i int) string {
	return "Product " + string(rune('A'+i%26)) + string(rune('a'+i/26))
}
