package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/bazaar/app/media"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/services"
)

type stubStore struct {
	n int
}

func (s *stubStore) Upload(_ context.Context, localPath string) (media.Asset, error) {
	s.n++
	os.Remove(localPath)
	return media.Asset{
		URL:     fmt.Sprintf("https://cdn.test/u-%d.jpg", s.n),
		MediaID: fmt.Sprintf("u-%d", s.n),
	}, nil
}

func (s *stubStore) Destroy(context.Context, string) error { return nil }

// newCatalogAPI wires the product routes onto a fresh database.
func newCatalogAPI(t *testing.T) (*chi.Mux, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.ProductImage{},
	))

	svc := services.NewProductServiceWith(
		repositories.NewProductRepositoryOn(db),
		repositories.NewCategoryRepositoryOn(db),
		&stubStore{},
	)
	pc := NewProductController(svc)

	r := chi.NewRouter()
	r.Post("/product/create", pc.Create)
	r.Get("/product/get-single/{slug}", pc.GetSingle)
	r.Get("/product/get-all", pc.GetAll)
	r.Post("/product/product-filters", pc.Filters)
	return r, db
}

// productForm builds a multipart create/update request body.
func productForm(t *testing.T, fields map[string]string, imageNames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, n := range imageNames {
		fw, err := w.CreateFormFile("image", n)
		require.NoError(t, err)
		_, err = fw.Write([]byte("img " + n))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func validFields(categoryID uint) map[string]string {
	return map[string]string{
		"name":        "Widget Pro",
		"description": "the best widget",
		"price":       "19.99",
		"category":    fmt.Sprint(categoryID),
		"quantity":    "3",
		"shipping":    "2.5",
		"color":       "blue",
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateValidationEnvelope(t *testing.T) {
	api, db := newCatalogAPI(t)
	cat := models.Category{Name: "Electronics", Slug: "electronics"}
	require.NoError(t, db.Create(&cat).Error)

	fields := validFields(cat.ID)
	delete(fields, "description")

	buf, ct := productForm(t, fields, "a.jpg")
	req := httptest.NewRequest(http.MethodPost, "/product/create", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "description")

	var n int64
	db.Model(&models.Product{}).Count(&n)
	assert.Zero(t, n)
}

func TestCreateAndFetchBySlug(t *testing.T) {
	api, db := newCatalogAPI(t)
	cat := models.Category{Name: "Electronics", Slug: "electronics"}
	require.NoError(t, db.Create(&cat).Error)

	buf, ct := productForm(t, validFields(cat.ID), "a.jpg")
	req := httptest.NewRequest(http.MethodPost, "/product/create", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	rec = httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product/get-single/widget-pro", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body = decodeBody(t, rec)
	product, ok := body["product"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Widget Pro", product["name"])
	category, ok := product["category"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Electronics", category["name"])
}

func TestGetSingleUnknownSlug(t *testing.T) {
	api, _ := newCatalogAPI(t)

	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product/get-single/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestFiltersEndpoint(t *testing.T) {
	api, db := newCatalogAPI(t)
	cat := models.Category{Name: "Electronics", Slug: "electronics"}
	require.NoError(t, db.Create(&cat).Error)
	for i, price := range []float64{5, 25, 80} {
		p := models.Product{
			Name: fmt.Sprintf("P%d", i), Slug: fmt.Sprintf("p%d", i),
			Description: "d", Price: price, CategoryID: cat.ID, Quantity: 1, Color: "red",
		}
		require.NoError(t, db.Create(&p).Error)
	}

	payload := fmt.Sprintf(`{"checked":[%d],"radio":[10,50]}`, cat.ID)
	req := httptest.NewRequest(http.MethodPost, "/product/product-filters", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	products, ok := body["products"].([]interface{})
	require.True(t, ok)
	assert.Len(t, products, 1)
}
