package bind

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/config"
)

type productForm struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

func multipartRequest(t *testing.T, fields map[string]string, fileSize int) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileSize > 0 {
		fw, err := w.CreateFormFile("image", "a.jpg")
		require.NoError(t, err)
		_, err = fw.Write(bytes.Repeat([]byte("x"), fileSize))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestMultipartFillsAndValidates(t *testing.T) {
	req := multipartRequest(t, map[string]string{"name": "Widget", "price": "9.5"}, 16)

	var form productForm
	errs, err := Multipart(req, &form)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "Widget", form.Name)
	assert.Equal(t, 9.5, form.Price)
	assert.Len(t, Files(req, "image"), 1)
}

func TestMultipartValidationErrors(t *testing.T) {
	req := multipartRequest(t, map[string]string{"price": "0"}, 0)

	var form productForm
	errs, err := Multipart(req, &form)
	require.NoError(t, err)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "price")
}

func TestMultipartRejectsOversizedBody(t *testing.T) {
	require.NoError(t, config.Load()) // Set before first Load would be discarded
	config.Set("MAX_UPLOAD_BYTES", "1024")
	t.Cleanup(func() { config.Set("MAX_UPLOAD_BYTES", "") })

	// A single file part well past the cap: the body must be refused, not
	// spooled to disk.
	req := multipartRequest(t, map[string]string{"name": "Widget"}, 64*1024)

	var form productForm
	errs, err := Multipart(req, &form)
	require.Error(t, err)
	assert.Empty(t, errs)
	assert.ErrorContains(t, err, "too large")
	assert.Empty(t, Files(req, "image"))
}

func TestJSONRejectsOversizedBody(t *testing.T) {
	require.NoError(t, config.Load())
	config.Set("MAX_BODY_BYTES", "64")
	t.Cleanup(func() { config.Set("MAX_BODY_BYTES", "") })

	payload := `{"name":"` + strings.Repeat("x", 256) + `","price":1}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))

	var form productForm
	errs, err := JSON(req, &form)
	require.Error(t, err)
	assert.Empty(t, errs)
	assert.ErrorContains(t, err, "too large")
}
