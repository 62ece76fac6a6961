package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/bind"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// ProductController serves the catalog routes.
type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Create handles POST /product/create (multipart, field "image").
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	errs, err := bind.Multipart(r, &in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "could not read form data")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.service.Create(r.Context(), in, bind.Files(r, "image"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, "Product created successfully", response.Payload{"product": p})
}

// GetAll handles GET /product/get-all: the latest twelve products.
func (c *ProductController) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.Latest()
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "All products", response.Payload{
		"products": products,
		"count":    len(products),
	})
}

// GetSingle handles GET /product/get-single/{slug}.
func (c *ProductController) GetSingle(w http.ResponseWriter, r *http.Request) {
	p, err := c.service.GetBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Single product fetched", response.Payload{"product": p})
}

// Update handles PUT /product/update/{pid}.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "pid")
	if !ok {
		response.Fail(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var in services.ProductInput
	errs, err := bind.Multipart(r, &in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "could not read form data")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.service.Update(r.Context(), id, in, bind.Files(r, "image"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Product updated successfully", response.Payload{"product": p})
}

// Delete handles DELETE /product/delete/{pid}.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "pid")
	if !ok {
		response.Fail(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Product deleted successfully", nil)
}

// filterBody is the POST /product/product-filters payload: checked category
// ids plus an optional [min, max] price range.
type filterBody struct {
	Checked []uint    `json:"checked"`
	Radio   []float64 `json:"radio"`
}

// Filters handles POST /product/product-filters.
func (c *ProductController) Filters(w http.ResponseWriter, r *http.Request) {
	var body filterBody
	if _, err := bind.JSON(r, &body); err != nil {
		response.Fail(w, http.StatusBadRequest, "could not read request body")
		return
	}

	var minPrice, maxPrice float64
	if len(body.Radio) > 0 {
		minPrice = body.Radio[0]
	}
	if len(body.Radio) > 1 {
		maxPrice = body.Radio[1]
	}

	products, err := c.service.Filter(body.Checked, minPrice, maxPrice)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Filtered products", response.Payload{"products": products})
}

// Count handles GET /product/product-count.
func (c *ProductController) Count(w http.ResponseWriter, r *http.Request) {
	n, err := c.service.Count()
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Product count", response.Payload{"total": n})
}

// List handles GET /product/product-list/{page}.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(chi.URLParam(r, "page")) // 0 falls back to page 1

	products, pg, err := c.service.Page(page)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Product page", response.Payload{
		"products":   products,
		"pagination": pg,
	})
}

// Search handles GET /product/search/{keyword}.
func (c *ProductController) Search(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.Search(chi.URLParam(r, "keyword"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Search results", response.Payload{"products": products})
}

// Related handles GET /product/related-product/{pid}/{cid}.
func (c *ProductController) Related(w http.ResponseWriter, r *http.Request) {
	pid, okP := uintParam(r, "pid")
	cid, okC := uintParam(r, "cid")
	if !okP || !okC {
		response.Fail(w, http.StatusBadRequest, "invalid product or category id")
		return
	}

	products, err := c.service.Related(pid, cid)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Related products", response.Payload{"products": products})
}

// CategoryProducts handles GET /product/product-category/{slug}.
func (c *ProductController) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	category, products, err := c.service.ByCategorySlug(chi.URLParam(r, "slug"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "Category products", response.Payload{
		"category": category,
		"products": products,
	})
}

// uintParam parses a positive integer URL parameter.
func uintParam(r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
