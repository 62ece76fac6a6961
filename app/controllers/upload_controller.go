package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/bind"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// UploadController serves the standalone scratch upload routes.
type UploadController struct {
	service *services.UploadService
}

func NewUploadController(service *services.UploadService) *UploadController {
	return &UploadController{service: service}
}

// Create handles POST /create-img (multipart, fields "name" + "image").
func (c *UploadController) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name" validate:"required,max=255"`
	}
	errs, err := bind.Multipart(r, &in)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "could not read form data")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	rec, err := c.service.Create(r.Context(), in.Name, bind.Files(r, "image"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, "Upload stored", response.Payload{"upload": rec})
}

// List handles GET /get-img.
func (c *UploadController) List(w http.ResponseWriter, r *http.Request) {
	uploads, err := c.service.All()
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Success(w, "All uploads", response.Payload{"uploads": uploads})
}
