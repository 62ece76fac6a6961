package services

import (
	"context"
	"mime/multipart"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/media"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// UploadService backs the standalone scratch collection for exercising the
// upload pipeline. It shares nothing with the catalog.
type UploadService struct {
	db    *gorm.DB // nil means the shared connection
	media media.Store
}

func NewUploadService(store media.Store) *UploadService {
	return &UploadService{media: store}
}

func NewUploadServiceWith(db *gorm.DB, store media.Store) *UploadService {
	return &UploadService{db: db, media: store}
}

func (s *UploadService) query() *orm.Query {
	if s.db != nil {
		return orm.Use(s.db)
	}
	return orm.DB()
}

// Create uploads the files and stores a named bag of the resulting assets.
func (s *UploadService) Create(ctx context.Context, name string, files []*multipart.FileHeader) (models.MediaUpload, error) {
	if name == "" {
		return models.MediaUpload{}, apperr.Invalid("name is required", map[string]string{"name": "name is required"})
	}
	if len(files) == 0 {
		return models.MediaUpload{}, apperr.Invalid("at least one image is required", map[string]string{"image": "at least one image is required"})
	}

	paths, err := media.SpoolUploads(files)
	if err != nil {
		return models.MediaUpload{}, err
	}

	var images []models.MediaUploadImage
	for i, p := range paths {
		asset, err := s.media.Upload(ctx, p)
		if err != nil {
			for _, img := range images {
				if derr := s.media.Destroy(ctx, img.MediaID); derr != nil {
					logger.WithCtx(ctx).Error("upload: media release failed", "media_id", img.MediaID, "error", derr)
				}
			}
			media.Cleanup(paths[i:])
			return models.MediaUpload{}, err
		}
		images = append(images, models.MediaUploadImage{URL: asset.URL, MediaID: asset.MediaID})
	}

	rec := models.MediaUpload{Name: name, Images: images}
	if err := s.query().Create(&rec); err != nil {
		return models.MediaUpload{}, apperr.Wrap(apperr.Persistence, "could not save upload record", err)
	}
	return rec, nil
}

// All returns every scratch upload record with its assets.
func (s *UploadService) All() ([]models.MediaUpload, error) {
	var out []models.MediaUpload
	err := s.query().
		Model(&models.MediaUpload{}).
		Preload("Images").
		Order("created_at desc").
		Get(&out)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "could not list uploads", err)
	}
	return out, nil
}
