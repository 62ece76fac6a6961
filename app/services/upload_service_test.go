package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/apperr"
)

func TestUploadCreateAndList(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{}
	svc := NewUploadServiceWith(db, store)

	rec, err := svc.Create(context.Background(), "holiday shots", fileHeaders(t, "a.jpg", "b.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "holiday shots", rec.Name)
	require.Len(t, rec.Images, 2)
	assert.Equal(t, "m-1", rec.Images[0].MediaID)

	all, err := svc.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Images, 2)
}

func TestUploadCreateValidation(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{}
	svc := NewUploadServiceWith(db, store)

	_, err := svc.Create(context.Background(), "", fileHeaders(t, "a.jpg"))
	assert.True(t, apperr.Is(err, apperr.Validation))

	_, err = svc.Create(context.Background(), "named", nil)
	assert.True(t, apperr.Is(err, apperr.Validation))

	assert.Empty(t, store.uploads)
	var n int64
	db.Model(&models.MediaUpload{}).Count(&n)
	assert.Zero(t, n)
}

func TestUploadCompensatesOnFailure(t *testing.T) {
	db := setupDB(t)
	store := &fakeStore{FailAt: 2}
	svc := NewUploadServiceWith(db, store)

	_, err := svc.Create(context.Background(), "partial", fileHeaders(t, "a.jpg", "b.jpg"))
	require.Error(t, err)
	assert.Equal(t, []string{"m-1"}, store.destroyed)

	var n int64
	db.Model(&models.MediaUpload{}).Count(&n)
	assert.Zero(t, n)
}
