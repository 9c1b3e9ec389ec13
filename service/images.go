// Package service holds the image and session use cases. Both stores are
// injected, and no call spans them atomically: uploads write the object
// before its metadata and deletes remove the object first, so a crash
// leaves at worst an unindexed object or a record whose object is gone.
package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"imghost/errs"
	"imghost/logger"
	"imghost/models"
	"imghost/objects"
	"imghost/utils"
)

type MetadataStore interface {
	Save(ctx context.Context, m *models.ImageMetadata) error
	Get(ctx context.Context, id string) (*models.ImageMetadata, error)
	ListAll(ctx context.Context) ([]models.ImageMetadata, error)
	Delete(ctx context.Context, id string) error
}

type UploadInput struct {
	Body        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type Images struct {
	meta    MetadataStore
	objects objects.Store
	maxSize int64
	l       logger.Interface

	newID func() string
	now   func() time.Time
}

type Option func(*Images)

func WithIDGenerator(fn func() string) Option {
	return func(s *Images) { s.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(s *Images) { s.now = fn }
}

func NewImages(meta MetadataStore, objs objects.Store, maxSize int64, l logger.Interface, opts ...Option) *Images {
	if maxSize <= 0 {
		maxSize = utils.DefaultMaxFileSize
	}
	s := &Images{
		meta:    meta,
		objects: objs,
		maxSize: maxSize,
		l:       l,
		newID:   utils.NewImageID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Images) MaxSize() int64 {
	return s.maxSize
}

// Upload validates in, writes the bytes and then indexes them. Nothing is written
// when validation fails. A failed metadata write leaves the object behind.
func (s *Images) Upload(ctx context.Context, in UploadInput) (*models.ImageMetadata, error) {
	if in.Body == nil {
		return nil, errs.New(errs.InvalidInput, "No file provided")
	}
	if err := utils.ValidateFile(in.ContentType, in.Size, s.maxSize); err != nil {
		return nil, err
	}

	id := s.newID()
	key := utils.ObjectKey(id, in.Filename)
	contentType := utils.NormalizeContentType(in.ContentType)

	if err := s.objects.Put(ctx, key, in.Body, in.Size, contentType); err != nil {
		s.l.Error(err, "service - Images - Upload - objects.Put")
		return nil, errs.Wrap(errs.StoreFailure, "Failed to upload file to storage", err)
	}

	record := &models.ImageMetadata{
		ID:               id,
		Filename:         id + "_" + utils.SanitizeFilename(in.Filename),
		OriginalFilename: utils.DisplayFilename(in.Filename),
		Size:             in.Size,
		ContentType:      contentType,
		UploadTime:       s.now().UTC().Truncate(time.Millisecond),
		R2Key:            key,
	}

	if err := s.meta.Save(ctx, record); err != nil {
		s.l.Warn("service - Images - Upload - object %s left without metadata", key)
		return nil, err
	}

	return record, nil
}

// Get returns a not-found error for unknown or malformed ids.
func (s *Images) Get(ctx context.Context, id string) (*models.ImageMetadata, error) {
	if !utils.IsValidImageID(id) {
		return nil, errs.New(errs.NotFound, "Image not found")
	}

	record, err := s.meta.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errs.New(errs.NotFound, "Image not found")
	}
	return record, nil
}

// List returns every record, most recent upload first.
func (s *Images) List(ctx context.Context) ([]models.ImageMetadata, error) {
	records, err := s.meta.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].UploadTime.Equal(records[j].UploadTime) {
			return records[i].UploadTime.After(records[j].UploadTime)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Delete removes the object and then the record. An unknown id is reported as
// not found after any unreadable record stored under it has been removed.
func (s *Images) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errs.New(errs.InvalidInput, "Image ID is required")
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		// An undecodable record reads as absent; drop its key so it does not linger.
		if errs.Is(err, errs.NotFound) && utils.IsValidImageID(id) {
			if purgeErr := s.meta.Delete(ctx, id); purgeErr != nil {
				s.l.Warn("service - Images - Delete - purge %s: %v", id, purgeErr)
			}
		}
		return err
	}

	if err := s.objects.Delete(ctx, record.R2Key); err != nil {
		s.l.Error(err, "service - Images - Delete - objects.Delete")
		return errs.Wrap(errs.StoreFailure, "Failed to delete image from storage", err)
	}

	return s.meta.Delete(ctx, id)
}

// Open resolves id to its record and an open object. A record whose object is
// missing yields a not-found error distinct from an unknown id.
func (s *Images) Open(ctx context.Context, id string) (*models.ImageMetadata, *objects.Object, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.Fetch(ctx, record)
	if err != nil {
		return nil, nil, err
	}
	return record, obj, nil
}

// Fetch opens the object described by record.
func (s *Images) Fetch(ctx context.Context, record *models.ImageMetadata) (*objects.Object, error) {
	obj, err := s.objects.Get(ctx, record.R2Key)
	if errors.Is(err, objects.ErrNotFound) {
		s.l.Warn("service - Images - Fetch - metadata %s points to missing object %s", record.ID, record.R2Key)
		return nil, errs.New(errs.NotFound, "Image file not found in storage")
	}
	if err != nil {
		s.l.Error(err, "service - Images - Fetch - objects.Get")
		return nil, errs.Wrap(errs.StoreFailure, "Failed to serve image", err)
	}
	return obj, nil
}
