package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/telemetry"
	"github.com/oklog/ulid/v2"
	log "github.com/sirupsen/logrus"
)

var ErrImageStoreUnavailable = errors.New("image storage is not configured")

// ImageUpload is an image attached to an exercise write
type ImageUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ExerciseService manages the user's exercise library
type ExerciseService struct {
	exerciseRepo   domain.ExerciseRepository
	planRepo       domain.TrainingPlanRepository
	images         domain.ImageStore
	cache          *QueryCache
	invalidator    *Invalidator
	metrics        *telemetry.Metrics
	maxUploadBytes int64
}

// NewExerciseService creates a new exercise service. images may be nil,
// in which case writes with an image fail.
func NewExerciseService(
	exerciseRepo domain.ExerciseRepository,
	planRepo domain.TrainingPlanRepository,
	images domain.ImageStore,
	cache *QueryCache,
	metrics *telemetry.Metrics,
	maxUploadSizeMB int64,
) *ExerciseService {
	return &ExerciseService{
		exerciseRepo:   exerciseRepo,
		planRepo:       planRepo,
		images:         images,
		cache:          cache,
		invalidator:    NewInvalidator(cache),
		metrics:        metrics,
		maxUploadBytes: maxUploadSizeMB << 20,
	}
}

// List returns exercises ordered by muscle group, then name. Only the
// unfiltered list is cached.
func (s *ExerciseService) List(ctx context.Context, userID string, filter domain.ExerciseFilter) ([]*domain.Exercise, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	if filter.Name != "" {
		return s.exerciseRepo.List(ctx, userID, filter)
	}
	return readThrough(ctx, s.cache, resourceExercises, cacheKey(userID, resourceExercises),
		func(ctx context.Context) ([]*domain.Exercise, error) {
			return s.exerciseRepo.List(ctx, userID, filter)
		})
}

// Create validates and stores a new exercise, uploading its image first
func (s *ExerciseService) Create(ctx context.Context, userID string, input *domain.Exercise, img *ImageUpload) (*domain.Exercise, error) {
	ex := &domain.Exercise{
		UserID:      userID,
		Name:        input.Name,
		MuscleGroup: input.MuscleGroup,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}
	if err := ex.Validate(); err != nil {
		return nil, err
	}

	if img != nil {
		url, err := s.UploadImage(ctx, img)
		if err != nil {
			return nil, err
		}
		ex.ImageURL = url
	}

	if err := s.exerciseRepo.Create(ctx, ex); err != nil {
		if img != nil {
			s.discardImage(ctx, ex.ImageURL)
		}
		return nil, err
	}

	s.invalidator.ExerciseChanged(ctx, userID, "")
	return ex, nil
}

// Update replaces name, muscle group and description. A new image replaces
// the stored one; without one the old URL is kept.
func (s *ExerciseService) Update(ctx context.Context, userID, id string, input *domain.Exercise, img *ImageUpload) (*domain.Exercise, error) {
	existing, err := s.exerciseRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = input.Name
	updated.MuscleGroup = input.MuscleGroup
	updated.Description = input.Description
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if img != nil {
		url, err := s.UploadImage(ctx, img)
		if err != nil {
			return nil, err
		}
		updated.ImageURL = url
	}

	if err := s.exerciseRepo.Update(ctx, &updated); err != nil {
		if img != nil {
			s.discardImage(ctx, updated.ImageURL)
		}
		return nil, err
	}

	if img != nil && existing.ImageURL != "" {
		s.discardImage(ctx, existing.ImageURL)
	}

	s.invalidator.ExerciseChanged(ctx, userID, id)
	return &updated, nil
}

// Delete removes the exercise and its plan links. Logged sets stay.
func (s *ExerciseService) Delete(ctx context.Context, userID, id string) error {
	existing, err := s.exerciseRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, userID, id); err != nil {
		return err
	}
	if err := s.planRepo.RemoveExercise(ctx, userID, id); err != nil {
		return fmt.Errorf("exercise deleted but plans not updated: %w", err)
	}
	if existing.ImageURL != "" {
		s.discardImage(ctx, existing.ImageURL)
	}

	s.invalidator.ExerciseChanged(ctx, userID, id)
	return nil
}

// UploadImage stores an image under exercises/<ulid>.<ext> and returns its URL
func (s *ExerciseService) UploadImage(ctx context.Context, img *ImageUpload) (string, error) {
	if s.images == nil {
		return "", ErrImageStoreUnavailable
	}
	if len(img.Data) == 0 {
		return "", fmt.Errorf("%w: image is empty", domain.ErrValidation)
	}
	if s.maxUploadBytes > 0 && int64(len(img.Data)) > s.maxUploadBytes {
		return "", fmt.Errorf("%w: image exceeds %d MB", domain.ErrValidation, s.maxUploadBytes>>20)
	}

	contentType := img.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(img.Data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: only image uploads are allowed, got %s", domain.ErrValidation, contentType)
	}

	key := "exercises/" + newULID() + imageExtension(img.Filename, contentType)
	url, err := s.images.Upload(ctx, img.Data, key, contentType)
	if err != nil {
		return "", err
	}

	s.metrics.ImageUploaded(ctx)
	return url, nil
}

func (s *ExerciseService) discardImage(ctx context.Context, url string) {
	if s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		log.WithError(err).WithField("url", url).Warn("failed to delete exercise image")
	}
}

// newULID creates a new ULID string
func newULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

func imageExtension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
		return exts[0]
	}
	return ""
}
