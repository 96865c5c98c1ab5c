package handler

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/service"
)

type ExerciseHandler struct {
	exerciseService *service.ExerciseService
	statsService    *service.StatsService
}

func NewExerciseHandler(exerciseService *service.ExerciseService, statsService *service.StatsService) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
		statsService:    statsService,
	}
}

// ListMuscleGroups GET /v1/muscle-groups
func (h *ExerciseHandler) ListMuscleGroups(c *fiber.Ctx) error {
	return c.JSON(domain.MuscleGroups)
}

// ListExercises GET /v1/exercises?name=
func (h *ExerciseHandler) ListExercises(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	exs, err := h.exerciseService.List(c.UserContext(), userID, domain.ExerciseFilter{Name: c.Query("name")})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exs)
}

// CreateExercise POST /v1/exercises (JSON, or multipart with an "image" file)
func (h *ExerciseHandler) CreateExercise(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	req, img, err := parseExerciseRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	ex, err := h.exerciseService.Create(c.UserContext(), userID, req, img)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ex)
}

// UpdateExercise PUT /v1/exercises/:id
func (h *ExerciseHandler) UpdateExercise(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	req, img, err := parseExerciseRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	ex, err := h.exerciseService.Update(c.UserContext(), userID, c.Params("id"), req, img)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ex)
}

// DeleteExercise DELETE /v1/exercises/:id
func (h *ExerciseHandler) DeleteExercise(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.exerciseService.Delete(c.UserContext(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

// ExerciseStats GET /v1/exercises/stats
func (h *ExerciseHandler) ExerciseStats(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.statsService.ExerciseStats(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Progress GET /v1/exercises/:id/progress
func (h *ExerciseHandler) Progress(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	points, err := h.statsService.Progress(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"exercise_id": c.Params("id"),
		"points":      points,
	})
}

// parseExerciseRequest reads an exercise from a JSON body or from multipart
// form fields, with an optional image file in the "image" field
func parseExerciseRequest(c *fiber.Ctx) (*domain.Exercise, *service.ImageUpload, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		var req domain.Exercise
		if err := c.BodyParser(&req); err != nil {
			return nil, nil, errors.New("invalid body")
		}
		return &req, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	req := &domain.Exercise{
		Name:        c.FormValue("name"),
		MuscleGroup: domain.MuscleGroup(c.FormValue("muscle_group")),
		Description: c.FormValue("description"),
	}

	files := form.File["image"]
	if len(files) == 0 {
		return req, nil, nil
	}

	imageFile := files[0]
	fileHandle, err := imageFile.Open()
	if err != nil {
		return nil, nil, errors.New("failed to open uploaded file")
	}
	defer fileHandle.Close()

	data, err := io.ReadAll(fileHandle)
	if err != nil {
		return nil, nil, errors.New("failed to read uploaded file")
	}

	return req, &service.ImageUpload{
		Data:        data,
		Filename:    imageFile.Filename,
		ContentType: imageFile.Header.Get(fiber.HeaderContentType),
	}, nil
}
