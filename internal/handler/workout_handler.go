package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/middleware"
	"github.com/mansoorceksport/ironlog/internal/service"
	"github.com/mansoorceksport/ironlog/internal/telemetry"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type WorkoutHandler struct {
	workoutService *service.WorkoutService
}

func NewWorkoutHandler(workoutService *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// LogSession POST /v1/sessions
func (h *WorkoutHandler) LogSession(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req domain.LogSessionInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}

	detail, err := h.workoutService.LogSession(c.UserContext(), userID, req)
	if err != nil {
		return respondError(c, err)
	}

	sets := 0
	for _, ex := range detail.Exercises {
		sets += len(ex.Sets)
	}
	telemetry.AddSpanEvent(c, "session.logged",
		attribute.String("session.date", detail.Session.Date),
		attribute.Int("session.sets", sets),
	)
	log.WithFields(log.Fields{
		"user_id":        userID,
		"session_id":     detail.Session.ID,
		"correlation_id": c.Locals(middleware.CorrelationIDKey),
	}).Info("session logged")
	return c.Status(fiber.StatusCreated).JSON(detail)
}

// DayView GET /v1/sessions?date=YYYY-MM-DD
func (h *WorkoutHandler) DayView(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	view, err := h.workoutService.DayView(c.UserContext(), userID, c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// DeleteSession DELETE /v1/sessions/:id
func (h *WorkoutHandler) DeleteSession(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.workoutService.DeleteSession(c.UserContext(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
