package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/ironlog/internal/service"
)

type PlanHandler struct {
	planService    *service.PlanService
	workoutService *service.WorkoutService
}

func NewPlanHandler(planService *service.PlanService, workoutService *service.WorkoutService) *PlanHandler {
	return &PlanHandler{
		planService:    planService,
		workoutService: workoutService,
	}
}

// ListPlans GET /v1/plans
func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	plans, err := h.planService.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plans)
}

// CreatePlan POST /v1/plans
func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req service.PlanInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}

	plan, err := h.planService.Create(c.UserContext(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// UpdatePlan PUT /v1/plans/:id
func (h *PlanHandler) UpdatePlan(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req service.PlanInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}

	plan, err := h.planService.Update(c.UserContext(), userID, c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// DeletePlan DELETE /v1/plans/:id
func (h *PlanHandler) DeletePlan(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.planService.Delete(c.UserContext(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

// ToggleToday POST /v1/plans/:id/toggle-today
func (h *PlanHandler) ToggleToday(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.planService.ToggleToday(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"result": result})
}

// CompletedToday GET /v1/plans/completed-today
func (h *PlanHandler) CompletedToday(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	ids, err := h.planService.CompletedToday(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"plan_ids": ids})
}

// StartWorkout GET /v1/plans/:id/start
func (h *PlanHandler) StartWorkout(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	draft, err := h.workoutService.StartFromPlan(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}
