package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/service"
)

type SupplementHandler struct {
	supplementService *service.SupplementService
}

func NewSupplementHandler(supplementService *service.SupplementService) *SupplementHandler {
	return &SupplementHandler{supplementService: supplementService}
}

// LogIntake POST /v1/supplements
func (h *SupplementHandler) LogIntake(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req domain.LogSupplementInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}

	intake, err := h.supplementService.Log(c.UserContext(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(intake)
}

// DeleteIntake DELETE /v1/supplements/:id
func (h *SupplementHandler) DeleteIntake(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.supplementService.Delete(c.UserContext(), userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
