package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/ironlog/internal/service"
)

// StatsHandler serves the calendar overview
type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Overview GET /v1/stats/overview?month=YYYY-MM&months=6
func (h *StatsHandler) Overview(c *fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return respondError(c, err)
	}

	months := c.QueryInt("months", 0)
	if c.Query("months") != "" && months == 0 {
		return badRequest(c, "months must be a positive integer")
	}

	overview, err := h.statsService.Overview(c.UserContext(), userID, c.Query("month"), months)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(overview)
}
