package controllers

import (
	"github.com/gofiber/fiber/v2"

	"prashiskshan/backend/middleware"
	"prashiskshan/backend/services"
	"prashiskshan/backend/utils"
)

type DashboardController struct {
	Dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{Dashboard: dashboard}
}

// Stats returns the counters relevant to the requester's role.
func (dc *DashboardController) Stats(c *fiber.Ctx) error {
	stats, err := dc.Dashboard.Stats(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return utils.OK(c, stats)
}
