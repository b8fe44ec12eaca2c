package handler

import (
	"github.com/gofiber/fiber/v2"

	"freight-cost-approval/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	metrics, err := h.dashboardService.GetMetrics(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(metrics)
}
