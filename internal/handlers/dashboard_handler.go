package handlers

import (
	"errors"

	"github.com/bartlabs/bart-backend/internal/dto"
	"github.com/bartlabs/bart-backend/internal/middleware"
	"github.com/bartlabs/bart-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	stats, err := h.dashboard.Stats(userID, middleware.IsAdmin(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute dashboard stats",
		})
	}
	return c.JSON(stats)
}

func (h *DashboardHandler) AnalyzePatterns(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	insights, err := h.dashboard.AnalyzePatterns(c.Context(), userID, middleware.IsAdmin(c))
	if err != nil {
		if errors.Is(err, services.ErrNotEnoughReviews) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Pattern analysis failed",
		})
	}
	return c.JSON(insights)
}
