package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/bartlabs/bart-backend/internal/dto"
	"github.com/bartlabs/bart-backend/internal/middleware"
	"github.com/bartlabs/bart-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
	orchestrator  *services.Orchestrator
}

func NewReviewHandler(reviewService *services.ReviewService, orchestrator *services.Orchestrator) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, orchestrator: orchestrator}
}

// Create accepts content for analysis and returns 202 with the pending
// review; the verdict lands asynchronously.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	review, err := h.reviewService.Create(userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	h.orchestrator.Enqueue(review.ID)
	return c.Status(fiber.StatusAccepted).JSON(review)
}

func (h *ReviewHandler) Upload(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "No file uploaded",
		})
	}
	if fileHeader.Size > services.MaxUploadSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Error: true, Message: "File exceeds the 20MB upload limit",
		})
	}

	contentType := c.FormValue("content_type", "blog")
	jurisdiction := c.FormValue("jurisdiction", "general")

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded file",
		})
	}

	review, err := h.reviewService.CreateFromUpload(userID, contentType, jurisdiction, fileHeader.Filename, data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	h.orchestrator.Enqueue(review.ID)
	return c.Status(fiber.StatusAccepted).JSON(review)
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("skip", 0)

	reviews, total, err := h.reviewService.List(userID, middleware.IsAdmin(c), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list reviews",
		})
	}

	c.Set("X-Total-Count", strconv.FormatInt(total, 10))
	return c.JSON(reviews)
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid review id",
		})
	}

	review, err := h.reviewService.Get(userID, middleware.IsAdmin(c), uint(id))
	if err != nil {
		return reviewError(c, err)
	}

	return c.JSON(review)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid review id",
		})
	}

	if err := h.reviewService.Delete(userID, middleware.IsAdmin(c), uint(id)); err != nil {
		return reviewError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func reviewError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrReviewNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Review not found",
		})
	case errors.Is(err, services.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Access denied",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
