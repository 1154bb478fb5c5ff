package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bartlabs/bart-backend/internal/dto"
	"github.com/bartlabs/bart-backend/internal/middleware"
	"github.com/bartlabs/bart-backend/internal/models"
	"github.com/bartlabs/bart-backend/internal/notion"
	"github.com/bartlabs/bart-backend/internal/services"
	"github.com/bartlabs/bart-backend/internal/slack"
	"github.com/gofiber/fiber/v2"
)

type IntegrationHandler struct {
	integrations  *services.IntegrationService
	reviewService *services.ReviewService
	orchestrator  *services.Orchestrator
}

func NewIntegrationHandler(integrations *services.IntegrationService, reviewService *services.ReviewService, orchestrator *services.Orchestrator) *IntegrationHandler {
	return &IntegrationHandler{
		integrations:  integrations,
		reviewService: reviewService,
		orchestrator:  orchestrator,
	}
}

// SaveSlackConfig upserts the Slack integration. Omitted secret fields
// keep their stored values.
func (h *IntegrationHandler) SaveSlackConfig(c *fiber.Ctx) error {
	var req dto.SlackConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.integrations.UpsertSlack(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save Slack configuration",
		})
	}
	return c.JSON(dto.SavedResponse{Status: "saved"})
}

func (h *IntegrationHandler) ListSlackChannels(c *fiber.Ctx) error {
	settings, err := h.integrations.SlackSettings()
	if err != nil {
		return integrationError(c, "Slack", err)
	}

	channels, err := slack.NewClient(settings.BotToken).ListChannels(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(channels)
}

// FetchSlackHistory pulls recent channel messages and queues one review
// per message. The caller learns how many were queued before any
// analysis completes.
func (h *IntegrationHandler) FetchSlackHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	channelID := c.Query("channel_id")
	limit := c.QueryInt("limit", 20)
	if channelID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "channel_id is required",
		})
	}

	settings, err := h.integrations.SlackSettings()
	if err != nil {
		return integrationError(c, "Slack", err)
	}

	messages, err := slack.NewClient(settings.BotToken).GetChannelMessages(c.Context(), channelID, limit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	ids := make([]uint, 0, len(messages))
	for _, msg := range messages {
		ref := fmt.Sprintf("%s/%s", msg.ChannelName, msg.TS)
		review, err := h.reviewService.CreateFromSource(userID, "social_media", msg.Text, models.SourceSlack, ref, "")
		if err != nil {
			continue
		}
		ids = append(ids, review.ID)
	}
	for _, id := range ids {
		h.orchestrator.Enqueue(id)
	}

	return c.JSON(dto.QueuedResponse{Queued: len(ids), ReviewIDs: ids})
}

// HandleSlackCommand receives slash commands straight from Slack with no
// session auth. Signature verification gates it when a signing secret is
// configured; the acknowledgment must go out within Slack's timeout, so
// the analysis report arrives later on the response URL.
func (h *IntegrationHandler) HandleSlackCommand(c *fiber.Ctx) error {
	rawBody := c.Body()

	settings, err := h.integrations.SlackSettings()
	if err != nil {
		if errors.Is(err, services.ErrNotConfigured) {
			return c.JSON(dto.SlackCommandReply{Text: "Slack integration is not configured."})
		}
		return c.JSON(dto.SlackCommandReply{Text: "Request verification failed."})
	}

	if settings.SigningSecret != "" {
		err := slack.VerifySignature(
			settings.SigningSecret,
			rawBody,
			c.Get("X-Slack-Request-Timestamp"),
			c.Get("X-Slack-Signature"),
			time.Now(),
		)
		switch {
		case errors.Is(err, slack.ErrBadSignature):
			return c.Status(fiber.StatusForbidden).JSON(dto.SlackCommandReply{Text: "Invalid signature."})
		case err != nil:
			return c.Status(fiber.StatusBadRequest).JSON(dto.SlackCommandReply{Text: "Request verification failed."})
		}
	}

	params, err := url.ParseQuery(string(rawBody))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.SlackCommandReply{Text: "Request verification failed."})
	}

	parsed := slack.ParseCommandText(params.Get("text"))
	if parsed.Content == "" {
		return c.JSON(dto.SlackCommandReply{Text: slack.UsageText})
	}

	ref := models.SlackCommandRef{
		ResponseURL: params.Get("response_url"),
		ChannelID:   params.Get("channel_id"),
		UserID:      params.Get("user_id"),
	}
	refJSON, err := json.Marshal(ref)
	if err != nil {
		return c.JSON(dto.SlackCommandReply{Text: "Request verification failed."})
	}

	review, err := h.reviewService.CreateFromSource(
		h.reviewService.FallbackActorID(),
		parsed.ContentType,
		parsed.Content,
		models.SourceSlackCommand,
		string(refJSON),
		parsed.Jurisdiction,
	)
	if err != nil {
		return c.JSON(dto.SlackCommandReply{Text: "Failed to queue the review. Please try again."})
	}

	h.orchestrator.Enqueue(review.ID)
	return c.JSON(dto.SlackCommandReply{Text: slack.AckText})
}

func (h *IntegrationHandler) SaveNotionConfig(c *fiber.Ctx) error {
	var req dto.NotionConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.integrations.UpsertNotion(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save Notion configuration",
		})
	}
	return c.JSON(dto.SavedResponse{Status: "saved"})
}

func (h *IntegrationHandler) ListNotionDatabases(c *fiber.Ctx) error {
	settings, err := h.integrations.NotionSettings()
	if err != nil {
		return integrationError(c, "Notion", err)
	}

	databases, err := notion.NewClient(settings.APIKey).ListDatabases(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(databases)
}

// FetchNotionPages pulls pages from a Notion database and queues one
// review per non-empty page.
func (h *IntegrationHandler) FetchNotionPages(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	databaseID := c.Query("database_id")
	contentType := c.Query("content_type", "blog")
	limit := c.QueryInt("limit", 20)
	if databaseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "database_id is required",
		})
	}

	settings, err := h.integrations.NotionSettings()
	if err != nil {
		return integrationError(c, "Notion", err)
	}

	pages, err := notion.NewClient(settings.APIKey).GetDatabasePages(c.Context(), databaseID, limit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	ids := make([]uint, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page.Content) == "" {
			continue
		}
		review, err := h.reviewService.CreateFromSource(userID, contentType, page.Content, models.SourceNotion, page.ID, "")
		if err != nil {
			continue
		}
		ids = append(ids, review.ID)
	}
	for _, id := range ids {
		h.orchestrator.Enqueue(id)
	}

	return c.JSON(dto.QueuedResponse{Queued: len(ids), ReviewIDs: ids})
}

func (h *IntegrationHandler) Status(c *fiber.Ctx) error {
	status, err := h.integrations.Status()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load integration status",
		})
	}
	return c.JSON(status)
}

func integrationError(c *fiber.Ctx, platform string, err error) error {
	if errors.Is(err, services.ErrNotConfigured) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: platform + " not configured",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
