package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/bartlabs/bart-backend/internal/analysis"
	"github.com/bartlabs/bart-backend/internal/models"
	"github.com/bartlabs/bart-backend/internal/notion"
	"github.com/bartlabs/bart-backend/internal/slack"
	"gorm.io/gorm"
)

// Analyzer is the analysis engine contract consumed by the orchestrator.
type Analyzer interface {
	Analyze(ctx context.Context, content, contentType, guidelines, jurisdiction string) (*analysis.Verdict, error)
}

// channelPoster and backupCreator are the sink contracts; the production
// implementations are the Slack and Notion API clients, constructed per
// dispatch from the freshly loaded integration config.
type channelPoster interface {
	PostMessage(ctx context.Context, channelID, fallbackText string, blocks []slack.Block) error
}

type backupCreator interface {
	CreateReviewPage(ctx context.Context, databaseID string, review *models.Review) error
}

// Orchestrator owns the review state machine: pending -> completed|error,
// exactly one terminal transition, verdict persisted before any fan-out.
type Orchestrator struct {
	db           *gorm.DB
	analyzer     Analyzer
	settings     *SettingsService
	integrations *IntegrationService
	baseURL      string

	// Sink constructors, replaceable in tests.
	newSlackClient    func(botToken string) channelPoster
	newNotionClient   func(apiKey string) backupCreator
	postToResponseURL func(ctx context.Context, responseURL, fallbackText string, blocks []slack.Block) error
}

func NewOrchestrator(db *gorm.DB, analyzer Analyzer, settings *SettingsService, integrations *IntegrationService, baseURL string) *Orchestrator {
	return &Orchestrator{
		db:           db,
		analyzer:     analyzer,
		settings:     settings,
		integrations: integrations,
		baseURL:      baseURL,
		newSlackClient: func(botToken string) channelPoster {
			return slack.NewClient(botToken)
		},
		newNotionClient: func(apiKey string) backupCreator {
			return notion.NewClient(apiKey)
		},
		postToResponseURL: slack.PostToResponseURL,
	}
}

// Enqueue detaches Run so the triggering request returns immediately.
// Detached work is not tracked, retried or cancellable; the terminal state
// lands in the review row.
func (o *Orchestrator) Enqueue(reviewID uint) {
	go o.Run(context.Background(), reviewID)
}

// Run executes one analysis. A missing row is a benign race with deletion
// and a silent no-op. Any analysis failure terminates the review in state
// error; fan-out failures never regress a completed review.
func (o *Orchestrator) Run(ctx context.Context, reviewID uint) {
	var review models.Review
	if err := o.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return
		}
		slog.Error("failed to load review for analysis", "review_id", reviewID, "error", err)
		return
	}

	guidelines := o.settings.GuidelineText()

	verdict, err := o.analyzer.Analyze(ctx, review.OriginalContent, review.ContentType, guidelines, review.Jurisdiction)
	if err != nil {
		o.markError(reviewID, err)
		return
	}

	if err := o.markCompleted(reviewID, verdict); err != nil {
		slog.Error("failed to persist verdict", "review_id", reviewID, "error", err)
		return
	}

	// Reload the persisted row so fan-out renders exactly what was stored.
	if err := o.db.First(&review, reviewID).Error; err != nil {
		slog.Error("failed to reload review for fan-out", "review_id", reviewID, "error", err)
		return
	}
	o.fanOut(ctx, &review)
}

// markCompleted performs the pending->completed transition, writing the
// whole verdict and the status in one UPDATE.
func (o *Orchestrator) markCompleted(reviewID uint, verdict *analysis.Verdict) error {
	flags, err := json.Marshal(verdict.ComplianceFlags)
	if err != nil {
		return err
	}

	return o.db.Model(&models.Review{}).Where("id = ?", reviewID).Updates(map[string]interface{}{
		"brand_score":        verdict.BrandScore,
		"brand_feedback":     verdict.BrandFeedback,
		"compliance_flags":   flags,
		"risk_score":         verdict.RiskScore,
		"sentiment":          verdict.Sentiment,
		"sentiment_score":    verdict.SentimentScore,
		"sentiment_feedback": verdict.SentimentFeedback,
		"suggested_rewrite":  verdict.SuggestedRewrite,
		"overall_rating":     verdict.OverallRating,
		"summary":            verdict.Summary,
		"status":             models.StatusCompleted,
	}).Error
}

func (o *Orchestrator) markError(reviewID uint, cause error) {
	slog.Error("analysis failed", "review_id", reviewID, "error", cause)
	if err := o.db.Model(&models.Review{}).Where("id = ?", reviewID).Updates(map[string]interface{}{
		"status":        models.StatusError,
		"error_message": cause.Error(),
	}).Error; err != nil {
		slog.Error("failed to persist review error state", "review_id", reviewID, "error", err)
	}
}

// fanOut dispatches the completed review to every configured sink. Each
// branch is attempted independently; failures are logged and swallowed.
func (o *Orchestrator) fanOut(ctx context.Context, review *models.Review) {
	if review.Source == models.SourceSlackCommand {
		o.notifyResponseURL(ctx, review)
	} else {
		o.notifyChannel(ctx, review)
	}
	o.backupToNotion(ctx, review)
}

// notifyResponseURL delivers the report to the slash-command callback URL.
// This is the only notification path for slash-command reviews.
func (o *Orchestrator) notifyResponseURL(ctx context.Context, review *models.Review) {
	if review.SourceReference == nil {
		return
	}
	var ref models.SlackCommandRef
	if err := json.Unmarshal([]byte(*review.SourceReference), &ref); err != nil || ref.ResponseURL == "" {
		return
	}

	blocks := slack.FormatReport(review, o.baseURL)
	if err := o.postToResponseURL(ctx, ref.ResponseURL, slack.FallbackText(review), blocks); err != nil {
		slog.Error("slash command report delivery failed", "review_id", review.ID, "error", err)
	}
}

func (o *Orchestrator) notifyChannel(ctx context.Context, review *models.Review) {
	settings, err := o.integrations.SlackSettings()
	if err != nil {
		if !errors.Is(err, ErrNotConfigured) {
			slog.Error("failed to load slack settings for notification", "review_id", review.ID, "error", err)
		}
		return
	}
	if settings.BotToken == "" || settings.NotificationChannelID == "" {
		return
	}

	blocks := slack.FormatReport(review, o.baseURL)
	client := o.newSlackClient(settings.BotToken)
	if err := client.PostMessage(ctx, settings.NotificationChannelID, slack.FallbackText(review), blocks); err != nil {
		slog.Error("channel notification failed", "review_id", review.ID, "channel", settings.NotificationChannelID, "error", err)
	}
}

func (o *Orchestrator) backupToNotion(ctx context.Context, review *models.Review) {
	settings, err := o.integrations.NotionSettings()
	if err != nil {
		if !errors.Is(err, ErrNotConfigured) {
			slog.Error("failed to load notion settings for backup", "review_id", review.ID, "error", err)
		}
		return
	}
	if settings.APIKey == "" || settings.BackupDatabaseID == "" {
		return
	}

	client := o.newNotionClient(settings.APIKey)
	if err := client.CreateReviewPage(ctx, settings.BackupDatabaseID, review); err != nil {
		slog.Error("notion backup failed", "review_id", review.ID, "error", err)
	}
}
