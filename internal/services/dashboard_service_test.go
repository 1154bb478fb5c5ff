package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bartlabs/bart-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type stubPatternAnalyzer struct {
	prompt string
	result map[string]interface{}
}

func (s *stubPatternAnalyzer) AnalyzePatterns(ctx context.Context, prompt string) (map[string]interface{}, error) {
	s.prompt = prompt
	return s.result, nil
}

func insertCompletedReview(t *testing.T, db *gorm.DB, userID uuid.UUID, rating, sentiment string, brandScore int, issues ...string) {
	t.Helper()

	flags := make([]models.ComplianceFlag, 0, len(issues))
	for _, issue := range issues {
		flags = append(flags, models.ComplianceFlag{Issue: issue, Severity: "medium"})
	}
	flagJSON, err := json.Marshal(flags)
	require.NoError(t, err)

	risk := 10
	review := models.Review{
		UserID:          userID,
		ContentType:     "social_media",
		OriginalContent: "content",
		Source:          models.SourceManual,
		Jurisdiction:    "general",
		Status:          models.StatusCompleted,
		OverallRating:   &rating,
		Sentiment:       &sentiment,
		BrandScore:      &brandScore,
		RiskScore:       &risk,
		ComplianceFlags: datatypes.JSON(flagJSON),
	}
	require.NoError(t, db.Create(&review).Error)
}

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db, &stubPatternAnalyzer{}, NewSettingsService(db))
	userID := createTestUser(t, db, "user@example.com", "user")

	insertCompletedReview(t, db, userID, "A", "positive", 90, "hype language")
	insertCompletedReview(t, db, userID, "B", "positive", 80, "hype language", "missing disclaimer")
	insertCompletedReview(t, db, userID, "C", "negative", 40, "missing disclaimer", "hype language")

	stats, err := svc.Stats(userID, false)
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalReviews)
	assert.EqualValues(t, 3, stats.ReviewsThisWeek)
	require.NotNil(t, stats.AvgBrandScore)
	assert.InDelta(t, 70.0, *stats.AvgBrandScore, 0.01)
	assert.Equal(t, 1, stats.RatingDist["A"])
	assert.Equal(t, 1, stats.RatingDist["B"])
	assert.Equal(t, 2, stats.SentimentDist["positive"])
	assert.Equal(t, 3, stats.ContentTypeDist["social_media"])
	require.NotEmpty(t, stats.TopIssues)
	assert.Equal(t, "hype language", stats.TopIssues[0])
	assert.Len(t, stats.RecentReviews, 3)
}

func TestDashboardStatsScoping(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db, &stubPatternAnalyzer{}, NewSettingsService(db))
	alice := createTestUser(t, db, "alice@example.com", "user")
	bob := createTestUser(t, db, "bob@example.com", "user")

	insertCompletedReview(t, db, alice, "A", "positive", 90)
	insertCompletedReview(t, db, bob, "F", "negative", 10)

	mine, err := svc.Stats(alice, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.TotalReviews)

	all, err := svc.Stats(alice, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.TotalReviews)
}

func TestAnalyzePatternsNeedsThreeReviews(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDashboardService(db, &stubPatternAnalyzer{}, NewSettingsService(db))
	userID := createTestUser(t, db, "user@example.com", "user")

	insertCompletedReview(t, db, userID, "A", "positive", 90)
	insertCompletedReview(t, db, userID, "B", "neutral", 70)

	_, err := svc.AnalyzePatterns(context.Background(), userID, false)
	assert.ErrorIs(t, err, ErrNotEnoughReviews)
}

func TestAnalyzePatternsBuildsPrompt(t *testing.T) {
	db := setupTestDB(t)
	analyzer := &stubPatternAnalyzer{result: map[string]interface{}{"patterns": []string{"p"}}}
	settings := NewSettingsService(db)
	svc := NewDashboardService(db, analyzer, settings)
	userID := createTestUser(t, db, "user@example.com", "user")

	_, err := settings.UpdateGuidelines("Be concise.", userID)
	require.NoError(t, err)

	insertCompletedReview(t, db, userID, "A", "positive", 90, "hype language")
	insertCompletedReview(t, db, userID, "B", "neutral", 70)
	insertCompletedReview(t, db, userID, "C", "negative", 40, "missing disclaimer")

	result, err := svc.AnalyzePatterns(context.Background(), userID, false)
	require.NoError(t, err)
	assert.Contains(t, result, "patterns")

	assert.Contains(t, analyzer.prompt, "3 recent content reviews")
	assert.Contains(t, analyzer.prompt, "Be concise.")
	assert.Contains(t, analyzer.prompt, "hype language")
	assert.Contains(t, analyzer.prompt, "## Review History Summary")
}
