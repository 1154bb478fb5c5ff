package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bartlabs/bart-backend/internal/dto"
	"github.com/bartlabs/bart-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotEnoughReviews = errors.New("at least 3 completed reviews are needed for pattern analysis")

// PatternAnalyzer produces free-form aggregate insights from a prompt.
type PatternAnalyzer interface {
	AnalyzePatterns(ctx context.Context, prompt string) (map[string]interface{}, error)
}

type DashboardService struct {
	db       *gorm.DB
	analyzer PatternAnalyzer
	settings *SettingsService
}

func NewDashboardService(db *gorm.DB, analyzer PatternAnalyzer, settings *SettingsService) *DashboardService {
	return &DashboardService{db: db, analyzer: analyzer, settings: settings}
}

// Stats aggregates review counts and verdict distributions. Admins see
// the whole workspace, everyone else only their own reviews.
func (s *DashboardService) Stats(userID uuid.UUID, isAdmin bool) (*dto.DashboardStats, error) {
	scoped := func(q *gorm.DB) *gorm.DB {
		if isAdmin {
			return q
		}
		return q.Where("user_id = ?", userID)
	}

	var total int64
	if err := scoped(s.db.Model(&models.Review{})).Count(&total).Error; err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	var thisWeek int64
	if err := scoped(s.db.Model(&models.Review{})).Where("created_at >= ?", weekAgo).Count(&thisWeek).Error; err != nil {
		return nil, err
	}

	var completed []models.Review
	if err := scoped(s.db.Where("status = ?", models.StatusCompleted)).Find(&completed).Error; err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{
		TotalReviews:    total,
		ReviewsThisWeek: thisWeek,
		TopIssues:       []string{},
		RatingDist:      map[string]int{"A": 0, "B": 0, "C": 0, "D": 0, "F": 0},
		SentimentDist:   map[string]int{"positive": 0, "neutral": 0, "negative": 0},
		ContentTypeDist: map[string]int{},
	}

	var scoreSum, scoreCount int
	issueCounts := map[string]int{}
	for i := range completed {
		r := &completed[i]
		if r.BrandScore != nil {
			scoreSum += *r.BrandScore
			scoreCount++
		}
		if r.OverallRating != nil {
			if _, ok := stats.RatingDist[*r.OverallRating]; ok {
				stats.RatingDist[*r.OverallRating]++
			}
		}
		if r.Sentiment != nil {
			if _, ok := stats.SentimentDist[*r.Sentiment]; ok {
				stats.SentimentDist[*r.Sentiment]++
			}
		}
		stats.ContentTypeDist[r.ContentType]++

		flags, err := r.Flags()
		if err != nil {
			continue
		}
		for _, f := range flags {
			if f.Issue == "" {
				continue
			}
			issue := f.Issue
			if len(issue) > 80 {
				issue = issue[:80]
			}
			issueCounts[issue]++
		}
	}
	if scoreCount > 0 {
		avg := math.Round(float64(scoreSum)/float64(scoreCount)*10) / 10
		stats.AvgBrandScore = &avg
	}
	stats.TopIssues = topIssues(issueCounts, 5)

	var recent []models.Review
	if err := scoped(s.db.Preload("User")).Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
		return nil, err
	}
	stats.RecentReviews = make([]dto.ReviewResponse, 0, len(recent))
	for i := range recent {
		stats.RecentReviews = append(stats.RecentReviews, toReviewResponse(&recent[i]))
	}

	return stats, nil
}

func topIssues(counts map[string]int, limit int) []string {
	type issueCount struct {
		issue string
		count int
	}
	ranked := make([]issueCount, 0, len(counts))
	for issue, count := range counts {
		ranked = append(ranked, issueCount{issue, count})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].count > ranked[j].count })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	issues := make([]string, 0, len(ranked))
	for _, ic := range ranked {
		issues = append(issues, ic.issue)
	}
	return issues
}

// reviewDigest is the per-review summary fed to the pattern analysis
// prompt, deliberately excluding the content body.
type reviewDigest struct {
	ContentType  string   `json:"content_type"`
	Jurisdiction string   `json:"jurisdiction"`
	Rating       *string  `json:"rating"`
	BrandScore   *int     `json:"brand_score"`
	RiskScore    *int     `json:"risk_score"`
	Sentiment    *string  `json:"sentiment"`
	TopFlags     []string `json:"top_flags"`
}

// AnalyzePatterns summarizes the latest completed reviews and asks the
// analysis engine for cross-review insights. Requires at least 3
// completed reviews in scope.
func (s *DashboardService) AnalyzePatterns(ctx context.Context, userID uuid.UUID, isAdmin bool) (map[string]interface{}, error) {
	q := s.db.Where("status = ?", models.StatusCompleted)
	if !isAdmin {
		q = q.Where("user_id = ?", userID)
	}

	var reviews []models.Review
	if err := q.Order("created_at DESC").Limit(50).Find(&reviews).Error; err != nil {
		return nil, err
	}
	if len(reviews) < 3 {
		return nil, ErrNotEnoughReviews
	}

	digests := make([]reviewDigest, 0, len(reviews))
	for i := range reviews {
		r := &reviews[i]
		jurisdiction := r.Jurisdiction
		if jurisdiction == "" {
			jurisdiction = "general"
		}
		d := reviewDigest{
			ContentType:  r.ContentType,
			Jurisdiction: jurisdiction,
			Rating:       r.OverallRating,
			BrandScore:   r.BrandScore,
			RiskScore:    r.RiskScore,
			Sentiment:    r.Sentiment,
			TopFlags:     []string{},
		}
		if flags, err := r.Flags(); err == nil {
			for _, f := range flags {
				if f.Issue == "" {
					continue
				}
				d.TopFlags = append(d.TopFlags, f.Issue)
				if len(d.TopFlags) == 3 {
					break
				}
			}
		}
		digests = append(digests, d)
	}

	summaryJSON, err := json.MarshalIndent(digests, "", "  ")
	if err != nil {
		return nil, err
	}

	guidelines := strings.TrimSpace(s.settings.GuidelineText())
	if guidelines == "" {
		guidelines = "(none configured)"
	}
	if len(guidelines) > 3000 {
		guidelines = guidelines[:3000]
	}

	prompt := fmt.Sprintf(`You are a senior brand strategist and compliance advisor at NEAR Foundation.

Below is a summary of %d recent content reviews and the current brand guidelines.

## Review History Summary
%s

## Current Brand Guidelines
%s

Analyze the review history to identify recurring patterns, sentiment trends, jurisdiction-specific issues, and areas where the brand guidelines could be improved or expanded.

Return ONLY valid JSON (no markdown fences) matching this exact schema:
{
  "patterns": ["<pattern observed across reviews>"],
  "sentiment_insights": "<overall observation about sentiment trends>",
  "jurisdiction_notes": { "<jurisdiction>": "<specific observations for that jurisdiction>" },
  "guideline_suggestions": [
    {
      "suggestion": "<specific guideline text to add or modify>",
      "rationale": "<why this would help based on observed patterns>"
    }
  ]
}`, len(digests), summaryJSON, guidelines)

	return s.analyzer.AnalyzePatterns(ctx, prompt)
}
