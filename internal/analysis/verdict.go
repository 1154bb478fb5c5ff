package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bartlabs/bart-backend/internal/models"
)

// Verdict is the structured output of the analysis engine, fully defaulted.
type Verdict struct {
	BrandScore        int                     `json:"brand_score"`
	BrandFeedback     string                  `json:"brand_feedback"`
	ComplianceFlags   []models.ComplianceFlag `json:"compliance_flags"`
	RiskScore         int                     `json:"risk_score"`
	Sentiment         string                  `json:"sentiment"`
	SentimentScore    float64                 `json:"sentiment_score"`
	SentimentFeedback string                  `json:"sentiment_feedback"`
	SuggestedRewrite  string                  `json:"suggested_rewrite"`
	OverallRating     string                  `json:"overall_rating"`
	Summary           string                  `json:"summary"`
}

// RawVerdict mirrors the engine response with optional fields, decoded once
// at the boundary.
type RawVerdict struct {
	BrandScore        *int                    `json:"brand_score"`
	BrandFeedback     *string                 `json:"brand_feedback"`
	ComplianceFlags   []models.ComplianceFlag `json:"compliance_flags"`
	RiskScore         *int                    `json:"risk_score"`
	Sentiment         *string                 `json:"sentiment"`
	SentimentScore    *float64                `json:"sentiment_score"`
	SentimentFeedback *string                 `json:"sentiment_feedback"`
	SuggestedRewrite  *string                 `json:"suggested_rewrite"`
	OverallRating     *string                 `json:"overall_rating"`
	Summary           *string                 `json:"summary"`
}

// ParseVerdict decodes an engine response body. Anything that is not a JSON
// object is a hard failure; missing fields are filled by Normalize.
func ParseVerdict(data []byte) (*Verdict, error) {
	var raw RawVerdict
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("analysis response is not valid JSON: %w", err)
	}
	v := Normalize(&raw)
	return &v, nil
}

// Normalize fills missing fields with safe defaults so a partially-populated
// response never blocks persistence. Pure: same input, same output.
func Normalize(raw *RawVerdict) Verdict {
	v := Verdict{
		BrandScore:     50,
		RiskScore:      0,
		Sentiment:      "neutral",
		SentimentScore: 0.5,
		OverallRating:  "C",
	}

	if raw.BrandScore != nil {
		v.BrandScore = clampScore(*raw.BrandScore)
	}
	if raw.BrandFeedback != nil {
		v.BrandFeedback = *raw.BrandFeedback
	}
	if raw.RiskScore != nil {
		v.RiskScore = clampScore(*raw.RiskScore)
	}
	if raw.Sentiment != nil {
		v.Sentiment = *raw.Sentiment
	}
	if raw.SentimentScore != nil {
		v.SentimentScore = clampUnit(*raw.SentimentScore)
	}
	if raw.SentimentFeedback != nil {
		v.SentimentFeedback = *raw.SentimentFeedback
	}
	if raw.SuggestedRewrite != nil {
		v.SuggestedRewrite = *raw.SuggestedRewrite
	}
	if raw.OverallRating != nil {
		v.OverallRating = *raw.OverallRating
	}
	if raw.Summary != nil {
		v.Summary = *raw.Summary
	}

	v.ComplianceFlags = make([]models.ComplianceFlag, 0, len(raw.ComplianceFlags))
	for _, f := range raw.ComplianceFlags {
		f.Severity = normalizeSeverity(f.Severity)
		v.ComplianceFlags = append(v.ComplianceFlags, f)
	}

	return v
}

func normalizeSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return "high"
	case "low":
		return "low"
	default:
		return "medium"
	}
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func clampUnit(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
