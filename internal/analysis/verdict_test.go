package analysis

import (
	"testing"

	"github.com/bartlabs/bart-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdictRejectsNonJSON(t *testing.T) {
	_, err := ParseVerdict([]byte("I could not analyze this content."))
	require.Error(t, err)
}

func TestParseVerdictFillsDefaults(t *testing.T) {
	v, err := ParseVerdict([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, 50, v.BrandScore)
	assert.Equal(t, 0, v.RiskScore)
	assert.Equal(t, "neutral", v.Sentiment)
	assert.InDelta(t, 0.5, v.SentimentScore, 0.0001)
	assert.Equal(t, "C", v.OverallRating)
	assert.Empty(t, v.BrandFeedback)
	assert.Empty(t, v.Summary)
	assert.NotNil(t, v.ComplianceFlags)
	assert.Len(t, v.ComplianceFlags, 0)
}

func TestNormalizeClampsScores(t *testing.T) {
	brand := 140
	risk := -3
	sentiment := 1.7
	v := Normalize(&RawVerdict{BrandScore: &brand, RiskScore: &risk, SentimentScore: &sentiment})

	assert.Equal(t, 100, v.BrandScore)
	assert.Equal(t, 0, v.RiskScore)
	assert.InDelta(t, 1.0, v.SentimentScore, 0.0001)
}

func TestNormalizeSeverity(t *testing.T) {
	raw := &RawVerdict{ComplianceFlags: []models.ComplianceFlag{
		{Issue: "a", Severity: "HIGH"},
		{Issue: "b", Severity: "low"},
		{Issue: "c", Severity: "critical"},
		{Issue: "d", Severity: ""},
	}}
	v := Normalize(raw)

	require.Len(t, v.ComplianceFlags, 4)
	assert.Equal(t, "high", v.ComplianceFlags[0].Severity)
	assert.Equal(t, "low", v.ComplianceFlags[1].Severity)
	assert.Equal(t, "medium", v.ComplianceFlags[2].Severity)
	assert.Equal(t, "medium", v.ComplianceFlags[3].Severity)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	brand := 82
	sentiment := "positive"
	raw := &RawVerdict{
		BrandScore: &brand,
		Sentiment:  &sentiment,
		ComplianceFlags: []models.ComplianceFlag{
			{Text: "moon soon", Issue: "price prediction", Severity: "severe"},
		},
	}

	first := Normalize(raw)
	second := Normalize(raw)
	assert.Equal(t, first, second)
}
