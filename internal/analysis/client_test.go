package analysis

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bartlabs/bart-backend/internal/config"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIURL = "https://api.anthropic.test/v1/messages"

func newTestClient() *Client {
	return NewClient(&config.Config{
		AnthropicAPIKey: "test-key",
		AnthropicAPIURL: testAPIURL,
		AnthropicModel:  "claude-sonnet-4-20250514",
		AnalysisTimeout: 5 * time.Second,
	})
}

func anthropicTextResponse(text string) httpmock.Responder {
	return httpmock.NewJsonResponderOrPanic(200, map[string]interface{}{
		"content": []map[string]string{{"type": "text", "text": text}},
	})
}

func TestAnalyzeRequiresAPIKey(t *testing.T) {
	client := NewClient(&config.Config{AnalysisTimeout: time.Second})
	_, err := client.Analyze(context.Background(), "gm", "social_media", "", "general")
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestAnalyzeParsesVerdict(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testAPIURL, anthropicTextResponse(
		`{"brand_score": 85, "risk_score": 12, "sentiment": "positive", "overall_rating": "B", "compliance_flags": []}`,
	))

	v, err := client.Analyze(context.Background(), "Launch day!", "social_media", "Be bold.", "US")
	require.NoError(t, err)
	assert.Equal(t, 85, v.BrandScore)
	assert.Equal(t, 12, v.RiskScore)
	assert.Equal(t, "positive", v.Sentiment)
	assert.Equal(t, "B", v.OverallRating)
}

func TestAnalyzeStripsMarkdownFences(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testAPIURL, anthropicTextResponse(
		"```json\n{\"brand_score\": 40}\n```",
	))

	v, err := client.Analyze(context.Background(), "text", "blog", "", "general")
	require.NoError(t, err)
	assert.Equal(t, 40, v.BrandScore)
}

func TestAnalyzeSurfacesEngineError(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testAPIURL, httpmock.NewJsonResponderOrPanic(429, map[string]interface{}{
		"error": map[string]string{"type": "rate_limit_error", "message": "rate limited"},
	}))

	_, err := client.Analyze(context.Background(), "text", "blog", "", "general")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestAnalyzeRejectsNonJSONText(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testAPIURL, anthropicTextResponse("Sorry, I cannot review this."))

	_, err := client.Analyze(context.Background(), "text", "blog", "", "general")
	require.Error(t, err)
}

func TestAnalyzePatterns(t *testing.T) {
	client := newTestClient()
	httpmock.ActivateNonDefault(client.httpClient)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, testAPIURL, anthropicTextResponse(
		`{"patterns": ["risk scores trend higher for crypto_marketing"], "sentiment_insights": "mostly positive"}`,
	))

	result, err := client.AnalyzePatterns(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "mostly positive", result["sentiment_insights"])
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}
