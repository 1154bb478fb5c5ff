package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/bartlabs/bart-backend/internal/models"
)

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	client := NewClient("secret_test")
	httpmock.ActivateNonDefault(client.httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestListDatabases(t *testing.T) {
	client := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodPost, apiBaseURL+"/search",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer secret_test", req.Header.Get("Authorization"))
			assert.Equal(t, apiVersion, req.Header.Get("Notion-Version"))
			return httpmock.NewJsonResponse(200, map[string]interface{}{
				"results": []map[string]interface{}{
					{
						"id": "db-1",
						"title": []map[string]string{
							{"plain_text": "Marketing "},
							{"plain_text": "Backlog"},
						},
					},
					{"id": "db-2", "title": []map[string]string{}},
				},
			})
		})

	databases, err := client.ListDatabases(context.Background())
	require.NoError(t, err)
	require.Len(t, databases, 2)
	assert.Equal(t, Database{ID: "db-1", Title: "Marketing Backlog"}, databases[0])
	assert.Equal(t, "Untitled", databases[1].Title)
}

func TestListDatabasesAPIError(t *testing.T) {
	client := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodPost, apiBaseURL+"/search",
		httpmock.NewStringResponder(401, `{"message":"API token is invalid."}`))

	_, err := client.ListDatabases(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "API token is invalid.")
}

func TestGetDatabasePages(t *testing.T) {
	client := newMockedClient(t)

	httpmock.RegisterResponder(http.MethodPost, apiBaseURL+"/databases/db-1/query",
		httpmock.NewStringResponder(200, `{
			"results": [
				{
					"id": "page-1",
					"url": "https://notion.so/page-1",
					"properties": {
						"Name": {"type": "title", "title": [{"plain_text": "Launch announcement"}]}
					}
				},
				{
					"id": "page-2",
					"url": "https://notion.so/page-2",
					"properties": {}
				}
			]
		}`))

	httpmock.RegisterResponder(http.MethodGet, apiBaseURL+"/blocks/page-1/children",
		httpmock.NewStringResponder(200, `{
			"results": [
				{"type": "paragraph", "paragraph": {"rich_text": [{"plain_text": "First line."}]}},
				{"type": "divider", "divider": {}},
				{"type": "heading_1", "heading_1": {"rich_text": [{"plain_text": "Second line."}]}}
			]
		}`))
	httpmock.RegisterResponder(http.MethodGet, apiBaseURL+"/blocks/page-2/children",
		httpmock.NewStringResponder(500, `{"message":"boom"}`))

	pages, err := client.GetDatabasePages(context.Background(), "db-1", 20)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, "page-1", pages[0].ID)
	assert.Equal(t, "Launch announcement", pages[0].Title)
	assert.Equal(t, "https://notion.so/page-1", pages[0].URL)
	assert.Equal(t, "First line.\nSecond line.", pages[0].Content)

	assert.Equal(t, "Untitled", pages[1].Title)
	assert.Empty(t, pages[1].Content)
}

func TestCreateReviewPage(t *testing.T) {
	client := newMockedClient(t)

	rating := "B"
	summary := "Mostly on brand."
	brandScore := 78
	riskScore := 30
	flags, err := json.Marshal([]models.ComplianceFlag{
		{Severity: "high", Issue: "guaranteed returns", Suggestion: "remove the claim"},
	})
	require.NoError(t, err)

	review := &models.Review{
		ContentType:     "crypto_marketing",
		Jurisdiction:    "US",
		OriginalContent: strings.Repeat("x", 2500),
		OverallRating:   &rating,
		Summary:         &summary,
		BrandScore:      &brandScore,
		RiskScore:       &riskScore,
		ComplianceFlags: datatypes.JSON(flags),
	}
	review.ID = 7

	var payload map[string]interface{}
	httpmock.RegisterResponder(http.MethodPost, apiBaseURL+"/pages",
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			return httpmock.NewStringResponse(200, `{"id":"new-page"}`), nil
		})

	require.NoError(t, client.CreateReviewPage(context.Background(), "db-backup", review))

	parent := payload["parent"].(map[string]interface{})
	assert.Equal(t, "db-backup", parent["database_id"])

	raw, err := json.Marshal(payload["properties"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Review #7")
	assert.Contains(t, string(raw), "Rating B")

	children := payload["children"].([]interface{})
	require.Len(t, children, 4)

	blob, err := json.Marshal(children)
	require.NoError(t, err)
	text := string(blob)
	assert.Contains(t, text, "Brand score: 78/100")
	assert.Contains(t, text, "Risk score: 30/100")
	assert.Contains(t, text, "Mostly on brand.")
	assert.Contains(t, text, "[HIGH] guaranteed returns")

	// content block is capped at 2000 chars
	last, err := json.Marshal(children[3])
	require.NoError(t, err)
	assert.Contains(t, string(last), strings.Repeat("x", 2000))
	assert.NotContains(t, string(last), strings.Repeat("x", 2001))
}
