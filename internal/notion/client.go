package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bartlabs/bart-backend/internal/models"
)

const (
	apiBaseURL = "https://api.notion.com/v1"
	apiVersion = "2022-06-28"
)

// Client is a minimal Notion API client: database discovery, page content
// fetch for ingestion, and backup page creation.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    apiBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type Database struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Page struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

func flattenRichText(parts []richText) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.PlainText)
	}
	return sb.String()
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body *bytes.Buffer
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(jsonData)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("notion API error (%d): %s", resp.StatusCode, apiErr.Message)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode notion response: %w", err)
		}
	}
	return nil
}

// ListDatabases returns databases visible to the integration.
func (c *Client) ListDatabases(ctx context.Context) ([]Database, error) {
	payload := map[string]interface{}{
		"filter":    map[string]string{"value": "database", "property": "object"},
		"page_size": 50,
	}
	var result struct {
		Results []struct {
			ID    string     `json:"id"`
			Title []richText `json:"title"`
		} `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/search", payload, &result); err != nil {
		return nil, err
	}

	databases := make([]Database, 0, len(result.Results))
	for _, db := range result.Results {
		title := flattenRichText(db.Title)
		if title == "" {
			title = "Untitled"
		}
		databases = append(databases, Database{ID: db.ID, Title: title})
	}
	return databases, nil
}

// GetDatabasePages fetches up to limit pages from a database, including
// their flattened text content. Pages whose content cannot be fetched are
// returned with empty content rather than failing the batch.
func (c *Client) GetDatabasePages(ctx context.Context, databaseID string, limit int) ([]Page, error) {
	payload := map[string]interface{}{"page_size": limit}
	var result struct {
		Results []struct {
			ID         string `json:"id"`
			URL        string `json:"url"`
			Properties map[string]struct {
				Type  string     `json:"type"`
				Title []richText `json:"title"`
			} `json:"properties"`
		} `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", payload, &result); err != nil {
		return nil, err
	}

	pages := make([]Page, 0, len(result.Results))
	for _, p := range result.Results {
		title := "Untitled"
		for _, prop := range p.Properties {
			if prop.Type == "title" && len(prop.Title) > 0 {
				title = flattenRichText(prop.Title)
				break
			}
		}
		content, err := c.getPageContent(ctx, p.ID)
		if err != nil {
			content = ""
		}
		pages = append(pages, Page{ID: p.ID, Title: title, URL: p.URL, Content: content})
	}
	return pages, nil
}

// getPageContent flattens the rich text of a page's top-level blocks.
func (c *Client) getPageContent(ctx context.Context, pageID string) (string, error) {
	var result struct {
		Results []map[string]json.RawMessage `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/blocks/"+pageID+"/children", nil, &result); err != nil {
		return "", err
	}

	var lines []string
	for _, block := range result.Results {
		var blockType string
		if raw, ok := block["type"]; ok {
			if err := json.Unmarshal(raw, &blockType); err != nil {
				continue
			}
		}
		raw, ok := block[blockType]
		if !ok {
			continue
		}
		var data struct {
			RichText []richText `json:"rich_text"`
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			continue
		}
		if len(data.RichText) > 0 {
			lines = append(lines, flattenRichText(data.RichText))
		}
	}
	return strings.Join(lines, "\n"), nil
}

// CreateReviewPage creates a backup page for a completed review in the
// configured database.
func (c *Client) CreateReviewPage(ctx context.Context, databaseID string, review *models.Review) error {
	rating := "C"
	if review.OverallRating != nil {
		rating = *review.OverallRating
	}
	summary := ""
	if review.Summary != nil {
		summary = *review.Summary
	}
	brandScore, riskScore := 0, 0
	if review.BrandScore != nil {
		brandScore = *review.BrandScore
	}
	if review.RiskScore != nil {
		riskScore = *review.RiskScore
	}

	title := fmt.Sprintf("Review #%d - Rating %s", review.ID, rating)
	children := []map[string]interface{}{
		paragraph(fmt.Sprintf("Brand score: %d/100 · Risk score: %d/100 · Content type: %s · Jurisdiction: %s",
			brandScore, riskScore, review.ContentType, review.Jurisdiction)),
	}
	if summary != "" {
		children = append(children, paragraph(summary))
	}
	if flags, err := review.Flags(); err == nil {
		for _, flag := range flags {
			children = append(children, paragraph(fmt.Sprintf("[%s] %s - %s", strings.ToUpper(flag.Severity), flag.Issue, flag.Suggestion)))
		}
	}
	// Notion caps rich text at 2000 chars per block
	children = append(children, paragraph(truncate(review.OriginalContent, 2000)))

	payload := map[string]interface{}{
		"parent": map[string]string{"database_id": databaseID},
		"properties": map[string]interface{}{
			"Name": map[string]interface{}{
				"title": []map[string]interface{}{
					{"text": map[string]string{"content": title}},
				},
			},
		},
		"children": children,
	}
	return c.do(ctx, http.MethodPost, "/pages", payload, nil)
}

func paragraph(text string) map[string]interface{} {
	return map[string]interface{}{
		"object": "block",
		"type":   "paragraph",
		"paragraph": map[string]interface{}{
			"rich_text": []map[string]interface{}{
				{"type": "text", "text": map[string]string{"content": text}},
			},
		},
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
