package slack

import (
	"fmt"
	"strings"

	"github.com/bartlabs/bart-backend/internal/models"
)

// LegalReviewThreshold is the risk score above which (exclusive) a report
// carries an explicit legal-review escalation notice.
const LegalReviewThreshold = 70

// maxReportFlags caps how many compliance flags a report lists in full.
const maxReportFlags = 3

// --- Block Kit types ---

type Block struct {
	Type     string       `json:"type"`
	Text     *TextObject  `json:"text,omitempty"`
	Fields   []TextObject `json:"fields,omitempty"`
	Elements []Element    `json:"elements,omitempty"`
}

type TextObject struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type Element struct {
	Type string      `json:"type"`
	Text *TextObject `json:"text,omitempty"`
	URL  string      `json:"url,omitempty"`
}

// FormatReport renders a completed review as Block Kit blocks: rating
// header, score summary, textual summary, the first three compliance flags
// with a total count, an escalation notice when the risk score exceeds
// LegalReviewThreshold, and a deep link when baseURL is configured.
func FormatReport(review *models.Review, baseURL string) []Block {
	rating := strVal(review.OverallRating, "C")
	brandScore := intVal(review.BrandScore, 0)
	riskScore := intVal(review.RiskScore, 0)
	sentiment := strVal(review.Sentiment, "neutral")

	riskField := fmt.Sprintf("*Risk Score:*\n%d/100", riskScore)
	if riskScore > LegalReviewThreshold {
		riskField += " :warning:"
	}

	blocks := []Block{
		{
			Type: "header",
			Text: &TextObject{Type: "plain_text", Text: fmt.Sprintf("Content Review Report — Rating %s", rating), Emoji: true},
		},
		{
			Type: "section",
			Fields: []TextObject{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Brand Score:*\n%d/100", brandScore)},
				{Type: "mrkdwn", Text: riskField},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Sentiment:*\n%s", sentiment)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Content Type:*\n%s", review.ContentType)},
			},
		},
	}

	if summary := strVal(review.Summary, ""); summary != "" {
		blocks = append(blocks, Block{
			Type: "section",
			Text: &TextObject{Type: "mrkdwn", Text: summary},
		})
	}

	flags, err := review.Flags()
	if err == nil && len(flags) > 0 {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("*Compliance Flags (%d):*\n", len(flags)))
		for i, flag := range flags {
			if i >= maxReportFlags {
				sb.WriteString(fmt.Sprintf("_…and %d more_\n", len(flags)-maxReportFlags))
				break
			}
			sb.WriteString(fmt.Sprintf("• [%s] %s\n", strings.ToUpper(flag.Severity), flag.Issue))
		}
		blocks = append(blocks, Block{
			Type: "section",
			Text: &TextObject{Type: "mrkdwn", Text: sb.String()},
		})
	}

	if riskScore > LegalReviewThreshold {
		blocks = append(blocks, Block{
			Type: "section",
			Text: &TextObject{
				Type: "mrkdwn",
				Text: fmt.Sprintf(":rotating_light: *Legal review recommended* — risk score %d exceeds the legal review threshold (%d).", riskScore, LegalReviewThreshold),
			},
		})
	}

	if baseURL != "" {
		blocks = append(blocks, Block{
			Type: "actions",
			Elements: []Element{
				{
					Type: "button",
					Text: &TextObject{Type: "plain_text", Text: "View Full Report", Emoji: true},
					URL:  fmt.Sprintf("%s/reviews/%d", strings.TrimRight(baseURL, "/"), review.ID),
				},
			},
		})
	}

	return blocks
}

// FallbackText is the plain-text rendering used as notification fallback.
func FallbackText(review *models.Review) string {
	return fmt.Sprintf("Content review completed — rating %s, brand score %d, risk score %d",
		strVal(review.OverallRating, "C"), intVal(review.BrandScore, 0), intVal(review.RiskScore, 0))
}

func strVal(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

func intVal(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
