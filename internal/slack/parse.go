package slack

import (
	"regexp"
	"strings"
)

const (
	// UsageText is returned when a slash command carries no content.
	UsageText = "Usage: `/bart [content] [--type social_media|blog|email|ad_copy|crypto_marketing|financial_product] [--jur US|UK|CH|EU|general]`"

	// AckText is the immediate slash-command acknowledgment, sent before
	// the analysis report arrives on the response URL.
	AckText = ":mag: Analyzing content… I'll post the report here when done."
)

var (
	typeFlagRe = regexp.MustCompile(`--type\s+(\S+)`)
	jurFlagRe  = regexp.MustCompile(`--jur\s+(\S+)`)
)

// ParsedCommand is the result of splitting slash-command text into flags
// and content. Content may be empty, which callers treat as a usage error.
type ParsedCommand struct {
	Content      string
	ContentType  string
	Jurisdiction string
}

// ParseCommandText extracts the optional --type and --jur flags from the
// free-form command text. Flags are stripped from the text and the
// trimmed remainder becomes the content body.
func ParseCommandText(text string) ParsedCommand {
	parsed := ParsedCommand{
		ContentType:  "social_media",
		Jurisdiction: "general",
	}

	content := text
	if m := typeFlagRe.FindStringSubmatch(content); m != nil {
		parsed.ContentType = m[1]
		content = strings.TrimSpace(strings.Replace(content, m[0], "", 1))
	}
	if m := jurFlagRe.FindStringSubmatch(content); m != nil {
		parsed.Jurisdiction = m[1]
		content = strings.TrimSpace(strings.Replace(content, m[0], "", 1))
	}
	parsed.Content = strings.TrimSpace(content)
	return parsed
}
