package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Review statuses. A review is created pending and makes exactly one
// terminal transition, to completed or to error.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Review sources.
const (
	SourceManual       = "manual"
	SourceUpload       = "upload"
	SourceSlack        = "slack"
	SourceSlackCommand = "slack_command"
	SourceNotion       = "notion"
)

var ContentTypes = map[string]bool{
	"social_media":      true,
	"blog":              true,
	"email":             true,
	"ad_copy":           true,
	"crypto_marketing":  true,
	"financial_product": true,
}

var Jurisdictions = map[string]bool{
	"general": true,
	"US":      true,
	"UK":      true,
	"CH":      true,
	"EU":      true,
}

// ComplianceFlag is one flagged passage in the analyzed content.
// Severity is always one of high, medium, low.
type ComplianceFlag struct {
	Text       string `json:"text"`
	Issue      string `json:"issue"`
	Severity   string `json:"severity"`
	Suggestion string `json:"suggestion"`
}

// Review is one unit of submitted content plus its analysis verdict and
// lifecycle status. Verdict columns stay null until the pending->completed
// transition writes them all together.
type Review struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ContentType       string         `gorm:"size:50;not null" json:"content_type"`
	OriginalContent   string         `gorm:"type:text;not null" json:"original_content"`
	Source            string         `gorm:"size:20;not null;default:'manual'" json:"source"`
	SourceReference   *string        `gorm:"size:500" json:"source_reference"`
	SourceFilename    *string        `gorm:"size:255" json:"source_filename,omitempty"`
	Jurisdiction      string         `gorm:"size:10;not null;default:'general'" json:"jurisdiction"`
	BrandScore        *int           `json:"brand_score"`
	BrandFeedback     *string        `gorm:"type:text" json:"brand_feedback"`
	ComplianceFlags   datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"compliance_flags"`
	RiskScore         *int           `json:"risk_score"`
	Sentiment         *string        `gorm:"size:10" json:"sentiment"`
	SentimentScore    *float64       `json:"sentiment_score"`
	SentimentFeedback *string        `gorm:"type:text" json:"sentiment_feedback"`
	SuggestedRewrite  *string        `gorm:"type:text" json:"suggested_rewrite"`
	OverallRating     *string        `gorm:"size:1" json:"overall_rating"`
	Summary           *string        `gorm:"type:text" json:"summary"`
	Status            string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ErrorMessage      *string        `gorm:"type:text" json:"error_message"`
	CreatedAt         time.Time      `json:"created_at"`
	User              User           `gorm:"foreignKey:UserID" json:"-"`
}

// Flags deserializes the compliance_flags column. A null or empty column
// decodes to an empty slice, never nil error.
func (r *Review) Flags() ([]ComplianceFlag, error) {
	if len(r.ComplianceFlags) == 0 {
		return []ComplianceFlag{}, nil
	}
	var flags []ComplianceFlag
	if err := json.Unmarshal(r.ComplianceFlags, &flags); err != nil {
		return nil, err
	}
	if flags == nil {
		flags = []ComplianceFlag{}
	}
	return flags, nil
}

// SlackCommandRef is the structured source_reference stored for
// slash-command reviews.
type SlackCommandRef struct {
	ResponseURL string `json:"response_url"`
	ChannelID   string `json:"channel_id"`
	UserID      string `json:"user_id"`
}
