package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Integration platform names.
const (
	PlatformSlack  = "slack"
	PlatformNotion = "notion"
)

// IntegrationConfig holds credentials and settings for one external
// platform. One row per platform; the settings blob decodes into the
// platform's typed settings struct.
type IntegrationConfig struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Platform  string         `gorm:"size:20;not null;uniqueIndex" json:"platform"`
	Config    datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"config"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SlackSettings is the typed form of the Slack config blob.
type SlackSettings struct {
	BotToken              string   `json:"bot_token"`
	ChannelIDs            []string `json:"channel_ids"`
	SigningSecret         string   `json:"signing_secret,omitempty"`
	NotificationChannelID string   `json:"notification_channel_id,omitempty"`
	LegalChannelID        string   `json:"legal_channel_id,omitempty"`
}

// NotionSettings is the typed form of the Notion config blob.
type NotionSettings struct {
	APIKey           string   `json:"api_key"`
	DatabaseIDs      []string `json:"database_ids"`
	BackupDatabaseID string   `json:"backup_database_id,omitempty"`
}

func (ic *IntegrationConfig) SlackSettings() (*SlackSettings, error) {
	var s SlackSettings
	if err := json.Unmarshal(ic.Config, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (ic *IntegrationConfig) NotionSettings() (*NotionSettings, error) {
	var s NotionSettings
	if err := json.Unmarshal(ic.Config, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
