package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bartlabs/bart-backend/internal/dto"
	"github.com/bartlabs/bart-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotConfigured = errors.New("integration not configured")

// IntegrationService manages per-platform integration configs. Configs are
// read fresh on every call, never cached, so admin changes take effect on
// the next dispatch.
type IntegrationService struct {
	db *gorm.DB
}

func NewIntegrationService(db *gorm.DB) *IntegrationService {
	return &IntegrationService{db: db}
}

// GetActive returns the active config row for a platform, or
// ErrNotConfigured if absent or soft-disabled.
func (s *IntegrationService) GetActive(platform string) (*models.IntegrationConfig, error) {
	var cfg models.IntegrationConfig
	if err := s.db.Where("platform = ? AND is_active = ?", platform, true).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotConfigured
		}
		return nil, err
	}
	return &cfg, nil
}

// SlackSettings returns the active typed Slack settings.
func (s *IntegrationService) SlackSettings() (*models.SlackSettings, error) {
	cfg, err := s.GetActive(models.PlatformSlack)
	if err != nil {
		return nil, err
	}
	return cfg.SlackSettings()
}

// NotionSettings returns the active typed Notion settings.
func (s *IntegrationService) NotionSettings() (*models.NotionSettings, error) {
	cfg, err := s.GetActive(models.PlatformNotion)
	if err != nil {
		return nil, err
	}
	return cfg.NotionSettings()
}

// UpsertSlack merges a partial Slack config update into the stored
// settings. Fields the request leaves nil keep their stored values, so an
// admin can rotate the channel id without re-entering the bot token.
func (s *IntegrationService) UpsertSlack(req *dto.SlackConfigRequest) error {
	existing := models.SlackSettings{}
	var row models.IntegrationConfig
	err := s.db.Where("platform = ?", models.PlatformSlack).First(&row).Error
	found := err == nil
	if found {
		if parsed, perr := row.SlackSettings(); perr == nil {
			existing = *parsed
		}
	}

	if req.BotToken != nil {
		existing.BotToken = *req.BotToken
	}
	existing.ChannelIDs = req.ChannelIDs
	if req.SigningSecret != nil {
		existing.SigningSecret = *req.SigningSecret
	}
	if req.NotificationChannelID != nil {
		existing.NotificationChannelID = *req.NotificationChannelID
	}
	if req.LegalChannelID != nil {
		existing.LegalChannelID = *req.LegalChannelID
	}

	return s.save(models.PlatformSlack, &row, found, existing)
}

// UpsertNotion merges a partial Notion config update, same semantics as
// UpsertSlack.
func (s *IntegrationService) UpsertNotion(req *dto.NotionConfigRequest) error {
	existing := models.NotionSettings{}
	var row models.IntegrationConfig
	err := s.db.Where("platform = ?", models.PlatformNotion).First(&row).Error
	found := err == nil
	if found {
		if parsed, perr := row.NotionSettings(); perr == nil {
			existing = *parsed
		}
	}

	if req.APIKey != nil {
		existing.APIKey = *req.APIKey
	}
	existing.DatabaseIDs = req.DatabaseIDs
	if req.BackupDatabaseID != nil {
		existing.BackupDatabaseID = *req.BackupDatabaseID
	}

	return s.save(models.PlatformNotion, &row, found, existing)
}

func (s *IntegrationService) save(platform string, row *models.IntegrationConfig, found bool, settings interface{}) error {
	blob, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode %s config: %w", platform, err)
	}

	if found {
		return s.db.Model(row).Updates(map[string]interface{}{
			"config":    datatypes.JSON(blob),
			"is_active": true,
		}).Error
	}
	return s.db.Create(&models.IntegrationConfig{
		Platform: platform,
		Config:   datatypes.JSON(blob),
		IsActive: true,
	}).Error
}

// Status reports which platforms have an active config.
func (s *IntegrationService) Status() (map[string]bool, error) {
	status := map[string]bool{
		models.PlatformSlack:  false,
		models.PlatformNotion: false,
	}
	var configs []models.IntegrationConfig
	if err := s.db.Where("is_active = ?", true).Find(&configs).Error; err != nil {
		return nil, err
	}
	for _, c := range configs {
		if _, ok := status[c.Platform]; ok {
			status[c.Platform] = true
		}
	}
	return status, nil
}
