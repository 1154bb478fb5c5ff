package services

import (
	"errors"

	"github.com/bartlabs/bart-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettingsService owns the brand guideline singleton.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// GetGuidelines returns the guideline row, lazily creating an empty one on
// first read.
func (s *SettingsService) GetGuidelines() (*models.BrandGuidelines, error) {
	var gl models.BrandGuidelines
	err := s.db.First(&gl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		gl = models.BrandGuidelines{Content: ""}
		if err := s.db.Create(&gl).Error; err != nil {
			return nil, err
		}
		return &gl, nil
	}
	if err != nil {
		return nil, err
	}
	return &gl, nil
}

// UpdateGuidelines replaces the guideline content in place.
func (s *SettingsService) UpdateGuidelines(content string, updatedBy uuid.UUID) (*models.BrandGuidelines, error) {
	gl, err := s.GetGuidelines()
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(gl).Updates(map[string]interface{}{
		"content":    content,
		"updated_by": updatedBy,
	}).Error; err != nil {
		return nil, err
	}
	return gl, nil
}

// GuidelineText returns the current guideline content, or "" when the
// singleton does not exist yet. Used by the orchestrator at analysis time.
func (s *SettingsService) GuidelineText() string {
	var gl models.BrandGuidelines
	if err := s.db.First(&gl).Error; err != nil {
		return ""
	}
	return gl.Content
}
