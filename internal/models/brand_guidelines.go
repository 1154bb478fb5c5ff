package models

import (
	"time"

	"github.com/google/uuid"
)

// BrandGuidelines is a singleton row of free-text guidelines consulted at
// analysis time. It is lazily created empty on first read.
type BrandGuidelines struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Content   string     `gorm:"type:text;not null;default:''" json:"content"`
	UpdatedAt time.Time  `json:"updated_at"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by"`
}
