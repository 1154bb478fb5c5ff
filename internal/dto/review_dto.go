package dto

import (
	"github.com/bartlabs/bart-backend/internal/models"
	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	ContentType     string  `json:"content_type"`
	OriginalContent string  `json:"original_content"`
	Source          string  `json:"source"`
	SourceReference *string `json:"source_reference"`
	Jurisdiction    string  `json:"jurisdiction"`
}

// ReviewOwner is the user summary embedded in review listings.
type ReviewOwner struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

type ReviewResponse struct {
	models.Review
	Owner ReviewOwner `json:"user"`
}

// QueuedResponse is returned by bulk ingestion endpoints before any
// analysis completes.
type QueuedResponse struct {
	Queued    int    `json:"queued"`
	ReviewIDs []uint `json:"review_ids"`
}
