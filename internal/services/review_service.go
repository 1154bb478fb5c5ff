package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bartlabs/bart-backend/internal/dto"
	"github.com/bartlabs/bart-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound     = errors.New("review not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrEmptyContent       = errors.New("original_content is required")
	ErrInvalidContentType = errors.New("invalid content_type")
	ErrInvalidJurisdiction = errors.New("invalid jurisdiction")
)

// ReviewService owns review rows: creation from every ingestion source,
// owner-scoped reads and deletion. Analysis itself is the Orchestrator's
// job.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Create inserts a pending review. Validation failures happen here,
// synchronously, before any analysis is scheduled.
func (s *ReviewService) Create(userID uuid.UUID, req *dto.CreateReviewRequest) (*models.Review, error) {
	content := strings.TrimSpace(req.OriginalContent)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if !models.ContentTypes[req.ContentType] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContentType, req.ContentType)
	}

	jurisdiction := req.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = "general"
	}
	if !models.Jurisdictions[jurisdiction] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidJurisdiction, jurisdiction)
	}

	source := req.Source
	if source == "" {
		source = models.SourceManual
	}

	review := models.Review{
		UserID:          userID,
		ContentType:     req.ContentType,
		OriginalContent: content,
		Source:          source,
		SourceReference: req.SourceReference,
		Jurisdiction:    jurisdiction,
		Status:          models.StatusPending,
	}
	if err := s.db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

// CreateFromUpload extracts text from an uploaded document and inserts a
// pending review carrying the original filename.
func (s *ReviewService) CreateFromUpload(userID uuid.UUID, contentType, jurisdiction, filename string, data []byte) (*models.Review, error) {
	text, err := ExtractText(filename, data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("could not extract text from the uploaded file")
	}

	review, err := s.Create(userID, &dto.CreateReviewRequest{
		ContentType:     contentType,
		OriginalContent: text,
		Source:          models.SourceUpload,
		Jurisdiction:    jurisdiction,
	})
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(review).Update("source_filename", filename).Error; err != nil {
		return nil, err
	}
	review.SourceFilename = &filename
	return review, nil
}

// CreateFromSource inserts a pending review pulled from an external
// platform. Bulk ingestion skips the manual-path validation so platform
// content lands exactly as fetched.
func (s *ReviewService) CreateFromSource(userID uuid.UUID, contentType, content, source, sourceRef, jurisdiction string) (*models.Review, error) {
	if jurisdiction == "" {
		jurisdiction = "general"
	}
	review := models.Review{
		UserID:          userID,
		ContentType:     contentType,
		OriginalContent: content,
		Source:          source,
		SourceReference: &sourceRef,
		Jurisdiction:    jurisdiction,
		Status:          models.StatusPending,
	}
	if err := s.db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

// List returns reviews newest-first. Admins see all rows, other users only
// their own.
func (s *ReviewService) List(userID uuid.UUID, isAdmin bool, limit, offset int) ([]dto.ReviewResponse, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	query := s.db.Model(&models.Review{})
	if !isAdmin {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	query.Count(&total)

	var reviews []models.Review
	if err := query.Preload("User").Order("created_at DESC").Limit(limit).Offset(offset).Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	out := make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = toReviewResponse(&reviews[i])
	}
	return out, total, nil
}

// Get returns one review, enforcing ownership for non-admins.
func (s *ReviewService) Get(userID uuid.UUID, isAdmin bool, id uint) (*dto.ReviewResponse, error) {
	var review models.Review
	if err := s.db.Preload("User").First(&review, id).Error; err != nil {
		return nil, ErrReviewNotFound
	}
	if !isAdmin && review.UserID != userID {
		return nil, ErrAccessDenied
	}
	resp := toReviewResponse(&review)
	return &resp, nil
}

// Delete removes a review, enforcing ownership for non-admins.
func (s *ReviewService) Delete(userID uuid.UUID, isAdmin bool, id uint) error {
	var review models.Review
	if err := s.db.First(&review, id).Error; err != nil {
		return ErrReviewNotFound
	}
	if !isAdmin && review.UserID != userID {
		return ErrAccessDenied
	}
	return s.db.Delete(&review).Error
}

// FallbackActorID is the owner for reviews arriving over channels with no
// authenticated user (slash commands): the oldest admin account, or
// uuid.Nil when none exists.
func (s *ReviewService) FallbackActorID() uuid.UUID {
	var admin models.User
	if err := s.db.Where("role = ?", "admin").Order("created_at ASC").First(&admin).Error; err != nil {
		return uuid.Nil
	}
	return admin.ID
}

func toReviewResponse(review *models.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		Review: *review,
		Owner: dto.ReviewOwner{
			ID:       review.User.ID,
			Email:    review.User.Email,
			FullName: review.User.FullName,
		},
	}
}
