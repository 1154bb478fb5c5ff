package services

import (
	"testing"

	"github.com/bartlabs/bart-backend/internal/dto"
	"github.com/bartlabs/bart-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)
	userID := createTestUser(t, db, "user@example.com", "user")

	review, err := svc.Create(userID, &dto.CreateReviewRequest{
		ContentType:     "blog",
		OriginalContent: "  A post about launches.  ",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, review.Status)
	assert.Equal(t, models.SourceManual, review.Source)
	assert.Equal(t, "general", review.Jurisdiction)
	assert.Equal(t, "A post about launches.", review.OriginalContent)
	assert.Nil(t, review.BrandScore)
}

func TestCreateReviewValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)
	userID := createTestUser(t, db, "user@example.com", "user")

	_, err := svc.Create(userID, &dto.CreateReviewRequest{ContentType: "blog", OriginalContent: "   "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = svc.Create(userID, &dto.CreateReviewRequest{ContentType: "press_release", OriginalContent: "x"})
	assert.ErrorIs(t, err, ErrInvalidContentType)

	_, err = svc.Create(userID, &dto.CreateReviewRequest{ContentType: "blog", OriginalContent: "x", Jurisdiction: "DE"})
	assert.ErrorIs(t, err, ErrInvalidJurisdiction)
}

func TestListScopesToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)
	alice := createTestUser(t, db, "alice@example.com", "user")
	bob := createTestUser(t, db, "bob@example.com", "user")

	_, err := svc.Create(alice, &dto.CreateReviewRequest{ContentType: "blog", OriginalContent: "alice post"})
	require.NoError(t, err)
	_, err = svc.Create(bob, &dto.CreateReviewRequest{ContentType: "blog", OriginalContent: "bob post"})
	require.NoError(t, err)

	mine, total, err := svc.List(alice, false, 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, "alice post", mine[0].OriginalContent)

	all, total, err := svc.List(alice, true, 50, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}

func TestGetEnforcesOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)
	alice := createTestUser(t, db, "alice@example.com", "user")
	bob := createTestUser(t, db, "bob@example.com", "user")

	review, err := svc.Create(alice, &dto.CreateReviewRequest{ContentType: "blog", OriginalContent: "private"})
	require.NoError(t, err)

	_, err = svc.Get(bob, false, review.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	got, err := svc.Get(bob, true, review.ID)
	require.NoError(t, err)
	assert.Equal(t, review.ID, got.ID)

	_, err = svc.Get(alice, false, 9999)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)
	alice := createTestUser(t, db, "alice@example.com", "user")
	bob := createTestUser(t, db, "bob@example.com", "user")

	review, err := svc.Create(alice, &dto.CreateReviewRequest{ContentType: "blog", OriginalContent: "to delete"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(bob, false, review.ID), ErrAccessDenied)
	require.NoError(t, svc.Delete(alice, false, review.ID))
	assert.ErrorIs(t, svc.Delete(alice, false, review.ID), ErrReviewNotFound)
}

func TestFallbackActorID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	assert.Equal(t, uuid.Nil, svc.FallbackActorID())

	admin := createTestUser(t, db, "admin@example.com", "admin")
	createTestUser(t, db, "user@example.com", "user")
	assert.Equal(t, admin, svc.FallbackActorID())
}

func TestCreateFromSourceSkipsValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)
	userID := createTestUser(t, db, "user@example.com", "user")

	review, err := svc.CreateFromSource(userID, "social_media", "raw slack text", models.SourceSlack, "general/1724832000.000100", "")
	require.NoError(t, err)

	assert.Equal(t, models.SourceSlack, review.Source)
	assert.Equal(t, "general", review.Jurisdiction)
	require.NotNil(t, review.SourceReference)
	assert.Equal(t, "general/1724832000.000100", *review.SourceReference)
}
