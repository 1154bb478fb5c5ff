package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuidelinesLazyCreate(t *testing.T) {
	svc := NewSettingsService(setupTestDB(t))

	guidelines, err := svc.GetGuidelines()
	require.NoError(t, err)
	assert.Empty(t, guidelines.Content)
	assert.Nil(t, guidelines.UpdatedBy)

	assert.Empty(t, svc.GuidelineText())
}

func TestUpdateGuidelines(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSettingsService(db)
	admin := createTestUser(t, db, "admin@example.com", "admin")

	updated, err := svc.UpdateGuidelines("Always write in active voice.", admin)
	require.NoError(t, err)
	assert.Equal(t, "Always write in active voice.", updated.Content)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, admin, *updated.UpdatedBy)

	assert.Equal(t, "Always write in active voice.", svc.GuidelineText())

	// A second update replaces, never appends.
	_, err = svc.UpdateGuidelines("Short sentences.", admin)
	require.NoError(t, err)
	assert.Equal(t, "Short sentences.", svc.GuidelineText())
}
