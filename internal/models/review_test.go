package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestFlagsRoundTrip(t *testing.T) {
	flags := []ComplianceFlag{
		{Text: "guaranteed 10x returns", Issue: "profit promise", Severity: "high", Suggestion: "remove the return claim"},
		{Text: "to the moon", Issue: "hype language", Severity: "medium", Suggestion: "tone down"},
		{Text: "fam", Issue: "informal register", Severity: "low", Suggestion: ""},
	}

	data, err := json.Marshal(flags)
	require.NoError(t, err)

	review := Review{ComplianceFlags: datatypes.JSON(data)}
	decoded, err := review.Flags()
	require.NoError(t, err)
	assert.Equal(t, flags, decoded)
}

func TestFlagsEmptyList(t *testing.T) {
	review := Review{ComplianceFlags: datatypes.JSON([]byte("[]"))}
	decoded, err := review.Flags()
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Len(t, decoded, 0)
}

func TestFlagsNilColumn(t *testing.T) {
	var review Review
	decoded, err := review.Flags()
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Len(t, decoded, 0)
}

func TestFlagsMalformed(t *testing.T) {
	review := Review{ComplianceFlags: datatypes.JSON([]byte("{not json"))}
	_, err := review.Flags()
	assert.Error(t, err)
}

func TestContentTypeAndJurisdictionSets(t *testing.T) {
	for _, ct := range []string{"social_media", "blog", "email", "ad_copy", "crypto_marketing", "financial_product"} {
		assert.True(t, ContentTypes[ct], ct)
	}
	assert.False(t, ContentTypes["press_release"])

	for _, j := range []string{"general", "US", "UK", "CH", "EU"} {
		assert.True(t, Jurisdictions[j], j)
	}
	assert.False(t, Jurisdictions["DE"])
}
