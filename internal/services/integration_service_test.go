package services

import (
	"testing"

	"github.com/bartlabs/bart-backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackSettingsNotConfigured(t *testing.T) {
	svc := NewIntegrationService(setupTestDB(t))
	_, err := svc.SlackSettings()
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUpsertSlackPartialUpdateKeepsSecrets(t *testing.T) {
	svc := NewIntegrationService(setupTestDB(t))

	require.NoError(t, svc.UpsertSlack(&dto.SlackConfigRequest{
		BotToken:      strPtr("xoxb-original"),
		SigningSecret: strPtr("shhh"),
		ChannelIDs:    []string{"C1", "C2"},
	}))

	// Rotate the notification channel without resending the token.
	require.NoError(t, svc.UpsertSlack(&dto.SlackConfigRequest{
		NotificationChannelID: strPtr("C-notify"),
		ChannelIDs:            []string{"C1"},
	}))

	settings, err := svc.SlackSettings()
	require.NoError(t, err)
	assert.Equal(t, "xoxb-original", settings.BotToken)
	assert.Equal(t, "shhh", settings.SigningSecret)
	assert.Equal(t, "C-notify", settings.NotificationChannelID)
	assert.Equal(t, []string{"C1"}, settings.ChannelIDs)
}

func TestUpsertNotionPartialUpdate(t *testing.T) {
	svc := NewIntegrationService(setupTestDB(t))

	require.NoError(t, svc.UpsertNotion(&dto.NotionConfigRequest{
		APIKey:      strPtr("secret_abc"),
		DatabaseIDs: []string{"db1"},
	}))
	require.NoError(t, svc.UpsertNotion(&dto.NotionConfigRequest{
		BackupDatabaseID: strPtr("db-backup"),
		DatabaseIDs:      []string{"db1", "db2"},
	}))

	settings, err := svc.NotionSettings()
	require.NoError(t, err)
	assert.Equal(t, "secret_abc", settings.APIKey)
	assert.Equal(t, "db-backup", settings.BackupDatabaseID)
	assert.Equal(t, []string{"db1", "db2"}, settings.DatabaseIDs)
}

func TestIntegrationStatus(t *testing.T) {
	svc := NewIntegrationService(setupTestDB(t))

	status, err := svc.Status()
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"slack": false, "notion": false}, status)

	require.NoError(t, svc.UpsertSlack(&dto.SlackConfigRequest{BotToken: strPtr("xoxb")}))

	status, err = svc.Status()
	require.NoError(t, err)
	assert.True(t, status["slack"])
	assert.False(t, status["notion"])
}
