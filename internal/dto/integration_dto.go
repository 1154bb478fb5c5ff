package dto

// SlackConfigRequest is a partial update: nil fields keep their stored
// values.
type SlackConfigRequest struct {
	BotToken              *string  `json:"bot_token"`
	ChannelIDs            []string `json:"channel_ids"`
	SigningSecret         *string  `json:"signing_secret"`
	NotificationChannelID *string  `json:"notification_channel_id"`
	LegalChannelID        *string  `json:"legal_channel_id"`
}

type NotionConfigRequest struct {
	APIKey           *string  `json:"api_key"`
	DatabaseIDs      []string `json:"database_ids"`
	BackupDatabaseID *string  `json:"backup_database_id"`
}

type SavedResponse struct {
	Status string `json:"status"`
}

// SlackCommandReply is the immediate synchronous response to a slash
// command.
type SlackCommandReply struct {
	Text string `json:"text"`
}
