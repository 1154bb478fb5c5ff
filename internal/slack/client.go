package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const apiBaseURL = "https://slack.com/api"

// Client is a minimal Slack Web API client covering what the review
// pipeline needs: channel listing, history fetch and message posting.
type Client struct {
	botToken   string
	baseURL    string
	httpClient *http.Client
}

func NewClient(botToken string) *Client {
	return &Client{
		botToken:   botToken,
		baseURL:    apiBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type Channel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

type Message struct {
	TS          string `json:"ts"`
	Text        string `json:"text"`
	User        string `json:"user"`
	Channel     string `json:"channel"`
	ChannelName string `json:"channel_name"`
}

type apiEnvelope struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error"`
	Channels []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		IsPrivate bool   `json:"is_private"`
	} `json:"channels"`
	Channel *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"channel"`
	Messages []struct {
		TS      string `json:"ts"`
		Text    string `json:"text"`
		User    string `json:"user"`
		Subtype string `json:"subtype"`
	} `json:"messages"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

func (c *Client) call(ctx context.Context, method string, params url.Values) (*apiEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+method+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slack %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode slack %s response: %w", method, err)
	}
	if !env.OK {
		return nil, fmt.Errorf("slack API error: %s", env.Error)
	}
	return &env, nil
}

// ListChannels returns all public and private channels visible to the bot,
// following cursor pagination.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	cursor := ""
	for {
		params := url.Values{}
		params.Set("types", "public_channel,private_channel")
		params.Set("limit", "200")
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		env, err := c.call(ctx, "conversations.list", params)
		if err != nil {
			return nil, err
		}
		for _, ch := range env.Channels {
			channels = append(channels, Channel{ID: ch.ID, Name: ch.Name, IsPrivate: ch.IsPrivate})
		}
		cursor = env.ResponseMetadata.NextCursor
		if cursor == "" {
			break
		}
	}
	return channels, nil
}

// GetChannelMessages fetches up to limit recent messages from a channel.
// Bot and system messages (any subtype) are skipped.
func (c *Client) GetChannelMessages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	info, err := c.call(ctx, "conversations.info", url.Values{"channel": {channelID}})
	if err != nil {
		return nil, err
	}
	channelName := channelID
	if info.Channel != nil && info.Channel.Name != "" {
		channelName = info.Channel.Name
	}

	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("limit", strconv.Itoa(limit))
	env, err := c.call(ctx, "conversations.history", params)
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(env.Messages))
	for _, m := range env.Messages {
		if m.Subtype != "" || m.Text == "" {
			continue
		}
		user := m.User
		if user == "" {
			user = "unknown"
		}
		messages = append(messages, Message{
			TS:          m.TS,
			Text:        m.Text,
			User:        user,
			Channel:     channelID,
			ChannelName: channelName,
		})
	}
	return messages, nil
}

// PostMessage posts a Block Kit message to a channel.
func (c *Client) PostMessage(ctx context.Context, channelID, fallbackText string, blocks []Block) error {
	payload := map[string]interface{}{
		"channel": channelID,
		"text":    fallbackText,
	}
	if len(blocks) > 0 {
		payload["blocks"] = blocks
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack chat.postMessage failed: %w", err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode chat.postMessage response: %w", err)
	}
	if !env.OK {
		return fmt.Errorf("slack API error: %s", env.Error)
	}
	return nil
}

// PostToResponseURL delivers a Block Kit message to a slash-command
// response_url. Single attempt, no retry.
func PostToResponseURL(ctx context.Context, responseURL, fallbackText string, blocks []Block) error {
	payload := map[string]interface{}{
		"response_type": "in_channel",
		"text":          fallbackText,
	}
	if len(blocks) > 0 {
		payload["blocks"] = blocks
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("response_url post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("response_url post returned status " + strconv.Itoa(resp.StatusCode))
	}
	return nil
}
