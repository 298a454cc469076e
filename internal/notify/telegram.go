package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/clearview/vista/backend/internal/contracts"
	"github.com/clearview/vista/backend/pkg/httputil"
)

const telegramAPIURL = "https://api.telegram.org/bot%s/sendMessage"

// TelegramChannel posts to the public Clearview channel via the Bot API.
type TelegramChannel struct {
	client  *httputil.Client
	token   string
	chatID  string
	baseURL string
}

// NewTelegramChannel targets the given channel. baseURL overrides the
// Telegram API host in tests; empty means production.
func NewTelegramChannel(client *httputil.Client, token, chatID, baseURL string) *TelegramChannel {
	return &TelegramChannel{
		client:  client,
		token:   token,
		chatID:  chatID,
		baseURL: baseURL,
	}
}

// Name implements Channel.
func (t *TelegramChannel) Name() string { return "telegram" }

// Send implements Channel.
func (t *TelegramChannel) Send(ctx context.Context, n *contracts.Notification) error {
	url := fmt.Sprintf(telegramAPIURL, t.token)
	if t.baseURL != "" {
		url = fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	}

	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       n.Message,
		"parse_mode": "Markdown",
	}

	resp, err := t.client.PostJSON(ctx, url, payload)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}
