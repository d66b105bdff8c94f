package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

const (
	telegramAPIBase = "https://api.telegram.org"

	maxRetries     = 3
	initialBackoff = time.Second
	maxBackoff     = 10 * time.Second
)

// TelegramChannel sends notifications through the Telegram bot API.
type TelegramChannel struct {
	BotToken string
	ChatID   string

	// Client is overridable for tests; nil means a default client
	// with a 10s timeout.
	Client *http.Client
	// BaseURL is overridable for tests; empty means the public API.
	BaseURL string
}

func (TelegramChannel) Name() string { return "telegram" }

func (t TelegramChannel) Notify(ctx context.Context, subject, body string) error {
	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	base := t.BaseURL
	if base == "" {
		base = telegramAPIBase
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", base, t.BotToken)
	form := url.Values{
		"chat_id": {t.ChatID},
		"text":    {subject + "\n" + body},
	}

	return retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
			strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("telegram API returned %s", resp.Status)
		}
		return nil
	}, retry.Attempts(maxRetries), retry.Delay(initialBackoff), retry.MaxDelay(maxBackoff))
}
