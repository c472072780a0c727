package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/bytedance/sonic"

	"smartcal/pkg"
)

// DiscordNotifier posts reminders to a Discord webhook
type DiscordNotifier struct {
	webhookURL string
	http       *http.Client
}

func NewDiscordNotifier(webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (DiscordNotifier) Name() string {
	return "discord"
}

func (d *DiscordNotifier) Notify(ctx context.Context, task pkg.Task) error {
	payload, err := sonic.Marshal(map[string]string{
		"content": fmt.Sprintf("🚨 Task #%d: %s", task.ID, task.Description),
	})
	if err != nil {
		return err
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost,
				d.webhookURL, bytes.NewReader(payload))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := d.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return fmt.Errorf("discord webhook returned %d", resp.StatusCode)
			}
			if resp.StatusCode >= 300 {
				body, _ := io.ReadAll(resp.Body)
				return retry.Unrecoverable(fmt.Errorf("discord webhook returned %d: %s", resp.StatusCode, body))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
	)
}
