// Package slack sends red alert notifications to Slack via incoming
// webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linnemanlabs/aftercare/internal/triage"
)

const httpTimeout = 10 * time.Second

// Notifier posts alerts to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a new Slack notifier. If webhookURL is empty, Send is a no-op.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// Send posts an alert to the configured Slack webhook.
// If no webhook URL is configured, it returns nil immediately.
func (n *Notifier) Send(ctx context.Context, al *triage.Alert) error {
	if n.webhookURL == "" {
		return nil
	}

	msg := buildMessage(al)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func buildMessage(al *triage.Alert) map[string]any {
	return map[string]any{
		"blocks": []map[string]any{
			headerBlock(al),
			{"type": "divider"},
			fieldsBlock(al),
			{"type": "divider"},
			contextBlock(al),
		},
	}
}

func headerBlock(al *triage.Alert) map[string]any {
	text := fmt.Sprintf("%s Red Alert: patient %s", levelEmoji(al.Level), al.PatientID)

	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": text,
		},
	}
}

func fieldsBlock(al *triage.Alert) map[string]any {
	symptoms := strings.Join(al.Symptoms, ", ")
	if symptoms == "" {
		symptoms = "none reported"
	}

	fields := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Level:* %s", al.Level),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Score:* %d", al.Score),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Status:* %s", al.Status),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Symptoms:* %s", symptoms),
		},
	}

	return map[string]any{
		"type":   "section",
		"fields": fields,
	}
}

func contextBlock(al *triage.Alert) map[string]any {
	elements := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("aftercare • alert %s • %s", al.ID, al.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")),
		},
	}

	return map[string]any{
		"type":     "context",
		"elements": elements,
	}
}

func levelEmoji(level triage.Level) string {
	switch level {
	case triage.LevelRed:
		return "\U0001f534" // red circle
	case triage.LevelYellow:
		return "\U0001f7e1" // yellow circle
	default:
		return "\U0001f7e2" // green circle
	}
}
