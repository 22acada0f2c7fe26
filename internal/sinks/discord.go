package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"loottracker/internal/models"
)

// Discord rejects messages above 2000 characters.
const discordMessageLimit = 2000

// DiscordSink posts human-readable loot lines to a Discord webhook,
// batched per flush and chunked under the message size limit.
type DiscordSink struct {
	queueSink
	webhookURL string
	client     *http.Client
}

// NewDiscordSink creates a Discord webhook sink.
func NewDiscordSink(webhookURL string, frequency time.Duration) *DiscordSink {
	return &DiscordSink{
		queueSink:  newQueueSink("discord", frequency),
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpClientTimeout},
	}
}

// Flush posts all queued events as webhook messages.
func (s *DiscordSink) Flush(ctx context.Context) error {
	events := s.drain()
	if len(events) == 0 {
		return nil
	}

	var builder strings.Builder
	for _, event := range events {
		line := formatEvent(event)
		if builder.Len()+len(line)+1 > discordMessageLimit {
			if err := s.post(ctx, builder.String()); err != nil {
				return err
			}
			builder.Reset()
		}
		builder.WriteString(line)
		builder.WriteString("\n")
	}

	if builder.Len() > 0 {
		return s.post(ctx, builder.String())
	}
	return nil
}

func (s *DiscordSink) post(ctx context.Context, content string) error {
	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("failed to marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("discord request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord returned status %d", resp.StatusCode)
	}

	return nil
}

// formatEvent renders one event as a single loot line.
func formatEvent(event *models.LootEvent) string {
	item := event.ItemName
	if item == "" {
		item = fmt.Sprintf("item #%d", event.ItemID)
	}
	if event.IsHQ {
		item += " (HQ)"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "**%s** %s", event.EventType, item)
	if event.Quantity > 1 {
		fmt.Fprintf(&builder, " x%d", event.Quantity)
	}
	if event.PlayerName != "" {
		fmt.Fprintf(&builder, " by %s", event.PlayerName)
	}
	if event.Roll > 0 {
		fmt.Fprintf(&builder, " (%d)", event.Roll)
	}
	return builder.String()
}
