package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const httpClientTimeout = 10 * time.Second

// HTTPSink posts batches of accepted loot events to a webhook endpoint as
// a JSON array. Failed batches are dropped after logging; retries belong
// to the receiver, not to the tracker.
type HTTPSink struct {
	queueSink
	endpoint string
	client   *http.Client
}

// NewHTTPSink creates a webhook sink.
func NewHTTPSink(endpoint string, frequency time.Duration) *HTTPSink {
	return &HTTPSink{
		queueSink: newQueueSink("http", frequency),
		endpoint:  endpoint,
		client:    &http.Client{Timeout: httpClientTimeout},
	}
}

// Flush posts all queued events in a single batch.
func (s *HTTPSink) Flush(ctx context.Context) error {
	events := s.drain()
	if len(events) == 0 {
		return nil
	}

	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to marshal loot events: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
