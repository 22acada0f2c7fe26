package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSSink publishes accepted loot events to a NATS subject, one message
// per event.
type NATSSink struct {
	queueSink
	conn    *nats.Conn
	subject string
}

// NewNATSSink creates a messaging sink on an established connection.
func NewNATSSink(conn *nats.Conn, subject string, frequency time.Duration) *NATSSink {
	return &NATSSink{
		queueSink: newQueueSink("nats", frequency),
		conn:      conn,
		subject:   subject,
	}
}

// Flush publishes all queued events.
func (s *NATSSink) Flush(ctx context.Context) error {
	events := s.drain()
	if len(events) == 0 {
		return nil
	}

	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal loot event: %w", err)
		}
		if err := s.conn.Publish(s.subject, payload); err != nil {
			return fmt.Errorf("failed to publish loot event: %w", err)
		}
	}

	return s.conn.Flush()
}
