package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// LogSink appends accepted loot events to a local file, one JSON object
// per line. The file is opened per flush so log rotation never holds a
// stale handle.
type LogSink struct {
	queueSink
	path string
}

// NewLogSink creates a file log sink.
func NewLogSink(path string, frequency time.Duration) *LogSink {
	return &LogSink{
		queueSink: newQueueSink("log", frequency),
		path:      path,
	}
}

// Flush writes all queued events to the log file.
func (s *LogSink) Flush(ctx context.Context) error {
	events := s.drain()
	if len(events) == 0 {
		return nil
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open loot log: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, event := range events {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to write loot log entry: %w", err)
		}
	}

	return nil
}
