package sinks

import (
	"context"
	"fmt"
	"time"

	"loottracker/internal/repository"
)

// DatabaseSink persists batches of accepted loot events through the loot
// event repository.
type DatabaseSink struct {
	queueSink
	repo repository.LootEventRepository
}

// NewDatabaseSink creates a persistence sink.
func NewDatabaseSink(repo repository.LootEventRepository, frequency time.Duration) *DatabaseSink {
	return &DatabaseSink{
		queueSink: newQueueSink("database", frequency),
		repo:      repo,
	}
}

// Flush writes all queued events in one transaction.
func (s *DatabaseSink) Flush(ctx context.Context) error {
	events := s.drain()
	if len(events) == 0 {
		return nil
	}

	if err := s.repo.CreateBatch(ctx, events); err != nil {
		return fmt.Errorf("failed to persist loot events: %w", err)
	}
	return nil
}
