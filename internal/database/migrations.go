package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// RunMigrations executes the schema migrations
func RunMigrations(db *DB) error {
	logrus.Info("Running loot database migrations...")

	migrations := []string{
		createLootEventsTable,
		createLootEventsIndexes,
	}

	for i, migration := range migrations {
		logrus.WithField("migration", i+1).Debug("Executing migration")

		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", i+1, err)
		}
	}

	logrus.Info("Loot database migrations completed successfully")
	return nil
}

const createLootEventsTable = `
CREATE TABLE IF NOT EXISTS loot_events (
    id UUID PRIMARY KEY,
    timestamp BIGINT NOT NULL,
    zone_id BIGINT NOT NULL,
    content_id BIGINT NOT NULL,
    event_type VARCHAR(20) NOT NULL,
    channel_code INTEGER NOT NULL,
    log_kind INTEGER NOT NULL,
    log_kind_name VARCHAR(50) NOT NULL DEFAULT '',
    message_type INTEGER NOT NULL,
    message_type_name VARCHAR(50) NOT NULL DEFAULT '',
    item_id BIGINT NOT NULL,
    item_name VARCHAR(100) NOT NULL DEFAULT '',
    is_hq BOOLEAN NOT NULL DEFAULT FALSE,
    player_name VARCHAR(100) NOT NULL DEFAULT '',
    is_local_player BOOLEAN NOT NULL DEFAULT FALSE,
    quantity INTEGER NOT NULL DEFAULT 1,
    roll INTEGER NOT NULL DEFAULT 0,
    winner VARCHAR(100) NOT NULL DEFAULT '',
    message TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
)`

const createLootEventsIndexes = `
CREATE INDEX IF NOT EXISTS idx_loot_events_timestamp ON loot_events (timestamp);
CREATE INDEX IF NOT EXISTS idx_loot_events_item_id ON loot_events (item_id);
CREATE INDEX IF NOT EXISTS idx_loot_events_player_name ON loot_events (player_name);
CREATE INDEX IF NOT EXISTS idx_loot_events_event_type ON loot_events (event_type)`
