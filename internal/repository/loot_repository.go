package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"loottracker/internal/models"
)

type lootEventRepository struct {
	db *sqlx.DB
}

// NewLootEventRepository creates a PostgreSQL-backed loot event repository
func NewLootEventRepository(db *sqlx.DB) LootEventRepository {
	return &lootEventRepository{db: db}
}

const lootEventColumns = `id, timestamp, zone_id, content_id, event_type, channel_code,
	log_kind, log_kind_name, message_type, message_type_name,
	item_id, item_name, is_hq, player_name, is_local_player,
	quantity, roll, winner, message`

const insertLootEventQuery = `
	INSERT INTO loot_events (
		id, timestamp, zone_id, content_id, event_type, channel_code,
		log_kind, log_kind_name, message_type, message_type_name,
		item_id, item_name, is_hq, player_name, is_local_player,
		quantity, roll, winner, message
	) VALUES (
		:id, :timestamp, :zone_id, :content_id, :event_type, :channel_code,
		:log_kind, :log_kind_name, :message_type, :message_type_name,
		:item_id, :item_name, :is_hq, :player_name, :is_local_player,
		:quantity, :roll, :winner, :message
	)`

func (r *lootEventRepository) Create(ctx context.Context, event *models.LootEvent) error {
	_, err := r.db.NamedExecContext(ctx, insertLootEventQuery, event)
	if err != nil {
		return fmt.Errorf("failed to insert loot event: %w", err)
	}
	return nil
}

func (r *lootEventRepository) CreateBatch(ctx context.Context, events []*models.LootEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, event := range events {
		if _, err := tx.NamedExecContext(ctx, insertLootEventQuery, event); err != nil {
			return fmt.Errorf("failed to insert loot event %s: %w", event.ID, err)
		}
	}

	return tx.Commit()
}

func (r *lootEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LootEvent, error) {
	event := &models.LootEvent{}
	err := r.db.GetContext(ctx, event, "SELECT "+lootEventColumns+" FROM loot_events WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("loot event not found")
		}
		return nil, err
	}
	return event, nil
}

func (r *lootEventRepository) List(ctx context.Context, filter *models.LootHistoryFilterRequest) ([]*models.LootEvent, int, error) {
	builder := sq.Select(lootEventColumns).From("loot_events").PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From("loot_events").PlaceholderFormat(sq.Dollar)

	conditions := sq.And{}
	if filter.ItemID != nil {
		conditions = append(conditions, sq.Eq{"item_id": *filter.ItemID})
	}
	if filter.PlayerName != nil {
		conditions = append(conditions, sq.Eq{"player_name": *filter.PlayerName})
	}
	if filter.EventType != nil {
		conditions = append(conditions, sq.Eq{"event_type": *filter.EventType})
	}
	if filter.From != nil {
		conditions = append(conditions, sq.GtOrEq{"timestamp": *filter.From})
	}
	if filter.To != nil {
		conditions = append(conditions, sq.LtOrEq{"timestamp": *filter.To})
	}

	if len(conditions) > 0 {
		builder = builder.Where(conditions)
		countBuilder = countBuilder.Where(conditions)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count loot events: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}

	query, args, err := builder.
		OrderBy("timestamp DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	events := []*models.LootEvent{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list loot events: %w", err)
	}

	return events, total, nil
}
