package repository

import (
	"context"

	"github.com/google/uuid"

	"loottracker/internal/models"
)

// LootEventRepository persists accepted loot events.
type LootEventRepository interface {
	Create(ctx context.Context, event *models.LootEvent) error
	CreateBatch(ctx context.Context, events []*models.LootEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LootEvent, error)
	List(ctx context.Context, filter *models.LootHistoryFilterRequest) ([]*models.LootEvent, int, error)
}
