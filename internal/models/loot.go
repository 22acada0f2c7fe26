package models

import (
	"fmt"

	"github.com/google/uuid"
)

// LootEventType identifies what a chat line said about an item.
type LootEventType string

// Loot event types
const (
	EventTypeAdd      LootEventType = "add"
	EventTypeCast     LootEventType = "cast"
	EventTypeCraft    LootEventType = "craft"
	EventTypeDesynth  LootEventType = "desynth"
	EventTypeDiscard  LootEventType = "discard"
	EventTypeGather   LootEventType = "gather"
	EventTypeGreed    LootEventType = "greed"
	EventTypeLost     LootEventType = "lost"
	EventTypeNeed     LootEventType = "need"
	EventTypeObtain   LootEventType = "obtain"
	EventTypePurchase LootEventType = "purchase"
	EventTypeSearch   LootEventType = "search"
	EventTypeSell     LootEventType = "sell"
	EventTypeUse      LootEventType = "use"
)

// LootEvent is the enriched, durable record of a single detected loot
// acquisition. After fan-out it is shared between consumers and must be
// treated as immutable.
type LootEvent struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	Timestamp       int64         `json:"timestamp" db:"timestamp"`
	ZoneID          uint32        `json:"zone_id" db:"zone_id"`
	ContentID       uint32        `json:"content_id" db:"content_id"`
	EventType       LootEventType `json:"event_type" db:"event_type"`
	ChannelCode     uint16        `json:"channel_code" db:"channel_code"`
	LogKind         LogKind       `json:"log_kind" db:"log_kind"`
	LogKindName     string        `json:"log_kind_name" db:"log_kind_name"`
	MessageType     MessageType   `json:"message_type" db:"message_type"`
	MessageTypeName string        `json:"message_type_name" db:"message_type_name"`
	ItemID          uint32        `json:"item_id" db:"item_id"`
	ItemName        string        `json:"item_name" db:"item_name"`
	IsHQ            bool          `json:"is_hq" db:"is_hq"`
	PlayerName      string        `json:"player_name" db:"player_name"`
	IsLocalPlayer   bool          `json:"is_local_player" db:"is_local_player"`
	Quantity        int           `json:"quantity" db:"quantity"`
	Roll            int           `json:"roll" db:"roll"`
	Winner          string        `json:"winner" db:"winner"`
	Message         string        `json:"message" db:"message"`
}

func (e *LootEvent) String() string {
	return fmt.Sprintf("%s item=%d(%s) player=%s qty=%d", e.EventType, e.ItemID, e.ItemName, e.PlayerName, e.Quantity)
}

// RollState is the resolution state of a tracked roll session.
type RollState string

// Roll states
const (
	RollStateOpen     RollState = "open"
	RollStateWon      RollState = "won"
	RollStateLeftZone RollState = "left_zone"
)

// Roller is one participant in a roll session.
type Roller struct {
	PlayerName string        `json:"player_name"`
	Roll       int           `json:"roll"`
	RollType   LootEventType `json:"roll_type"`
	HasRolled  bool          `json:"has_rolled"`
}

// LootRoll tracks one open roll-for-item opportunity. Terminal states
// (won, left_zone) are final.
type LootRoll struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uint32    `json:"item_id"`
	ItemName   string    `json:"item_name"`
	IsHQ       bool      `json:"is_hq"`
	ZoneID     uint32    `json:"zone_id"`
	ContentID  uint32    `json:"content_id"`
	State      RollState `json:"state"`
	Winner     string    `json:"winner"`
	Rollers    []Roller  `json:"rollers"`
	CreatedAt  int64     `json:"created_at"`
	ResolvedAt int64     `json:"resolved_at"`
}

// IsOpen reports whether the roll is still awaiting resolution.
func (r *LootRoll) IsOpen() bool {
	return r.State == RollStateOpen
}

// Clone returns an independent copy safe to hand to display consumers.
func (r *LootRoll) Clone() *LootRoll {
	clone := *r
	clone.Rollers = make([]Roller, len(r.Rollers))
	copy(clone.Rollers, r.Rollers)
	return &clone
}
