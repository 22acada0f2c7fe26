package models

import "fmt"

// Segment types accepted on the ingest endpoint
const (
	SegmentTypeText   = "text"
	SegmentTypeItem   = "item"
	SegmentTypePlayer = "player"
)

// SegmentRequest is the wire form of a payload segment.
type SegmentRequest struct {
	Type    string `json:"type" binding:"required,oneof=text item player"`
	Text    string `json:"text,omitempty"`
	ItemID  uint32 `json:"item_id,omitempty"`
	IsHQ    bool   `json:"is_hq,omitempty"`
	Name    string `json:"name,omitempty"`
	WorldID uint32 `json:"world_id,omitempty"`
}

// RawEventRequest is the wire form of a raw chat event.
type RawEventRequest struct {
	ChannelCode uint16           `json:"channel_code" binding:"required"`
	Timestamp   int64            `json:"timestamp,omitempty"`
	Sender      string           `json:"sender,omitempty"`
	Segments    []SegmentRequest `json:"segments" binding:"required,dive"`
}

// ToRawEvent converts the request into the internal event representation.
func (r *RawEventRequest) ToRawEvent() (*RawEvent, error) {
	event := &RawEvent{
		ChannelCode: r.ChannelCode,
		Timestamp:   r.Timestamp,
		Sender:      r.Sender,
		Segments:    make([]Segment, 0, len(r.Segments)),
	}

	for _, seg := range r.Segments {
		switch seg.Type {
		case SegmentTypeText:
			event.Segments = append(event.Segments, TextSegment{Text: seg.Text})
		case SegmentTypeItem:
			event.Segments = append(event.Segments, ItemSegment{ItemID: seg.ItemID, IsHQ: seg.IsHQ})
		case SegmentTypePlayer:
			event.Segments = append(event.Segments, PlayerSegment{Name: seg.Name, WorldID: seg.WorldID})
		default:
			return nil, fmt.Errorf("unknown segment type: %s", seg.Type)
		}
	}

	return event, nil
}

// TerritoryChangeRequest is a zone-change notification.
type TerritoryChangeRequest struct {
	ZoneID uint32 `json:"zone_id" binding:"required"`
}

// SessionUpdateRequest updates the live session context.
type SessionUpdateRequest struct {
	InCombat    *bool   `json:"in_combat,omitempty"`
	PlayerName  *string `json:"player_name,omitempty"`
	PlayerWorld *string `json:"player_world,omitempty"`
}

// LootHistoryFilterRequest filters the persisted loot history.
type LootHistoryFilterRequest struct {
	ItemID     *uint32 `form:"item_id"`
	PlayerName *string `form:"player_name"`
	EventType  *string `form:"event_type"`
	From       *int64  `form:"from"`
	To         *int64  `form:"to"`
	Page       int     `form:"page,default=1"`
	Limit      int     `form:"limit,default=50"`
}
