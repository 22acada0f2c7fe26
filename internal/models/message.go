package models

import "fmt"

// LootMessage is the classified form of a raw event, built once the gate
// checks pass and handed to the locale parser. Only the first item
// reference and the first player reference of the payload are kept.
type LootMessage struct {
	ChannelCode     uint16      `json:"channel_code"`
	LogKind         LogKind     `json:"log_kind"`
	LogKindName     string      `json:"log_kind_name"`
	MessageType     MessageType `json:"message_type"`
	MessageTypeName string      `json:"message_type_name"`
	Text            string      `json:"text"`
	ItemID          uint32      `json:"item_id"`
	ItemName        string      `json:"item_name"`
	IsHQ            bool        `json:"is_hq"`
	PlayerName      string      `json:"player_name"`
	PlayerWorldID   uint32      `json:"player_world_id"`
}

func (m *LootMessage) String() string {
	return fmt.Sprintf("type=%s kind=%s item=%d(%s) player=%s text=%q",
		m.MessageTypeName, m.LogKindName, m.ItemID, m.ItemName, m.PlayerName, m.Text)
}
