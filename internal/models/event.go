package models

// Segment is one typed unit of a raw chat message payload.
type Segment interface {
	segment()
}

// TextSegment is a plain text portion of a message.
type TextSegment struct {
	Text string `json:"text"`
}

// ItemSegment is an inline item reference.
type ItemSegment struct {
	ItemID uint32 `json:"item_id"`
	IsHQ   bool   `json:"is_hq"`
}

// PlayerSegment is an inline player reference.
type PlayerSegment struct {
	Name    string `json:"name"`
	WorldID uint32 `json:"world_id"`
}

func (TextSegment) segment()   {}
func (ItemSegment) segment()   {}
func (PlayerSegment) segment() {}

// RawEvent is a single chat-channel message as delivered by the game
// client. The tracker only reads it; the Handled flag belongs to the
// client and is never set here.
type RawEvent struct {
	ChannelCode uint16
	Timestamp   int64
	Sender      string
	Segments    []Segment
	Handled     bool
}

// HasItemSegment reports whether any payload segment references an item.
func (e *RawEvent) HasItemSegment() bool {
	for _, seg := range e.Segments {
		if _, ok := seg.(ItemSegment); ok {
			return true
		}
	}
	return false
}
