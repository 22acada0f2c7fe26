package parser

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"loottracker/internal/config"
	"loottracker/internal/models"
)

// LootParser converts a classified loot message into a loot event
// candidate. A nil result means the message is not a loot event. The
// variant is selected once at startup and never changes afterwards.
type LootParser interface {
	ProcessLoot(message *models.LootMessage) *models.LootEvent
	IsEnabledEvent(event *models.LootEvent) bool
}

// Session is the slice of session context the parsers need to resolve
// "you" lines to the local player.
type Session interface {
	PlayerName() string
}

// ForLanguage selects the parser variant for a client language code.
// Japanese and French clients receive English loot lines, so they share
// the English parser.
func ForLanguage(language string, events *config.EventTypeConfig, session Session) LootParser {
	var p LootParser
	switch language {
	case "de":
		p = NewGermanParser(events, session)
	case "zh":
		p = NewChineseParser(events, session)
	default:
		p = NewEnglishParser(events, session)
	}

	logrus.WithField("language", language).Info("Loot parser selected")
	return p
}

// baseParser carries the behavior shared by every locale variant.
type baseParser struct {
	events  *config.EventTypeConfig
	session Session
}

// IsEnabledEvent reports whether the event type is enabled for the durable
// history and the sinks. The roll monitor receives every candidate
// regardless of this check.
func (p *baseParser) IsEnabledEvent(event *models.LootEvent) bool {
	switch event.EventType {
	case models.EventTypeAdd:
		return p.events.Add
	case models.EventTypeCast:
		return p.events.Cast
	case models.EventTypeCraft:
		return p.events.Craft
	case models.EventTypeDesynth:
		return p.events.Desynth
	case models.EventTypeDiscard:
		return p.events.Discard
	case models.EventTypeGather:
		return p.events.Gather
	case models.EventTypeGreed:
		return p.events.Greed
	case models.EventTypeLost:
		return p.events.Lost
	case models.EventTypeNeed:
		return p.events.Need
	case models.EventTypeObtain:
		return p.events.Obtain
	case models.EventTypePurchase:
		return p.events.Purchase
	case models.EventTypeSearch:
		return p.events.Search
	case models.EventTypeSell:
		return p.events.Sell
	case models.EventTypeUse:
		return p.events.Use
	}
	return false
}

// newEvent builds a candidate from the classified message. Enrichment
// fields (id, timestamp, zone, content) are left for the gate.
func (p *baseParser) newEvent(message *models.LootMessage, eventType models.LootEventType) *models.LootEvent {
	return &models.LootEvent{
		EventType:       eventType,
		ChannelCode:     message.ChannelCode,
		LogKind:         message.LogKind,
		LogKindName:     message.LogKindName,
		MessageType:     message.MessageType,
		MessageTypeName: message.MessageTypeName,
		ItemID:          message.ItemID,
		ItemName:        message.ItemName,
		IsHQ:            message.IsHQ,
		Message:         message.Text,
		Quantity:        1,
	}
}

// actor resolves the acting player of a line. The player payload wins when
// present; a self pronoun resolves to the local player.
func (p *baseParser) actor(subject, selfPronoun string, message *models.LootMessage) (name string, isLocal bool) {
	if message.PlayerName != "" {
		return message.PlayerName, false
	}
	if subject == selfPronoun || subject == "" {
		return p.session.PlayerName(), true
	}
	return subject, false
}

// parseQuantity parses a digit-grouped quantity capture, defaulting to 1.
func parseQuantity(raw string) int {
	if raw == "" {
		return 1
	}
	cleaned := strings.NewReplacer(",", "", ".", "").Replace(raw)
	quantity, err := strconv.Atoi(cleaned)
	if err != nil || quantity <= 0 {
		return 1
	}
	return quantity
}
