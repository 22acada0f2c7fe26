package parser

import (
	"regexp"
	"strconv"

	"loottracker/internal/config"
	"loottracker/internal/models"
)

// Chinese loot line patterns.
var (
	zhAddPattern    = regexp.MustCompile(`加入了战利品`)
	zhCastPattern   = regexp.MustCompile(`^(.*?)开始掷骰。$`)
	zhRollPattern   = regexp.MustCompile(`^(.*?)掷出了(需求|贪婪)之骰。([0-9]+)点！$`)
	zhObtainPattern = regexp.MustCompile(`^(.*?)获得了(?:([0-9,]+)[个只枚把]?)?(.+?)。$`)
	zhLostPattern   = regexp.MustCompile(`未能获得`)
	zhSellPattern   = regexp.MustCompile(`^卖出了(?:([0-9,]+)[个只枚把]?)?(.+?)，获得了[0-9,]+金币。$`)
)

// ChineseParser parses Chinese client loot lines.
type ChineseParser struct {
	baseParser
}

// NewChineseParser creates the Chinese parser variant.
func NewChineseParser(events *config.EventTypeConfig, session Session) *ChineseParser {
	return &ChineseParser{baseParser{events: events, session: session}}
}

// ProcessLoot classifies a Chinese loot line. Chinese lines omit the
// subject for the local player, so an empty subject resolves to it.
func (p *ChineseParser) ProcessLoot(message *models.LootMessage) *models.LootEvent {
	text := message.Text

	if zhAddPattern.MatchString(text) {
		return p.newEvent(message, models.EventTypeAdd)
	}

	if zhLostPattern.MatchString(text) {
		return p.newEvent(message, models.EventTypeLost)
	}

	if match := zhRollPattern.FindStringSubmatch(text); match != nil {
		eventType := models.EventTypeGreed
		if match[2] == "需求" {
			eventType = models.EventTypeNeed
		}
		event := p.newEvent(message, eventType)
		event.PlayerName, event.IsLocalPlayer = p.actor(match[1], "你", message)
		event.Roll, _ = strconv.Atoi(match[3])
		return event
	}

	if match := zhCastPattern.FindStringSubmatch(text); match != nil {
		event := p.newEvent(message, models.EventTypeCast)
		event.PlayerName, event.IsLocalPlayer = p.actor(match[1], "你", message)
		return event
	}

	if match := zhSellPattern.FindStringSubmatch(text); match != nil {
		event := p.newEvent(message, models.EventTypeSell)
		event.PlayerName, event.IsLocalPlayer = p.session.PlayerName(), true
		event.Quantity = parseQuantity(match[1])
		return event
	}

	if match := zhObtainPattern.FindStringSubmatch(text); match != nil {
		eventType := models.EventTypeObtain
		if message.MessageType == models.MessageTypeGather {
			eventType = models.EventTypeGather
		}
		event := p.newEvent(message, eventType)
		event.PlayerName, event.IsLocalPlayer = p.actor(match[1], "你", message)
		event.Quantity = parseQuantity(match[2])
		return event
	}

	return nil
}
