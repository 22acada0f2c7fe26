package parser

import (
	"regexp"
	"strconv"
	"strings"

	"loottracker/internal/config"
	"loottracker/internal/models"
)

// English loot line patterns. Japanese and French clients receive English
// loot lines as well.
var (
	enAddPattern      = regexp.MustCompile(`added to the loot list`)
	enCastPattern     = regexp.MustCompile(`^(You|.+?) casts? (?:your|his|her|their) lot for (?:the |a |an )?(.+)\.$`)
	enRollPattern     = regexp.MustCompile(`^(You|.+?) rolls? (Need|Greed) on (?:the |a |an )?(.+?)\. (\d+)!$`)
	enObtainPattern   = regexp.MustCompile(`^(You|.+?) obtains? (?:the |a |an )?(?:([\d,]+) )?(.+?)\.$`)
	enLostPattern     = regexp.MustCompile(`^Unable to obtain |^You have lost the right to obtain `)
	enSellPattern     = regexp.MustCompile(`^You sell (?:the |a |an )?(?:([\d,]+) )?(.+?) for (?:[\d,]+) gil\.$`)
	enPurchasePattern = regexp.MustCompile(`^You purchase (?:the |a |an )?(?:([\d,]+) )?(.+?) for (?:[\d,]+) gil\.$`)
	enDiscardPattern  = regexp.MustCompile(`^You throw away (?:the |a |an )?(?:([\d,]+) )?(.+?)\.$`)
	enDesynthPattern  = regexp.MustCompile(`^You successfully desynthesize (?:the |a |an )?(.+?)\.$`)
	enCraftPattern    = regexp.MustCompile(`^(You|.+?) synthesizes? (?:the |a |an )?(.+?)(?: \x{2606})?\.$`)
	enSearchPattern   = regexp.MustCompile(`^Searching for (?:the |a |an )?(.+?)\.\.\.$`)
	enUsePattern      = regexp.MustCompile(`^(You|.+?) uses? (?:the |a |an )?(.+?)\.$`)
)

// EnglishParser parses English client loot lines.
type EnglishParser struct {
	baseParser
}

// NewEnglishParser creates the English parser variant.
func NewEnglishParser(events *config.EventTypeConfig, session Session) *EnglishParser {
	return &EnglishParser{baseParser{events: events, session: session}}
}

// ProcessLoot classifies an English loot line. Patterns are tried from the
// most to the least specific; the generic obtain/use pair comes last.
func (p *EnglishParser) ProcessLoot(message *models.LootMessage) *models.LootEvent {
	text := message.Text

	if enAddPattern.MatchString(text) {
		return p.newEvent(message, models.EventTypeAdd)
	}

	if enLostPattern.MatchString(text) {
		return p.newEvent(message, models.EventTypeLost)
	}

	if match := enRollPattern.FindStringSubmatch(text); match != nil {
		eventType := models.EventTypeGreed
		if match[2] == "Need" {
			eventType = models.EventTypeNeed
		}
		event := p.newEvent(message, eventType)
		event.PlayerName, event.IsLocalPlayer = p.actor(match[1], "You", message)
		event.Roll, _ = strconv.Atoi(match[4])
		return event
	}

	if match := enCastPattern.FindStringSubmatch(text); match != nil {
		event := p.newEvent(message, models.EventTypeCast)
		event.PlayerName, event.IsLocalPlayer = p.actor(match[1], "You", message)
		return event
	}

	if match := enSellPattern.FindStringSubmatch(text); match != nil {
		event := p.newEvent(message, models.EventTypeSell)
		event.PlayerName, event.IsLocalPlayer = p.session.PlayerName(), true
		event.Quantity = parseQuantity(match[1])
		return event
	}

	if match := enPurchasePattern.FindStringSubmatch(text); match != nil {
		event := p.newEvent(message, models.EventTypePurchase)
		event.PlayerName, event.IsLocalPlayer = p.session.PlayerName(), true
		event.Quantity = parseQuantity(match[1])
		return event
	}

	if match := enDiscardPattern.FindStringSubmatch(text); match != nil {
		event := p.newEvent(message, models.EventTypeDiscard)
		event.PlayerName, event.IsLocalPlayer = p.session.PlayerName(), true
		event.Quantity = parseQuantity(match[1])
		return event
	}

	if enDesynthPattern.MatchString(text) {
		event := p.newEvent(message, models.EventTypeDesynth)
		event.PlayerName, event.IsLocalPlayer = p.session.PlayerName(), true
		return event
	}

	if enSearchPattern.MatchString(text) {
		event := p.newEvent(message, models.EventTypeSearch)
		event.PlayerName, event.IsLocalPlayer = p.session.PlayerName(), true
		return event
	}

	if match := enCraftPattern.FindStringSubmatch(text); match != nil {
		event := p.newEvent(message, models.EventTypeCraft)
		event.PlayerName, event.IsLocalPlayer = p.actor(match[1], "You", message)
		return event
	}

	if match := enObtainPattern.FindStringSubmatch(text); match != nil {
		eventType := models.EventTypeObtain
		if message.MessageType == models.MessageTypeGather {
			eventType = models.EventTypeGather
		}
		event := p.newEvent(message, eventType)
		event.PlayerName, event.IsLocalPlayer = p.actor(match[1], "You", message)
		event.Quantity = parseQuantity(match[2])
		return event
	}

	if match := enUsePattern.FindStringSubmatch(text); match != nil && strings.HasPrefix(text, "You use") {
		event := p.newEvent(message, models.EventTypeUse)
		event.PlayerName, event.IsLocalPlayer = p.actor(match[1], "You", message)
		return event
	}

	return nil
}
