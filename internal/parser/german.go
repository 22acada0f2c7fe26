package parser

import (
	"regexp"
	"strconv"

	"loottracker/internal/config"
	"loottracker/internal/models"
)

// German loot line patterns.
var (
	deAddPattern     = regexp.MustCompile(`der Beute hinzugefügt`)
	deCastPattern    = regexp.MustCompile(`^(Du|.+?) (?:nimmst|nimmt) an der Verlosung (?:von|um) (?:de[mnr] |die |das |ein[en]* )?(.+?) teil\.$`)
	deRollPattern    = regexp.MustCompile(`^(Du|.+?) würfel(?:st|t) mit (Bedarf|Gier) eine (\d+) (?:auf|um) (?:de[mnr] |die |das |ein[en]* )?(.+?)[.!]$`)
	deObtainPattern  = regexp.MustCompile(`^(Du|.+?) (?:hast|hat) (?:([\d.]+) )?(.+?) erhalten\.$`)
	deLostPattern    = regexp.MustCompile(`konnte(?:st)? .+ nicht erhalten`)
	deSellPattern    = regexp.MustCompile(`^Du verkaufst (?:([\d.]+) )?(.+?) für (?:[\d.]+) Gil\.$`)
	deDiscardPattern = regexp.MustCompile(`^Du wirfst (?:([\d.]+) )?(.+?) weg\.$`)
)

// GermanParser parses German client loot lines.
type GermanParser struct {
	baseParser
}

// NewGermanParser creates the German parser variant.
func NewGermanParser(events *config.EventTypeConfig, session Session) *GermanParser {
	return &GermanParser{baseParser{events: events, session: session}}
}

// ProcessLoot classifies a German loot line.
func (p *GermanParser) ProcessLoot(message *models.LootMessage) *models.LootEvent {
	text := message.Text

	if deAddPattern.MatchString(text) {
		return p.newEvent(message, models.EventTypeAdd)
	}

	if deLostPattern.MatchString(text) {
		return p.newEvent(message, models.EventTypeLost)
	}

	if match := deRollPattern.FindStringSubmatch(text); match != nil {
		eventType := models.EventTypeGreed
		if match[2] == "Bedarf" {
			eventType = models.EventTypeNeed
		}
		event := p.newEvent(message, eventType)
		event.PlayerName, event.IsLocalPlayer = p.actor(match[1], "Du", message)
		event.Roll, _ = strconv.Atoi(match[3])
		return event
	}

	if match := deCastPattern.FindStringSubmatch(text); match != nil {
		event := p.newEvent(message, models.EventTypeCast)
		event.PlayerName, event.IsLocalPlayer = p.actor(match[1], "Du", message)
		return event
	}

	if match := deSellPattern.FindStringSubmatch(text); match != nil {
		event := p.newEvent(message, models.EventTypeSell)
		event.PlayerName, event.IsLocalPlayer = p.session.PlayerName(), true
		event.Quantity = parseQuantity(match[1])
		return event
	}

	if match := deDiscardPattern.FindStringSubmatch(text); match != nil {
		event := p.newEvent(message, models.EventTypeDiscard)
		event.PlayerName, event.IsLocalPlayer = p.session.PlayerName(), true
		event.Quantity = parseQuantity(match[1])
		return event
	}

	if match := deObtainPattern.FindStringSubmatch(text); match != nil {
		eventType := models.EventTypeObtain
		if message.MessageType == models.MessageTypeGather {
			eventType = models.EventTypeGather
		}
		event := p.newEvent(message, eventType)
		event.PlayerName, event.IsLocalPlayer = p.actor(match[1], "Du", message)
		event.Quantity = parseQuantity(match[2])
		return event
	}

	return nil
}
