package tracker

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loottracker/internal/config"
	"loottracker/internal/models"
	"loottracker/internal/monitoring"
	"loottracker/internal/parser"
)

// Session is the live session context the gate reads on every event.
type Session interface {
	InCombat() bool
	ZoneID() uint32
	PlayerName() string
}

// ContentResolver resolves zones and item references against the static
// reference tables.
type ContentResolver interface {
	ContentID(zoneID uint32) uint32
	IsHighEndDuty(zoneID uint32) bool
	ItemName(itemID uint32) (string, bool)
	IsEventItem(itemID uint32) bool
}

// EventSink is a downstream consumer of accepted loot events. Enqueue must
// never block and never fail the gate.
type EventSink interface {
	Name() string
	Enqueue(event *models.LootEvent)
}

// Processor is the chat event gate and classifier. HandleRawEvent is the
// single entry point for raw chat events; it runs synchronously on the
// caller and performs no blocking I/O.
type Processor struct {
	cfg     *config.Config
	session Session
	catalog ContentResolver
	parser  parser.LootParser
	state   *State
	monitor *RollMonitor
	sinks   []EventSink
}

// NewProcessor creates the gate.
func NewProcessor(cfg *config.Config, session Session, catalog ContentResolver, lootParser parser.LootParser, state *State, monitor *RollMonitor) *Processor {
	return &Processor{
		cfg:     cfg,
		session: session,
		catalog: catalog,
		parser:  lootParser,
		state:   state,
		monitor: monitor,
	}
}

// AttachSink registers a downstream consumer. Sinks receive events only
// after enrichment and only when the event passes the enable check.
func (p *Processor) AttachSink(sink EventSink) {
	p.sinks = append(p.sinks, sink)
	logrus.WithField("sink", sink.Name()).Info("Sink attached")
}

// HandleRawEvent runs the ordered gate checks, classifies the event,
// delegates to the locale parser and fans the enriched event out. It
// returns nil when the event is rejected. Rejected events leave no side
// effects. A panic anywhere below is recovered and treated as a rejection
// of that single event so the caller's event loop is never destabilized.
func (p *Processor) HandleRawEvent(raw *models.RawEvent) (event *models.LootEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("Unexpected error while handling chat event")
			monitoring.EventsRejectedTotal.WithLabelValues("panic").Inc()
			event = nil
		}
	}()

	if !p.cfg.Tracker.Enabled {
		return p.reject("disabled")
	}

	if p.cfg.Tracker.DebugLogging {
		logrus.WithFields(logrus.Fields{
			"channel": raw.ChannelCode,
			"sender":  raw.Sender,
		}).Debug("Chat event received")
	}

	if p.cfg.Tracker.RestrictInCombat && p.session.InCombat() {
		return p.reject("combat")
	}

	messageType := models.MessageType(raw.ChannelCode)
	if !messageType.IsRecognized() {
		return p.reject("message_type")
	}
	if !models.LogKindOf(raw.ChannelCode).IsRecognized() {
		return p.reject("log_kind")
	}

	if !raw.HasItemSegment() {
		return p.reject("no_item")
	}

	zoneID := p.session.ZoneID()
	contentID := p.catalog.ContentID(zoneID)
	if p.cfg.Tracker.RestrictToContent && contentID == 0 {
		return p.reject("content")
	}
	if p.cfg.Tracker.RestrictToHighEndDuty && !p.catalog.IsHighEndDuty(zoneID) {
		return p.reject("high_end_duty")
	}
	if p.cfg.Tracker.RestrictToCustomContent && !containsUint32(p.cfg.Tracker.PermittedContent, contentID) {
		return p.reject("custom_content")
	}

	message := p.classify(raw)

	if p.cfg.Tracker.RestrictToCustomItems && !containsUint32(p.cfg.Tracker.PermittedItems, message.ItemID) {
		return p.reject("custom_item")
	}

	if p.cfg.Tracker.DebugLogging {
		logrus.WithField("message", message.String()).Debug("Loot message classified")
	}

	event = p.parser.ProcessLoot(message)
	if event == nil {
		return p.reject("parser")
	}

	// Enrichment happens exactly once per accepted event.
	event.ID = uuid.New()
	event.Timestamp = time.Now().UnixMilli()
	event.ZoneID = zoneID
	event.ContentID = contentID

	enabled := p.parser.IsEnabledEvent(event)
	if enabled {
		p.state.AppendEvent(event)
	}

	// The roll monitor sees every accepted candidate, suppressed or not.
	p.monitor.Enqueue(event)

	if enabled {
		for _, sink := range p.sinks {
			sink.Enqueue(event)
		}
	}

	if p.cfg.Tracker.DebugLogging {
		logrus.WithField("event", event.String()).Debug("Loot event accepted")
	}

	monitoring.EventsAcceptedTotal.Inc()
	return event
}

// classify decomposes the raw payload into a loot message. Only the first
// item reference and the first player reference are kept; later ones are
// ignored to avoid ambiguity when a line mentions several items.
func (p *Processor) classify(raw *models.RawEvent) *models.LootMessage {
	messageType := models.MessageType(raw.ChannelCode)
	logKind := models.LogKindOf(raw.ChannelCode)

	message := &models.LootMessage{
		ChannelCode:     raw.ChannelCode,
		LogKind:         logKind,
		LogKindName:     logKind.String(),
		MessageType:     messageType,
		MessageTypeName: messageType.String(),
	}

	var text strings.Builder
	for _, segment := range raw.Segments {
		switch s := segment.(type) {
		case models.TextSegment:
			text.WriteString(s.Text)
		case models.ItemSegment:
			if message.ItemID != 0 {
				continue
			}
			message.ItemID = s.ItemID
			// Event items resolve without name or quality so downstream
			// consumers can tell them apart from catalog items.
			if p.catalog.IsEventItem(s.ItemID) {
				continue
			}
			if name, ok := p.catalog.ItemName(s.ItemID); ok {
				message.ItemName = name
			}
			message.IsHQ = s.IsHQ
		case models.PlayerSegment:
			if message.PlayerName != "" {
				continue
			}
			message.PlayerName = s.Name
			message.PlayerWorldID = s.WorldID
		}
	}
	message.Text = text.String()

	return message
}

func (p *Processor) reject(reason string) *models.LootEvent {
	if p.cfg.Tracker.DebugLogging {
		logrus.WithField("reason", reason).Debug("Chat event rejected")
	}
	monitoring.EventsRejectedTotal.WithLabelValues(reason).Inc()
	return nil
}

func containsUint32(list []uint32, value uint32) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}
	return false
}
