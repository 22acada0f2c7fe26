package tracker

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"loottracker/internal/catalog"
	"loottracker/internal/config"
	"loottracker/internal/models"
	"loottracker/internal/parser"
	"loottracker/internal/session"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Tracker: config.TrackerConfig{
			Enabled:  true,
			Language: "en",
		},
		Events: config.EventTypeConfig{
			Add: true, Cast: true, Craft: true, Desynth: true,
			Discard: true, Gather: true, Greed: true, Lost: true,
			Need: true, Obtain: true, Purchase: true, Search: true,
			Sell: true, Use: true,
		},
	}
}

func newTestCatalog() *catalog.Catalog {
	return catalog.FromData(&catalog.Data{
		Contents: []catalog.Content{
			{ID: 5001, Name: "The Copied Factory"},
			{ID: 5002, Name: "The Epic of Alexander (Ultimate)", HighEnd: true},
		},
		ZoneContent: map[uint32]uint32{100: 5001, 200: 5002},
		Items: []catalog.Item{
			{ID: 1234, Name: "Potion"},
			{ID: 4001, Name: "Allagan Tomestone of Poetics"},
		},
		EventItems: []catalog.Item{
			{ID: 2001, Name: "Bombard Core"},
		},
	})
}

func newTestProcessor(cfg *config.Config) (*Processor, *State, *RollMonitor, *session.Session) {
	sess := session.New()
	sess.SetPlayer("Alphinaud Leveilleur", "Gilgamesh")

	state := NewState()
	monitor := NewRollMonitor(state, time.Second)
	lootParser := parser.ForLanguage(cfg.Tracker.Language, &cfg.Events, sess)
	processor := NewProcessor(cfg, sess, newTestCatalog(), lootParser, state, monitor)
	return processor, state, monitor, sess
}

func rawObtain(channelCode uint16, text string, itemID uint32) *models.RawEvent {
	return &models.RawEvent{
		ChannelCode: channelCode,
		Segments: []models.Segment{
			models.TextSegment{Text: text},
			models.ItemSegment{ItemID: itemID},
		},
	}
}

func TestHandleRawEventAccepted(t *testing.T) {
	processor, state, monitor, sess := newTestProcessor(newTestConfig())
	sess.SetZone(100, 5001)

	event := processor.HandleRawEvent(rawObtain(0x0E, "You obtain a Potion.", 1234))
	if event == nil {
		t.Fatal("expected event to be accepted")
	}

	if event.EventType != models.EventTypeObtain {
		t.Errorf("event type = %s, want %s", event.EventType, models.EventTypeObtain)
	}
	if event.ItemID != 1234 || event.ItemName != "Potion" {
		t.Errorf("item = %d(%s), want 1234(Potion)", event.ItemID, event.ItemName)
	}
	if event.PlayerName != "Alphinaud Leveilleur" || !event.IsLocalPlayer {
		t.Errorf("player = %s local=%v, want local player", event.PlayerName, event.IsLocalPlayer)
	}
	if event.ID == uuid.Nil {
		t.Error("expected event id to be assigned")
	}
	if event.Timestamp == 0 {
		t.Error("expected timestamp to be assigned")
	}
	if event.ZoneID != 100 || event.ContentID != 5001 {
		t.Errorf("zone = %d content = %d, want 100/5001", event.ZoneID, event.ContentID)
	}

	if state.EventCount() != 1 {
		t.Errorf("event history size = %d, want 1", state.EventCount())
	}
	if monitor.queue.Len() != 1 {
		t.Errorf("monitor queue depth = %d, want 1", monitor.queue.Len())
	}
}

func TestHandleRawEventRejections(t *testing.T) {
	tests := []struct {
		name      string
		configure func(cfg *config.Config, sess *session.Session)
		raw       *models.RawEvent
	}{
		{
			name: "tracker disabled",
			configure: func(cfg *config.Config, sess *session.Session) {
				cfg.Tracker.Enabled = false
			},
			raw: rawObtain(0x0E, "You obtain a Potion.", 1234),
		},
		{
			name: "in combat",
			configure: func(cfg *config.Config, sess *session.Session) {
				cfg.Tracker.RestrictInCombat = true
				sess.SetInCombat(true)
			},
			raw: rawObtain(0x0E, "You obtain a Potion.", 1234),
		},
		{
			name:      "unrecognized message type",
			configure: func(cfg *config.Config, sess *session.Session) {},
			raw:       rawObtain(0x0003, "You obtain a Potion.", 1234),
		},
		{
			name:      "no item segment",
			configure: func(cfg *config.Config, sess *session.Session) {},
			raw: &models.RawEvent{
				ChannelCode: 0x0E,
				Segments: []models.Segment{
					models.TextSegment{Text: "You obtain a Potion."},
				},
			},
		},
		{
			name: "outside content",
			configure: func(cfg *config.Config, sess *session.Session) {
				cfg.Tracker.RestrictToContent = true
			},
			raw: rawObtain(0x0E, "You obtain a Potion.", 1234),
		},
		{
			name: "not a high-end duty",
			configure: func(cfg *config.Config, sess *session.Session) {
				cfg.Tracker.RestrictToHighEndDuty = true
				sess.SetZone(100, 5001)
			},
			raw: rawObtain(0x0E, "You obtain a Potion.", 1234),
		},
		{
			name: "content not permitted",
			configure: func(cfg *config.Config, sess *session.Session) {
				cfg.Tracker.RestrictToCustomContent = true
				cfg.Tracker.PermittedContent = []uint32{5002}
				sess.SetZone(100, 5001)
			},
			raw: rawObtain(0x0E, "You obtain a Potion.", 1234),
		},
		{
			name: "item not permitted",
			configure: func(cfg *config.Config, sess *session.Session) {
				cfg.Tracker.RestrictToCustomItems = true
				cfg.Tracker.PermittedItems = []uint32{4001}
			},
			raw: rawObtain(0x0E, "You obtain a Potion.", 1234),
		},
		{
			name:      "not a loot line",
			configure: func(cfg *config.Config, sess *session.Session) {},
			raw:       rawObtain(0x0E, "Hello there.", 1234),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			processor, state, monitor, sess := newTestProcessor(cfg)
			tt.configure(cfg, sess)

			if event := processor.HandleRawEvent(tt.raw); event != nil {
				t.Fatalf("expected rejection, got event %s", event.EventType)
			}
			if state.EventCount() != 0 {
				t.Errorf("event history size = %d, want 0", state.EventCount())
			}
			if monitor.queue.Len() != 0 {
				t.Errorf("monitor queue depth = %d, want 0", monitor.queue.Len())
			}
		})
	}
}

func TestHandleRawEventRejectionIsIdempotent(t *testing.T) {
	cfg := newTestConfig()
	cfg.Tracker.RestrictToContent = true
	processor, state, _, _ := newTestProcessor(cfg)

	raw := rawObtain(0x0E, "You obtain a Potion.", 1234)
	for i := 0; i < 3; i++ {
		if event := processor.HandleRawEvent(raw); event != nil {
			t.Fatalf("attempt %d: expected rejection", i)
		}
	}
	if state.EventCount() != 0 {
		t.Errorf("event history size = %d, want 0", state.EventCount())
	}
}

func TestHandleRawEventFirstItemWins(t *testing.T) {
	processor, _, _, _ := newTestProcessor(newTestConfig())

	raw := &models.RawEvent{
		ChannelCode: 0x083E,
		Segments: []models.Segment{
			models.TextSegment{Text: "You obtain a Potion."},
			models.ItemSegment{ItemID: 1234},
			models.ItemSegment{ItemID: 4001, IsHQ: true},
		},
	}

	event := processor.HandleRawEvent(raw)
	if event == nil {
		t.Fatal("expected event to be accepted")
	}
	if event.ItemID != 1234 || event.ItemName != "Potion" {
		t.Errorf("item = %d(%s), want the first item reference 1234(Potion)", event.ItemID, event.ItemName)
	}
	if event.IsHQ {
		t.Error("expected quality of the first item reference")
	}
}

func TestHandleRawEventFirstPlayerWins(t *testing.T) {
	processor, _, _, _ := newTestProcessor(newTestConfig())

	raw := &models.RawEvent{
		ChannelCode: 0x1041,
		Segments: []models.Segment{
			models.PlayerSegment{Name: "Y'shtola Rhul", WorldID: 34},
			models.TextSegment{Text: "Y'shtola Rhul rolls Need on the Potion. 87!"},
			models.ItemSegment{ItemID: 1234},
			models.PlayerSegment{Name: "Thancred Waters", WorldID: 34},
		},
	}

	event := processor.HandleRawEvent(raw)
	if event == nil {
		t.Fatal("expected event to be accepted")
	}
	if event.EventType != models.EventTypeNeed {
		t.Errorf("event type = %s, want %s", event.EventType, models.EventTypeNeed)
	}
	if event.PlayerName != "Y'shtola Rhul" {
		t.Errorf("player = %s, want the first player reference", event.PlayerName)
	}
	if event.IsLocalPlayer {
		t.Error("expected a remote player")
	}
	if event.Roll != 87 {
		t.Errorf("roll = %d, want 87", event.Roll)
	}
}

func TestHandleRawEventEventItemStaysUnresolved(t *testing.T) {
	processor, _, _, _ := newTestProcessor(newTestConfig())

	raw := &models.RawEvent{
		ChannelCode: 0x083E,
		Segments: []models.Segment{
			models.TextSegment{Text: "You obtain a Bombard Core."},
			models.ItemSegment{ItemID: 2001, IsHQ: true},
		},
	}

	event := processor.HandleRawEvent(raw)
	if event == nil {
		t.Fatal("expected event to be accepted")
	}
	if event.ItemID != 2001 {
		t.Errorf("item id = %d, want 2001", event.ItemID)
	}
	if event.ItemName != "" {
		t.Errorf("item name = %q, want empty for an event item", event.ItemName)
	}
	if event.IsHQ {
		t.Error("expected quality to stay unset for an event item")
	}
}

func TestHandleRawEventDisabledTypeStillReachesMonitor(t *testing.T) {
	cfg := newTestConfig()
	cfg.Events.Obtain = false
	processor, state, monitor, _ := newTestProcessor(cfg)

	sink := &captureSink{}
	processor.AttachSink(sink)

	event := processor.HandleRawEvent(rawObtain(0x083E, "You obtain a Potion.", 1234))
	if event == nil {
		t.Fatal("expected event to be accepted")
	}

	if state.EventCount() != 0 {
		t.Errorf("event history size = %d, want 0 for a suppressed type", state.EventCount())
	}
	if len(sink.events) != 0 {
		t.Errorf("sink received %d events, want 0 for a suppressed type", len(sink.events))
	}
	if monitor.queue.Len() != 1 {
		t.Errorf("monitor queue depth = %d, want 1", monitor.queue.Len())
	}
}

func TestHandleRawEventFanOut(t *testing.T) {
	processor, _, _, _ := newTestProcessor(newTestConfig())

	first := &captureSink{}
	second := &captureSink{}
	processor.AttachSink(first)
	processor.AttachSink(second)

	event := processor.HandleRawEvent(rawObtain(0x083E, "You obtain a Potion.", 1234))
	if event == nil {
		t.Fatal("expected event to be accepted")
	}

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("sinks received %d/%d events, want 1/1", len(first.events), len(second.events))
	}
	if first.events[0] != event || second.events[0] != event {
		t.Error("expected every sink to receive the same event")
	}
}

func TestHandleRawEventRecoversFromPanic(t *testing.T) {
	cfg := newTestConfig()
	sess := session.New()
	state := NewState()
	monitor := NewRollMonitor(state, time.Second)
	lootParser := parser.ForLanguage(cfg.Tracker.Language, &cfg.Events, sess)
	processor := NewProcessor(cfg, sess, panickyResolver{}, lootParser, state, monitor)

	event := processor.HandleRawEvent(rawObtain(0x0E, "You obtain a Potion.", 1234))
	if event != nil {
		t.Fatal("expected a panicking event to be rejected")
	}
	if state.EventCount() != 0 {
		t.Errorf("event history size = %d, want 0", state.EventCount())
	}
}

type captureSink struct {
	events []*models.LootEvent
}

func (s *captureSink) Name() string { return "capture" }

func (s *captureSink) Enqueue(event *models.LootEvent) {
	s.events = append(s.events, event)
}

type panickyResolver struct{}

func (panickyResolver) ContentID(uint32) uint32        { panic("reference tables unavailable") }
func (panickyResolver) IsHighEndDuty(uint32) bool      { panic("reference tables unavailable") }
func (panickyResolver) ItemName(uint32) (string, bool) { panic("reference tables unavailable") }
func (panickyResolver) IsEventItem(uint32) bool        { panic("reference tables unavailable") }
