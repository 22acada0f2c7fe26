package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"loottracker/internal/catalog"
	"loottracker/internal/config"
	"loottracker/internal/parser"
	"loottracker/internal/session"
	"loottracker/internal/tracker"
)

func newTestRouter(t *testing.T) (*gin.Engine, *tracker.State, *tracker.RollMonitor, *session.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Tracker: config.TrackerConfig{Enabled: true, Language: "en"},
		Events: config.EventTypeConfig{
			Add: true, Cast: true, Craft: true, Desynth: true,
			Discard: true, Gather: true, Greed: true, Lost: true,
			Need: true, Obtain: true, Purchase: true, Search: true,
			Sell: true, Use: true,
		},
	}

	cat := catalog.FromData(&catalog.Data{
		Contents:    []catalog.Content{{ID: 5001, Name: "The Copied Factory"}},
		ZoneContent: map[uint32]uint32{100: 5001},
		Items:       []catalog.Item{{ID: 1234, Name: "Potion"}},
	})

	sess := session.New()
	sess.SetPlayer("Alphinaud Leveilleur", "Gilgamesh")

	state := tracker.NewState()
	monitor := tracker.NewRollMonitor(state, time.Second)
	lootParser := parser.ForLanguage(cfg.Tracker.Language, &cfg.Events, sess)
	processor := tracker.NewProcessor(cfg, sess, cat, lootParser, state, monitor)

	handler := NewLootHandler(processor, monitor, state, sess, cat, nil)

	router := gin.New()
	router.POST("/api/v1/events", handler.IngestEvent)
	router.POST("/api/v1/territory", handler.TerritoryChanged)
	router.POST("/api/v1/session", handler.UpdateSession)
	router.GET("/api/v1/loot", handler.GetLoot)
	router.GET("/api/v1/loot/history", handler.GetLootHistory)
	router.DELETE("/api/v1/loot", handler.ClearLoot)
	router.GET("/api/v1/rolls", handler.GetRolls)
	router.GET("/api/v1/overlays", handler.GetOverlays)
	router.POST("/api/v1/overlays/:name/toggle", handler.ToggleOverlay)

	return router, state, monitor, sess
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const obtainPayload = `{
	"channel_code": 2110,
	"segments": [
		{"type": "text", "text": "You obtain a Potion."},
		{"type": "item", "item_id": 1234}
	]
}`

func TestIngestEventAccepted(t *testing.T) {
	router, state, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/events", obtainPayload)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var response struct {
		Accepted bool `json:"accepted"`
		Event    struct {
			EventType string `json:"event_type"`
			ItemName  string `json:"item_name"`
		} `json:"event"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if !response.Accepted {
		t.Error("expected accepted = true")
	}
	if response.Event.EventType != "obtain" || response.Event.ItemName != "Potion" {
		t.Errorf("event = %+v", response.Event)
	}

	if state.EventCount() != 1 {
		t.Errorf("event history size = %d, want 1", state.EventCount())
	}
}

func TestIngestEventRejected(t *testing.T) {
	router, state, _, _ := newTestRouter(t)

	payload := `{
		"channel_code": 2110,
		"segments": [{"type": "text", "text": "You obtain a Potion."}]
	}`
	w := doJSON(router, http.MethodPost, "/api/v1/events", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"accepted":false`) {
		t.Errorf("body = %s, want accepted false", w.Body.String())
	}
	if state.EventCount() != 0 {
		t.Errorf("event history size = %d, want 0", state.EventCount())
	}
}

func TestIngestEventBadPayload(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/events", `{"segments": "nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w = doJSON(router, http.MethodPost, "/api/v1/events", `{
		"channel_code": 2110,
		"segments": [{"type": "emote"}]
	}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d for an unknown segment type", w.Code, http.StatusBadRequest)
	}
}

func TestTerritoryChangedUpdatesSessionAndSweepsRolls(t *testing.T) {
	router, state, monitor, sess := newTestRouter(t)

	// Open a roll, then change zones.
	addPayload := `{
		"channel_code": 2110,
		"segments": [
			{"type": "text", "text": "A Potion has been added to the loot list."},
			{"type": "item", "item_id": 1234}
		]
	}`
	if w := doJSON(router, http.MethodPost, "/api/v1/events", addPayload); w.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d: %s", w.Code, w.Body.String())
	}
	monitor.ProcessQueue()
	if !state.IsRolling() {
		t.Fatal("expected an open roll before the zone change")
	}

	w := doJSON(router, http.MethodPost, "/api/v1/territory", `{"zone_id": 100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if sess.ZoneID() != 100 || !sess.InContent() {
		t.Errorf("session zone = %d in content = %v, want 100/true", sess.ZoneID(), sess.InContent())
	}
	if state.IsRolling() {
		t.Error("rolling flag should clear after a territory change")
	}
}

func TestGetLootAndClear(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	doJSON(router, http.MethodPost, "/api/v1/events", obtainPayload)

	w := doJSON(router, http.MethodGet, "/api/v1/loot", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total":1`) {
		t.Errorf("body = %s, want total 1", w.Body.String())
	}

	if w := doJSON(router, http.MethodDelete, "/api/v1/loot", ""); w.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d, want %d", w.Code, http.StatusNoContent)
	}

	w = doJSON(router, http.MethodGet, "/api/v1/loot", "")
	if !strings.Contains(w.Body.String(), `"total":0`) {
		t.Errorf("body = %s, want total 0 after clear", w.Body.String())
	}
}

func TestGetLootHistoryWithoutPersistence(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/loot/history", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestUpdateSession(t *testing.T) {
	router, _, _, sess := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/session", `{"in_combat": true, "player_name": "Alisaie Leveilleur"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if !sess.InCombat() {
		t.Error("expected in-combat")
	}
	if sess.PlayerName() != "Alisaie Leveilleur" {
		t.Errorf("player = %s, want Alisaie Leveilleur", sess.PlayerName())
	}
	if sess.PlayerWorld() != "Gilgamesh" {
		t.Errorf("world = %s, want the previous value kept", sess.PlayerWorld())
	}
}

func TestToggleOverlay(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/overlays/loot/toggle", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"visible":true`) {
		t.Errorf("body = %s, want visible true", w.Body.String())
	}

	if w := doJSON(router, http.MethodPost, "/api/v1/overlays/bogus/toggle", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d for an unknown overlay", w.Code, http.StatusNotFound)
	}

	w = doJSON(router, http.MethodGet, "/api/v1/overlays", "")
	if !strings.Contains(w.Body.String(), `"loot":true`) {
		t.Errorf("body = %s, want the loot overlay visible", w.Body.String())
	}
}

func TestGetRolls(t *testing.T) {
	router, _, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/rolls", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"is_rolling":false`) {
		t.Errorf("body = %s, want is_rolling false", w.Body.String())
	}
}
