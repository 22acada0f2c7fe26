package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"loottracker/internal/catalog"
	"loottracker/internal/models"
	"loottracker/internal/repository"
	"loottracker/internal/session"
	"loottracker/internal/tracker"
)

// LootHandler exposes the loot pipeline over HTTP.
type LootHandler struct {
	processor *tracker.Processor
	monitor   *tracker.RollMonitor
	state     *tracker.State
	session   *session.Session
	catalog   *catalog.Catalog
	repo      repository.LootEventRepository
}

// NewLootHandler creates the loot API handler. The repository may be nil
// when persistence is disabled.
func NewLootHandler(
	processor *tracker.Processor,
	monitor *tracker.RollMonitor,
	state *tracker.State,
	sess *session.Session,
	cat *catalog.Catalog,
	repo repository.LootEventRepository,
) *LootHandler {
	return &LootHandler{
		processor: processor,
		monitor:   monitor,
		state:     state,
		session:   sess,
		catalog:   cat,
		repo:      repo,
	}
}

// IngestEvent handles a raw chat event
// POST /api/v1/events
func (h *LootHandler) IngestEvent(c *gin.Context) {
	var req models.RawEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := req.ToRawEvent()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := h.processor.HandleRawEvent(raw)
	if event == nil {
		c.JSON(http.StatusOK, gin.H{"accepted": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"accepted": true, "event": event})
}

// TerritoryChanged handles a zone-change notification
// POST /api/v1/territory
func (h *LootHandler) TerritoryChanged(c *gin.Context) {
	var req models.TerritoryChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contentID := h.catalog.ContentID(req.ZoneID)
	h.session.SetZone(req.ZoneID, contentID)
	h.monitor.TerritoryChanged(req.ZoneID)

	c.JSON(http.StatusOK, gin.H{
		"zone_id":    req.ZoneID,
		"content_id": contentID,
		"in_content": contentID != 0,
	})
}

// UpdateSession updates the live session context
// POST /api/v1/session
func (h *LootHandler) UpdateSession(c *gin.Context) {
	var req models.SessionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.InCombat != nil {
		h.session.SetInCombat(*req.InCombat)
	}
	if req.PlayerName != nil || req.PlayerWorld != nil {
		name := h.session.PlayerName()
		world := h.session.PlayerWorld()
		if req.PlayerName != nil {
			name = *req.PlayerName
		}
		if req.PlayerWorld != nil {
			world = *req.PlayerWorld
		}
		h.session.SetPlayer(name, world)
	}

	c.JSON(http.StatusOK, gin.H{
		"in_combat":    h.session.InCombat(),
		"player_name":  h.session.PlayerName(),
		"player_world": h.session.PlayerWorld(),
		"zone_id":      h.session.ZoneID(),
		"in_content":   h.session.InContent(),
	})
}

// GetLoot returns the in-memory loot event history
// GET /api/v1/loot
func (h *LootHandler) GetLoot(c *gin.Context) {
	events := h.state.Events()
	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  len(events),
	})
}

// GetLootHistory returns the persisted loot history
// GET /api/v1/loot/history
func (h *LootHandler) GetLootHistory(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Persistence is disabled"})
		return
	}

	var filter models.LootHistoryFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, total, err := h.repo.List(c.Request.Context(), &filter)
	if err != nil {
		logrus.WithError(err).Error("Failed to list loot history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list loot history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

// ClearLoot discards all tracked events and rolls
// DELETE /api/v1/loot
func (h *LootHandler) ClearLoot(c *gin.Context) {
	h.state.Clear()
	logrus.Info("Loot data cleared")
	c.Status(http.StatusNoContent)
}

// GetRolls returns a snapshot of the roll sessions
// GET /api/v1/rolls
func (h *LootHandler) GetRolls(c *gin.Context) {
	rolls := h.state.Rolls()
	c.JSON(http.StatusOK, gin.H{
		"rolls":      rolls,
		"total":      len(rolls),
		"is_rolling": h.state.IsRolling(),
	})
}

// ToggleOverlay flips an overlay visibility flag
// POST /api/v1/overlays/:name/toggle
func (h *LootHandler) ToggleOverlay(c *gin.Context) {
	name := c.Param("name")
	visible, ok := h.session.ToggleOverlay(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown overlay: " + name})
		return
	}

	c.JSON(http.StatusOK, gin.H{"overlay": name, "visible": visible})
}

// GetOverlays returns the overlay visibility flags
// GET /api/v1/overlays
func (h *LootHandler) GetOverlays(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Overlays())
}
