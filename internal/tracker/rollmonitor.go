package tracker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"loottracker/internal/models"
	"loottracker/internal/monitoring"
	"loottracker/internal/queue"
)

// LeftZoneReason is the winner field recorded on rolls force-resolved by a
// zone change.
const LeftZoneReason = "Left zone"

// RollMonitor consumes loot events from its queue on a fixed cadence and
// maintains the roll session state. The gate is the sole producer; events
// are applied strictly in enqueue order.
type RollMonitor struct {
	state     *State
	queue     *queue.Queue
	frequency time.Duration
}

// NewRollMonitor creates a roll monitor draining at the given frequency.
func NewRollMonitor(state *State, frequency time.Duration) *RollMonitor {
	return &RollMonitor{
		state:     state,
		queue:     queue.New(),
		frequency: frequency,
	}
}

// Enqueue adds a loot event to the processing queue. Never blocks.
func (m *RollMonitor) Enqueue(event *models.LootEvent) {
	m.queue.Enqueue(event)
	monitoring.SinkQueueDepth.WithLabelValues("roll_monitor").Set(float64(m.queue.Len()))
}

// Start runs the drain loop until the context is cancelled. Events still
// queued at shutdown are abandoned.
func (m *RollMonitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.frequency)
		defer ticker.Stop()

		logrus.WithField("frequency", m.frequency).Info("Roll monitor started")
		for {
			select {
			case <-ctx.Done():
				logrus.Info("Roll monitor stopped")
				return
			case <-ticker.C:
				m.ProcessQueue()
			}
		}
	}()
}

// ProcessQueue drains the queue and applies every event in FIFO order.
func (m *RollMonitor) ProcessQueue() {
	events := m.queue.Drain()
	monitoring.SinkQueueDepth.WithLabelValues("roll_monitor").Set(0)
	for _, event := range events {
		m.apply(event)
	}
}

// apply advances the roll session state machine for one event. Each
// transition is a single atomic critical section on the shared state, so a
// territory sweep can interleave between events but never inside one.
func (m *RollMonitor) apply(event *models.LootEvent) {
	switch event.EventType {
	case models.EventTypeAdd:
		m.state.OpenRoll(event)
		monitoring.RollsOpenedTotal.Inc()
	case models.EventTypeCast:
		m.state.RecordCast(event)
	case models.EventTypeNeed, models.EventTypeGreed:
		m.state.RecordRoll(event)
	case models.EventTypeObtain:
		if m.state.ResolveRoll(event, event.PlayerName) {
			monitoring.RollsResolvedTotal.WithLabelValues(string(models.RollStateWon)).Inc()
		}
	case models.EventTypeLost:
		// A lost line closes the roll without a winner.
		if m.state.ResolveRoll(event, "") {
			monitoring.RollsResolvedTotal.WithLabelValues(string(models.RollStateWon)).Inc()
		}
	}
}

// TerritoryChanged is the zone-change reconciler: every still-open roll is
// force-resolved to left_zone and the rolling flag is cleared. Safe to
// call concurrently with the gate.
func (m *RollMonitor) TerritoryChanged(zoneID uint32) {
	swept := m.state.SweepOpenRolls(LeftZoneReason)
	if swept > 0 {
		monitoring.RollsResolvedTotal.WithLabelValues(string(models.RollStateLeftZone)).Add(float64(swept))
	}

	logrus.WithFields(logrus.Fields{
		"zone_id": zoneID,
		"swept":   swept,
	}).Info("Territory changed, open rolls reconciled")
}
