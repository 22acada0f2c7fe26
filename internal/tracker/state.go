package tracker

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"loottracker/internal/models"
)

// State holds the durable loot event history, the roll session list and
// the rolling flag. One mutex guards all three so the reconciler can never
// observe the history and the roll list out of step; every transition is a
// single method holding the lock for its whole critical section.
type State struct {
	mu      sync.Mutex
	events  []*models.LootEvent
	rolls   []*models.LootRoll
	rolling bool
}

// NewState creates empty tracker state.
func NewState() *State {
	return &State{}
}

// AppendEvent appends an enriched event to the durable history.
func (s *State) AppendEvent(event *models.LootEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Events returns a snapshot of the event history.
func (s *State) Events() []*models.LootEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]*models.LootEvent, len(s.events))
	copy(events, s.events)
	return events
}

// EventCount returns the size of the event history.
func (s *State) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Rolls returns independent copies of the roll sessions for display
// consumers.
func (s *State) Rolls() []*models.LootRoll {
	s.mu.Lock()
	defer s.mu.Unlock()
	rolls := make([]*models.LootRoll, len(s.rolls))
	for i, roll := range s.rolls {
		rolls[i] = roll.Clone()
	}
	return rolls
}

// IsRolling reports whether any roll session is currently open.
func (s *State) IsRolling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rolling
}

// Clear discards all events and rolls and resets the rolling flag.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.rolls = nil
	s.rolling = false
}

// OpenRoll creates an open roll session for the event's item.
func (s *State) OpenRoll(event *models.LootEvent) *models.LootRoll {
	s.mu.Lock()
	defer s.mu.Unlock()

	roll := &models.LootRoll{
		ID:        uuid.New(),
		ItemID:    event.ItemID,
		ItemName:  event.ItemName,
		IsHQ:      event.IsHQ,
		ZoneID:    event.ZoneID,
		ContentID: event.ContentID,
		State:     models.RollStateOpen,
		CreatedAt: event.Timestamp,
	}
	s.rolls = append(s.rolls, roll)
	s.rolling = true
	return roll
}

// RecordCast registers a participant on the oldest open roll for the
// event's item, without a roll value yet.
func (s *State) RecordCast(event *models.LootEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	roll := s.findOpenRoll(event.ItemID)
	if roll == nil {
		return false
	}
	if s.findRoller(roll, event.PlayerName) == nil {
		roll.Rollers = append(roll.Rollers, models.Roller{PlayerName: event.PlayerName})
	}
	return true
}

// RecordRoll records a need/greed roll value on the oldest open roll for
// the event's item.
func (s *State) RecordRoll(event *models.LootEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	roll := s.findOpenRoll(event.ItemID)
	if roll == nil {
		return false
	}

	roller := s.findRoller(roll, event.PlayerName)
	if roller == nil {
		roll.Rollers = append(roll.Rollers, models.Roller{PlayerName: event.PlayerName})
		roller = &roll.Rollers[len(roll.Rollers)-1]
	}
	roller.Roll = event.Roll
	roller.RollType = event.EventType
	roller.HasRolled = true
	return true
}

// ResolveRoll transitions the oldest open roll for the event's item to the
// won state. An empty winner records a roll nobody received.
func (s *State) ResolveRoll(event *models.LootEvent, winner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	roll := s.findOpenRoll(event.ItemID)
	if roll == nil {
		return false
	}

	roll.State = models.RollStateWon
	roll.Winner = winner
	roll.ResolvedAt = event.Timestamp
	s.rolling = s.anyOpenLocked()
	return true
}

// SweepOpenRolls force-resolves every open roll to the left_zone state and
// clears the rolling flag. Returns the number of rolls swept.
func (s *State) SweepOpenRolls(reason string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	swept := 0
	for _, roll := range s.rolls {
		if roll.State != models.RollStateOpen {
			continue
		}
		roll.State = models.RollStateLeftZone
		roll.Winner = reason
		roll.ResolvedAt = now
		swept++
	}
	s.rolling = false
	return swept
}

func (s *State) findOpenRoll(itemID uint32) *models.LootRoll {
	for _, roll := range s.rolls {
		if roll.ItemID == itemID && roll.State == models.RollStateOpen {
			return roll
		}
	}
	return nil
}

func (s *State) findRoller(roll *models.LootRoll, playerName string) *models.Roller {
	for i := range roll.Rollers {
		if roll.Rollers[i].PlayerName == playerName {
			return &roll.Rollers[i]
		}
	}
	return nil
}

func (s *State) anyOpenLocked() bool {
	for _, roll := range s.rolls {
		if roll.State == models.RollStateOpen {
			return true
		}
	}
	return false
}
