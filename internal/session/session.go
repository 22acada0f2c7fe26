package session

import "sync"

// Session holds the live game-session context read by the event gate and
// updated by the host-facing endpoints. All fields are guarded by one
// mutex; reads take a snapshot so the gate never holds the lock across
// parsing.
type Session struct {
	mu          sync.RWMutex
	zoneID      uint32
	contentID   uint32
	inContent   bool
	inCombat    bool
	playerName  string
	playerWorld string

	showLootOverlay bool
	showRollOverlay bool
	showSettings    bool
}

// New creates an empty session.
func New() *Session {
	return &Session{}
}

// SetZone records a zone change and the content it resolves to.
func (s *Session) SetZone(zoneID, contentID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoneID = zoneID
	s.contentID = contentID
	s.inContent = contentID != 0
}

// ZoneID returns the current zone.
func (s *Session) ZoneID() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoneID
}

// ContentID returns the content the current zone resolves to.
func (s *Session) ContentID() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contentID
}

// InContent reports whether the player is inside instanced content.
func (s *Session) InContent() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inContent
}

// SetInCombat records the combat state.
func (s *Session) SetInCombat(inCombat bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inCombat = inCombat
}

// InCombat reports whether the player is in combat.
func (s *Session) InCombat() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inCombat
}

// SetPlayer records the local player identity.
func (s *Session) SetPlayer(name, world string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerName = name
	s.playerWorld = world
}

// PlayerName returns the local player name.
func (s *Session) PlayerName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerName
}

// PlayerWorld returns the local player home world.
func (s *Session) PlayerWorld() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playerWorld
}

// ToggleOverlay flips an overlay visibility flag and returns the new
// value. Unknown names report false for ok.
func (s *Session) ToggleOverlay(name string) (visible, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch name {
	case "loot":
		s.showLootOverlay = !s.showLootOverlay
		return s.showLootOverlay, true
	case "roll":
		s.showRollOverlay = !s.showRollOverlay
		return s.showRollOverlay, true
	case "settings":
		s.showSettings = !s.showSettings
		return s.showSettings, true
	}
	return false, false
}

// Overlays returns the current overlay visibility flags.
func (s *Session) Overlays() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]bool{
		"loot":     s.showLootOverlay,
		"roll":     s.showRollOverlay,
		"settings": s.showSettings,
	}
}
