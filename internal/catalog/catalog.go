package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Content is one entry of the duty/content reference table.
type Content struct {
	ID      uint32 `json:"id"`
	Name    string `json:"name"`
	HighEnd bool   `json:"high_end"`
}

// Item is one entry of the item reference table.
type Item struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

// Data is the on-disk shape of the reference tables.
type Data struct {
	Contents    []Content         `json:"contents"`
	ZoneContent map[uint32]uint32 `json:"zone_content"`
	Items       []Item            `json:"items"`
	EventItems  []Item            `json:"event_items"`
}

// Catalog resolves zones to content and item ids to display names. The
// tables are loaded once at startup and read concurrently without locking;
// they are never mutated afterwards.
type Catalog struct {
	contents    map[uint32]Content
	zoneContent map[uint32]uint32
	items       map[uint32]string
	eventItems  map[uint32]string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		contents:    make(map[uint32]Content),
		zoneContent: make(map[uint32]uint32),
		items:       make(map[uint32]string),
		eventItems:  make(map[uint32]string),
	}
}

// Load reads the reference tables from a JSON file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	c := FromData(&data)

	logrus.WithFields(logrus.Fields{
		"contents":    len(c.contents),
		"zones":       len(c.zoneContent),
		"items":       len(c.items),
		"event_items": len(c.eventItems),
	}).Info("Catalog loaded")

	return c, nil
}

// FromData builds a catalog from already parsed reference tables.
func FromData(data *Data) *Catalog {
	c := New()
	for _, content := range data.Contents {
		c.contents[content.ID] = content
	}
	for zoneID, contentID := range data.ZoneContent {
		c.zoneContent[zoneID] = contentID
	}
	for _, item := range data.Items {
		c.items[item.ID] = item.Name
	}
	for _, item := range data.EventItems {
		c.eventItems[item.ID] = item.Name
	}
	return c
}

// ContentID resolves a zone to its content id. Zones outside instanced
// content resolve to 0.
func (c *Catalog) ContentID(zoneID uint32) uint32 {
	return c.zoneContent[zoneID]
}

// ContentName returns the display name of a content id.
func (c *Catalog) ContentName(contentID uint32) string {
	return c.contents[contentID].Name
}

// IsHighEndDuty reports whether the zone maps to a high-end duty.
func (c *Catalog) IsHighEndDuty(zoneID uint32) bool {
	contentID, ok := c.zoneContent[zoneID]
	if !ok {
		return false
	}
	return c.contents[contentID].HighEnd
}

// ItemName resolves an item id against the item table.
func (c *Catalog) ItemName(itemID uint32) (string, bool) {
	name, ok := c.items[itemID]
	return name, ok
}

// IsEventItem reports whether the item id belongs to the event item table.
// Event items deliberately resolve without a display name.
func (c *Catalog) IsEventItem(itemID uint32) bool {
	_, ok := c.eventItems[itemID]
	return ok
}
