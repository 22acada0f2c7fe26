package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"loottracker/internal/models"
)

func lootEvent(itemName string, quantity int) *models.LootEvent {
	return &models.LootEvent{
		EventType:  models.EventTypeObtain,
		ItemID:     1234,
		ItemName:   itemName,
		PlayerName: "Alphinaud Leveilleur",
		Quantity:   quantity,
	}
}

func TestLogSinkFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loot.log")
	sink := NewLogSink(path, time.Second)

	sink.Enqueue(lootEvent("Potion", 1))
	sink.Enqueue(lootEvent("Hi-Potion", 2))

	if err := sink.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	var lines []models.LootEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var event models.LootEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("log line is not valid JSON: %v", err)
		}
		lines = append(lines, event)
	}

	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want 2", len(lines))
	}
	if lines[0].ItemName != "Potion" || lines[1].ItemName != "Hi-Potion" {
		t.Errorf("log order = %s, %s", lines[0].ItemName, lines[1].ItemName)
	}

	// A second flush with an empty queue must not touch the file.
	if err := sink.Flush(context.Background()); err != nil {
		t.Fatalf("empty Flush() error = %v", err)
	}
}

func TestLogSinkAppendsAcrossFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loot.log")
	sink := NewLogSink(path, time.Second)

	sink.Enqueue(lootEvent("Potion", 1))
	if err := sink.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	sink.Enqueue(lootEvent("Hi-Potion", 1))
	if err := sink.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(splitLines(raw)); got != 2 {
		t.Errorf("log lines = %d, want 2", got)
	}
}

func splitLines(raw []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range raw {
		if b == '\n' {
			lines = append(lines, raw[start:i])
			start = i + 1
		}
	}
	return lines
}

func TestHTTPSinkFlushPostsBatch(t *testing.T) {
	var received []models.LootEvent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("payload is not a JSON array: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewHTTPSink(server.URL, time.Second)
	sink.Enqueue(lootEvent("Potion", 1))
	sink.Enqueue(lootEvent("Hi-Potion", 2))

	if err := sink.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(received) != 2 {
		t.Fatalf("received %d events, want 2", len(received))
	}
	if received[0].ItemName != "Potion" {
		t.Errorf("first event = %s, want Potion", received[0].ItemName)
	}
}

func TestHTTPSinkFlushReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := NewHTTPSink(server.URL, time.Second)
	sink.Enqueue(lootEvent("Potion", 1))

	if err := sink.Flush(context.Background()); err == nil {
		t.Error("expected an error for a 500 response")
	}

	// The failed batch is dropped, not retried.
	if sink.queue.Len() != 0 {
		t.Errorf("queue depth = %d, want 0 after a failed flush", sink.queue.Len())
	}
}

func TestHTTPSinkFlushEmptyQueueSkipsRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	sink := NewHTTPSink(server.URL, time.Second)
	if err := sink.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if requests != 0 {
		t.Errorf("requests = %d, want 0 for an empty queue", requests)
	}
}

func TestDiscordSinkFlushChunksMessages(t *testing.T) {
	var contents []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("payload decode failed: %v", err)
		}
		if len(payload["content"]) > discordMessageLimit {
			t.Errorf("message length %d exceeds the limit", len(payload["content"]))
		}
		contents = append(contents, payload["content"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sink := NewDiscordSink(server.URL, time.Second)
	for i := 0; i < 100; i++ {
		sink.Enqueue(lootEvent("Allagan Tomestone of Causality", 3))
	}

	if err := sink.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(contents) < 2 {
		t.Errorf("messages = %d, want the batch chunked into several", len(contents))
	}
}

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		name  string
		event *models.LootEvent
		want  string
	}{
		{
			name:  "plain obtain",
			event: &models.LootEvent{EventType: models.EventTypeObtain, ItemID: 1234, ItemName: "Potion", Quantity: 1},
			want:  "**obtain** Potion",
		},
		{
			name: "quantity and player",
			event: &models.LootEvent{
				EventType: models.EventTypeObtain, ItemID: 1234, ItemName: "Potion",
				Quantity: 3, PlayerName: "Tataru Taru",
			},
			want: "**obtain** Potion x3 by Tataru Taru",
		},
		{
			name: "hq roll",
			event: &models.LootEvent{
				EventType: models.EventTypeNeed, ItemID: 1234, ItemName: "Potion",
				IsHQ: true, Quantity: 1, PlayerName: "Alisaie Leveilleur", Roll: 92,
			},
			want: "**need** Potion (HQ) by Alisaie Leveilleur (92)",
		},
		{
			name:  "unresolved item falls back to the id",
			event: &models.LootEvent{EventType: models.EventTypeObtain, ItemID: 2001, Quantity: 1},
			want:  "**obtain** item #2001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatEvent(tt.event); got != tt.want {
				t.Errorf("formatEvent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManagerStartAndStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loot.log")
	sink := NewLogSink(path, 10*time.Millisecond)

	manager := NewManager()
	manager.Register(sink)

	if len(manager.Sinks()) != 1 {
		t.Fatalf("sinks = %d, want 1", len(manager.Sinks()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	manager.Start(ctx)

	sink.Enqueue(lootEvent("Potion", 1))
	time.Sleep(50 * time.Millisecond)

	cancel()
	manager.Wait()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected the flush loop to write the log: %v", err)
	}
	if len(raw) == 0 {
		t.Error("expected at least one flushed event")
	}
}
