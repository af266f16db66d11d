package game

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// TestEventLogLifecycle tests that events recorded between Start and Stop
// land in the journal as one JSON object per line
func TestEventLogLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	el := NewEventLog()
	if el.Record(EventTypeCast, 1, "a1", nil) {
		t.Error("a stopped log must drop events")
	}

	if err := el.Start(path); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if !el.Record(EventTypeAvatarJoin, 1, "a1", AvatarJoinPayload{AvatarID: "a1", SpawnX: 1, SpawnZ: 2}) {
		t.Error("running log should accept events")
	}
	el.Record(EventTypeCast, 5, "a1", CastPayload{Spell: "waterball", Held: 0.2, ManaCost: 5, Damage: 8})
	el.Record(EventTypePause, 9, "", PausePayload{Paused: true})

	el.Stop()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("journal missing: %v", err)
	}
	defer f.Close()

	var lines []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("journal line is not valid JSON: %v", err)
		}
		lines = append(lines, ev)
	}

	if len(lines) != 3 {
		t.Fatalf("journal has %d events, want 3", len(lines))
	}
	if lines[0].Type != EventTypeAvatarJoin || lines[0].AvatarID != "a1" {
		t.Errorf("first event = %+v, want avatar join for a1", lines[0])
	}
	if lines[1].Sequence <= lines[0].Sequence {
		t.Error("sequence numbers should be strictly increasing")
	}
	if lines[2].Type != EventTypePause {
		t.Errorf("last recorded event should survive the shutdown flush, got %s", lines[2].Type)
	}

	stats := el.Stats()
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}
	if stats.Running {
		t.Error("stopped log should report not running")
	}
}

// TestEventLogMemoryOnly tests that an empty path skips the file without
// breaking recording
func TestEventLogMemoryOnly(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatalf("memory-only start failed: %v", err)
	}
	defer el.Stop()

	if !el.Record(EventTypeTick, 1, "", nil) {
		t.Error("memory-only log should still accept events")
	}
}
