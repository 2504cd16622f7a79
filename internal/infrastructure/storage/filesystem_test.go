package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/aiscan/internal/domain"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/storage"
)

func TestInitialize(t *testing.T) {
	root := t.TempDir()
	repo := storage.NewFilesystemRepository(root)

	if repo.IsInitialized() {
		t.Error("fresh directory reported as initialized")
	}
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !repo.IsInitialized() {
		t.Error("IsInitialized false after Initialize")
	}

	info, err := os.Stat(filepath.Join(root, ".aiscan"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("workspace perms = %v, want 0700", info.Mode().Perm())
	}
}

func TestResolvePath(t *testing.T) {
	repo := storage.NewFilesystemRepository(t.TempDir())

	if _, err := repo.ResolvePath("events.jsonl"); err != nil {
		t.Errorf("plain filename rejected: %v", err)
	}

	for _, bad := range []string{"", "../escape.txt", "sub/dir.txt", "../../etc/passwd"} {
		if _, err := repo.ResolvePath(bad); err == nil {
			t.Errorf("ResolvePath(%q) accepted a traversal", bad)
		}
	}
}

func TestRecordAndLoadEvents(t *testing.T) {
	repo := storage.NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatal(err)
	}

	first := domain.Event{ID: "e1", Timestamp: time.Now().UTC(), Action: "scan.completed", Actor: "scanner"}
	first.Hash = first.CalculateHash()
	second := domain.Event{ID: "e2", Timestamp: time.Now().UTC(), Action: "scan.completed", Actor: "scanner", PrevHash: first.Hash}
	second.Hash = second.CalculateHash()

	for _, e := range []domain.Event{first, second} {
		if err := repo.RecordEvent(e); err != nil {
			t.Fatalf("RecordEvent failed: %v", err)
		}
	}

	events, err := repo.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].ID != "e1" || events[1].ID != "e2" {
		t.Errorf("event order lost: %v, %v", events[0].ID, events[1].ID)
	}
	if events[1].PrevHash != events[0].Hash {
		t.Error("hash chain not preserved through storage")
	}
}

func TestLoadEvents_Empty(t *testing.T) {
	repo := storage.NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatal(err)
	}

	events, err := repo.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents failed: %v", err)
	}
	if events != nil {
		t.Errorf("expected no events, got %v", events)
	}
}

func TestUsageRoundTrip(t *testing.T) {
	repo := storage.NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatal(err)
	}

	none, err := repo.LoadUsage()
	if err != nil {
		t.Fatalf("LoadUsage failed: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil stats before first update, got %+v", none)
	}

	stats := domain.UsageStats{
		TotalRuns:     2,
		TotalRecords:  120,
		LastRunAt:     time.Now().UTC(),
		ProviderStats: map[string]int{"openai:gpt-4o:input": 500},
	}
	if err := repo.UpdateUsage(stats); err != nil {
		t.Fatalf("UpdateUsage failed: %v", err)
	}

	loaded, err := repo.LoadUsage()
	if err != nil {
		t.Fatalf("LoadUsage failed: %v", err)
	}
	if loaded.TotalRuns != 2 || loaded.TotalRecords != 120 {
		t.Errorf("stats = %+v", loaded)
	}
	if loaded.ProviderStats["openai:gpt-4o:input"] != 500 {
		t.Errorf("provider stats = %v", loaded.ProviderStats)
	}
}
