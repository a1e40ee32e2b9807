package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/louisbranch/diplomacy.space/internal/game/archive"
	"github.com/louisbranch/diplomacy.space/internal/game/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("Open accepted a blank path")
	}
}

func TestMatchRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	match := archive.Match{
		ID:        "match-1",
		Seed:      42,
		Powers:    []string{"AUSTRIA", "FRANCE"},
		StartedAt: time.UnixMilli(1700000000000).UTC(),
	}
	if err := store.CreateMatch(ctx, match); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	got, err := store.LoadMatch(ctx, "match-1")
	if err != nil {
		t.Fatalf("LoadMatch: %v", err)
	}
	if !reflect.DeepEqual(got, match) {
		t.Fatalf("LoadMatch = %+v, want %+v", got, match)
	}

	if err := store.CreateMatch(ctx, match); err == nil {
		t.Fatal("CreateMatch accepted a duplicate id")
	}
}

func TestLatestMatch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.LatestMatch(ctx); err == nil {
		t.Fatal("LatestMatch succeeded on an empty archive")
	}

	first := archive.Match{
		ID:        "match-1",
		Seed:      1,
		Powers:    []string{"AUSTRIA"},
		StartedAt: time.UnixMilli(1700000000000).UTC(),
	}
	second := archive.Match{
		ID:        "match-2",
		Seed:      2,
		Powers:    []string{"FRANCE"},
		StartedAt: time.UnixMilli(1700000001000).UTC(),
	}
	if err := store.CreateMatch(ctx, first); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if err := store.CreateMatch(ctx, second); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	got, err := store.LatestMatch(ctx)
	if err != nil {
		t.Fatalf("LatestMatch: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("LatestMatch = %+v, want %+v", got, second)
	}
}

func TestPhaseRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	match := archive.Match{ID: "match-1", StartedAt: time.Now().UTC()}
	if err := store.CreateMatch(ctx, match); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	record := archive.PhaseRecord{
		MatchID: "match-1",
		Index:   1,
		Phase:   "S1901M",
		Orders: map[string][]string{
			"FRANCE": {"A PAR - BUR"},
		},
		Board: engine.BoardState{
			Phase: "F1901M",
			Powers: map[string]engine.PowerState{
				"FRANCE": {Centers: []string{"PAR"}, Units: map[string]string{"BUR": "A"}},
			},
		},
		ResolvedAt: time.UnixMilli(1700000001000).UTC(),
	}
	if err := store.SavePhase(ctx, record); err != nil {
		t.Fatalf("SavePhase: %v", err)
	}

	records, err := store.LoadPhases(ctx, "match-1")
	if err != nil {
		t.Fatalf("LoadPhases: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("LoadPhases returned %d records, want 1", len(records))
	}
	if !reflect.DeepEqual(records[0], record) {
		t.Fatalf("phase = %+v, want %+v", records[0], record)
	}
}

func TestPressPreservesArrivalOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateMatch(ctx, archive.Match{ID: "match-1", StartedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	sent := time.UnixMilli(1700000002000).UTC()
	for i, text := range []string{"first", "second", "third"} {
		record := archive.PressRecord{
			MatchID:   "match-1",
			Sender:    "FRANCE",
			Recipient: "GERMANY",
			Text:      text,
			Phase:     "S1901M",
			SentAt:    sent.Add(time.Duration(i) * time.Second),
		}
		if err := store.SavePress(ctx, record); err != nil {
			t.Fatalf("SavePress: %v", err)
		}
	}

	records, err := store.LoadPress(ctx, "match-1")
	if err != nil {
		t.Fatalf("LoadPress: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("LoadPress returned %d records, want 3", len(records))
	}
	for i, want := range []string{"first", "second", "third"} {
		if records[i].Text != want {
			t.Fatalf("press[%d] = %q, want %q", i, records[i].Text, want)
		}
	}
}

func TestResultRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.CreateMatch(ctx, archive.Match{ID: "match-1", StartedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	result := archive.Result{
		MatchID: "match-1",
		Phase:   "COMPLETED 1905",
		Centers: map[string]int{"FRANCE": 18, "GERMANY": 4},
		EndedAt: time.UnixMilli(1700000003000).UTC(),
	}
	if err := store.SaveResult(ctx, result); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	got, err := store.LoadResult(ctx, "match-1")
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}
	if !reflect.DeepEqual(got, result) {
		t.Fatalf("LoadResult = %+v, want %+v", got, result)
	}
}
