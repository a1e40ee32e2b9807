package conductor

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	archivesqlite "github.com/louisbranch/diplomacy.space/internal/game/archive/sqlite"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("conductor", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Seed != 0 {
		t.Fatalf("expected zero seed, got %d", cfg.Seed)
	}
	if cfg.MaxPhases != 1000 {
		t.Fatalf("expected default max-phases 1000, got %d", cfg.MaxPhases)
	}
	if cfg.Agent != AgentRandom {
		t.Fatalf("expected random agent, got %q", cfg.Agent)
	}
	if cfg.ArchivePath != "" {
		t.Fatalf("expected empty archive path, got %q", cfg.ArchivePath)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("conductor", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-seed", "42",
		"-max-phases", "8",
		"-agent", "hold",
		"-archive", "matches.db",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", cfg.Seed)
	}
	if cfg.MaxPhases != 8 {
		t.Fatalf("expected max-phases 8, got %d", cfg.MaxPhases)
	}
	if cfg.Agent != AgentHold {
		t.Fatalf("expected hold agent, got %q", cfg.Agent)
	}
	if cfg.ArchivePath != "matches.db" {
		t.Fatalf("expected archive override, got %q", cfg.ArchivePath)
	}
}

func TestRunRejectsUnknownAgent(t *testing.T) {
	err := Run(context.Background(), Config{Agent: "psychic", MaxPhases: 1}, nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unknown agent kind") {
		t.Fatalf("expected unknown agent error, got %v", err)
	}
}

func TestRunRejectsNonPositiveMaxPhases(t *testing.T) {
	err := Run(context.Background(), Config{Agent: AgentHold}, nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRunHoldMatchReportsStandings(t *testing.T) {
	var out bytes.Buffer

	cfg := Config{Agent: AgentHold, MaxPhases: 2}
	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	report := out.String()
	if !strings.Contains(report, "Final standings") {
		t.Fatalf("expected standings header, got %q", report)
	}
	// Every power starts with three centers except Russia's four, and a
	// hold match never changes ownership.
	if !strings.Contains(report, "RUSSIA: 4 centers") {
		t.Fatalf("expected RUSSIA at 4 centers, got %q", report)
	}
	if !strings.Contains(report, "FRANCE: 3 centers") {
		t.Fatalf("expected FRANCE at 3 centers, got %q", report)
	}
}

func TestRunRandomMatchIsSeeded(t *testing.T) {
	cfg := Config{Agent: AgentRandom, Seed: 11, MaxPhases: 3}
	if err := Run(context.Background(), cfg, nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunArchivesMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.db")

	cfg := Config{Agent: AgentHold, Seed: 7, MaxPhases: 1, ArchivePath: path}
	if err := Run(context.Background(), cfg, nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	store, err := archivesqlite.Open(path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	match, err := store.LatestMatch(ctx)
	if err != nil {
		t.Fatalf("latest match: %v", err)
	}
	if match.Seed != 7 {
		t.Fatalf("expected seed 7, got %d", match.Seed)
	}
	if len(match.Powers) != 7 {
		t.Fatalf("expected 7 powers, got %d", len(match.Powers))
	}

	rows, err := store.LoadPhases(ctx, match.ID)
	if err != nil {
		t.Fatalf("load phases: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 phase record, got %d", len(rows))
	}
	if rows[0].Phase != "S1901M" {
		t.Fatalf("expected S1901M, got %q", rows[0].Phase)
	}

	result, err := store.LoadResult(ctx, match.ID)
	if err != nil {
		t.Fatalf("load result: %v", err)
	}
	if result.Centers["RUSSIA"] != 4 {
		t.Fatalf("expected RUSSIA at 4 centers, got %d", result.Centers["RUSSIA"])
	}
}
