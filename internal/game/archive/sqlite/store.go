// Package sqlite provides a SQLite-backed archive store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/diplomacy.space/internal/game/archive"
	"github.com/louisbranch/diplomacy.space/internal/game/archive/sqlite/migrations"
	"github.com/louisbranch/diplomacy.space/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store provides SQLite-backed persistence for match archives.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite archive store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateMatch persists the match header.
func (s *Store) CreateMatch(ctx context.Context, match archive.Match) error {
	powers, err := json.Marshal(match.Powers)
	if err != nil {
		return fmt.Errorf("marshal powers: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO matches (id, seed, powers, started_at)
VALUES (?, ?, ?, ?)`,
		match.ID, match.Seed, string(powers), toMillis(match.StartedAt))
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

// SavePhase persists one resolved phase.
func (s *Store) SavePhase(ctx context.Context, record archive.PhaseRecord) error {
	orders, err := json.Marshal(record.Orders)
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}
	board, err := json.Marshal(record.Board)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO phases (match_id, phase_index, phase, orders, board, resolved_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		record.MatchID, record.Index, record.Phase, string(orders), string(board), toMillis(record.ResolvedAt))
	if err != nil {
		return fmt.Errorf("insert phase: %w", err)
	}
	return nil
}

// SavePress persists one press message.
func (s *Store) SavePress(ctx context.Context, record archive.PressRecord) error {
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO press (match_id, sender, recipient, text, phase, sent_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		record.MatchID, record.Sender, record.Recipient, record.Text, record.Phase, toMillis(record.SentAt))
	if err != nil {
		return fmt.Errorf("insert press: %w", err)
	}
	return nil
}

// SaveResult persists the final standings.
func (s *Store) SaveResult(ctx context.Context, result archive.Result) error {
	centers, err := json.Marshal(result.Centers)
	if err != nil {
		return fmt.Errorf("marshal centers: %w", err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO results (match_id, phase, centers, ended_at)
VALUES (?, ?, ?, ?)`,
		result.MatchID, result.Phase, string(centers), toMillis(result.EndedAt))
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// LoadMatch reads back the match header.
func (s *Store) LoadMatch(ctx context.Context, matchID string) (archive.Match, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, seed, powers, started_at FROM matches WHERE id = ?`, matchID)

	var (
		match      archive.Match
		powersJSON string
		startedAt  int64
	)
	if err := row.Scan(&match.ID, &match.Seed, &powersJSON, &startedAt); err != nil {
		return archive.Match{}, fmt.Errorf("load match: %w", err)
	}
	if err := json.Unmarshal([]byte(powersJSON), &match.Powers); err != nil {
		return archive.Match{}, fmt.Errorf("unmarshal powers: %w", err)
	}
	match.StartedAt = fromMillis(startedAt)
	return match, nil
}

// LatestMatch reads back the most recently started match header.
func (s *Store) LatestMatch(ctx context.Context) (archive.Match, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, seed, powers, started_at FROM matches ORDER BY started_at DESC, id DESC LIMIT 1`)

	var (
		match      archive.Match
		powersJSON string
		startedAt  int64
	)
	if err := row.Scan(&match.ID, &match.Seed, &powersJSON, &startedAt); err != nil {
		return archive.Match{}, fmt.Errorf("load latest match: %w", err)
	}
	if err := json.Unmarshal([]byte(powersJSON), &match.Powers); err != nil {
		return archive.Match{}, fmt.Errorf("unmarshal powers: %w", err)
	}
	match.StartedAt = fromMillis(startedAt)
	return match, nil
}

// LoadPhases reads back the resolved phases of a match in order.
func (s *Store) LoadPhases(ctx context.Context, matchID string) ([]archive.PhaseRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT match_id, phase_index, phase, orders, board, resolved_at
FROM phases WHERE match_id = ? ORDER BY phase_index`, matchID)
	if err != nil {
		return nil, fmt.Errorf("load phases: %w", err)
	}
	defer rows.Close()

	var records []archive.PhaseRecord
	for rows.Next() {
		var (
			record     archive.PhaseRecord
			ordersJSON string
			boardJSON  string
			resolvedAt int64
		)
		if err := rows.Scan(&record.MatchID, &record.Index, &record.Phase, &ordersJSON, &boardJSON, &resolvedAt); err != nil {
			return nil, fmt.Errorf("scan phase: %w", err)
		}
		if err := json.Unmarshal([]byte(ordersJSON), &record.Orders); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		if err := json.Unmarshal([]byte(boardJSON), &record.Board); err != nil {
			return nil, fmt.Errorf("unmarshal board: %w", err)
		}
		record.ResolvedAt = fromMillis(resolvedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read phases: %w", err)
	}
	return records, nil
}

// LoadPress reads back the press log of a match in arrival order.
func (s *Store) LoadPress(ctx context.Context, matchID string) ([]archive.PressRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT match_id, sender, recipient, text, phase, sent_at
FROM press WHERE match_id = ? ORDER BY id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("load press: %w", err)
	}
	defer rows.Close()

	var records []archive.PressRecord
	for rows.Next() {
		var (
			record archive.PressRecord
			sentAt int64
		)
		if err := rows.Scan(&record.MatchID, &record.Sender, &record.Recipient, &record.Text, &record.Phase, &sentAt); err != nil {
			return nil, fmt.Errorf("scan press: %w", err)
		}
		record.SentAt = fromMillis(sentAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read press: %w", err)
	}
	return records, nil
}

// LoadResult reads back the final standings of a match.
func (s *Store) LoadResult(ctx context.Context, matchID string) (archive.Result, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT match_id, phase, centers, ended_at FROM results WHERE match_id = ?`, matchID)

	var (
		result      archive.Result
		centersJSON string
		endedAt     int64
	)
	if err := row.Scan(&result.MatchID, &result.Phase, &centersJSON, &endedAt); err != nil {
		return archive.Result{}, fmt.Errorf("load result: %w", err)
	}
	if err := json.Unmarshal([]byte(centersJSON), &result.Centers); err != nil {
		return archive.Result{}, fmt.Errorf("unmarshal centers: %w", err)
	}
	result.EndedAt = fromMillis(endedAt)
	return result, nil
}

var _ archive.Store = (*Store)(nil)
