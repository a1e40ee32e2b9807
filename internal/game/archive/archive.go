// Package archive records finished match data: metadata, per-phase resolved
// positions and orders, press traffic, and the final standings. The archive
// is an outcome record, not an event log; the running match never reads it
// back.
package archive

import (
	"context"
	"log"
	"time"

	"github.com/louisbranch/diplomacy.space/internal/game/engine"
)

// Match is the archived match header.
type Match struct {
	ID        string
	Seed      int64
	Powers    []string
	StartedAt time.Time
}

// PhaseRecord is one resolved phase: the orders every power committed and
// the board that resulted from adjudicating them.
type PhaseRecord struct {
	MatchID    string
	Index      int
	Phase      string
	Orders     map[string][]string
	Board      engine.BoardState
	ResolvedAt time.Time
}

// PressRecord is one archived press message.
type PressRecord struct {
	MatchID   string
	Sender    string
	Recipient string
	Text      string
	Phase     string
	SentAt    time.Time
}

// Result is the final standings of a finished match.
type Result struct {
	MatchID string
	Phase   string
	Centers map[string]int
	EndedAt time.Time
}

// Store persists archive records.
type Store interface {
	CreateMatch(ctx context.Context, match Match) error
	SavePhase(ctx context.Context, record PhaseRecord) error
	SavePress(ctx context.Context, record PressRecord) error
	SaveResult(ctx context.Context, result Result) error
}

// Recorder writes match records to a store as the match progresses. A nil
// Recorder is a no-op, so callers never guard their record calls. Store
// failures are logged and swallowed: archiving never stalls a running match.
type Recorder struct {
	store   Store
	matchID string
	clock   func() time.Time
	phases  int
}

// NewRecorder creates a recorder writing records for matchID.
func NewRecorder(s Store, matchID string) *Recorder {
	return &Recorder{store: s, matchID: matchID, clock: time.Now}
}

func (r *Recorder) now() time.Time {
	if r.clock == nil {
		return time.Now().UTC()
	}
	return r.clock().UTC()
}

// Begin records the match header.
func (r *Recorder) Begin(ctx context.Context, seed int64, powers []string) {
	if r == nil || r.store == nil {
		return
	}
	err := r.store.CreateMatch(ctx, Match{
		ID:        r.matchID,
		Seed:      seed,
		Powers:    powers,
		StartedAt: r.now(),
	})
	if err != nil {
		log.Printf("archive: create match %s: %v", r.matchID, err)
	}
}

// Press records one press message.
func (r *Recorder) Press(ctx context.Context, press engine.Press) {
	if r == nil || r.store == nil {
		return
	}
	err := r.store.SavePress(ctx, PressRecord{
		MatchID:   r.matchID,
		Sender:    press.Sender,
		Recipient: press.Recipient,
		Text:      press.Text,
		Phase:     press.Phase,
		SentAt:    press.SentAt,
	})
	if err != nil {
		log.Printf("archive: save press for match %s: %v", r.matchID, err)
	}
}

// PhaseResolved records one adjudicated phase. phase is the label of the
// phase the orders were committed in; board is the post-adjudication state.
func (r *Recorder) PhaseResolved(ctx context.Context, phase string, orders map[string][]string, board engine.BoardState) {
	if r == nil || r.store == nil {
		return
	}
	r.phases++
	err := r.store.SavePhase(ctx, PhaseRecord{
		MatchID:    r.matchID,
		Index:      r.phases,
		Phase:      phase,
		Orders:     orders,
		Board:      board,
		ResolvedAt: r.now(),
	})
	if err != nil {
		log.Printf("archive: save phase %s of match %s: %v", phase, r.matchID, err)
	}
}

// MatchEnded records the final standings.
func (r *Recorder) MatchEnded(ctx context.Context, board engine.BoardState) {
	if r == nil || r.store == nil {
		return
	}
	err := r.store.SaveResult(ctx, Result{
		MatchID: r.matchID,
		Phase:   board.Phase,
		Centers: engine.CenterCounts(board),
		EndedAt: r.now(),
	})
	if err != nil {
		log.Printf("archive: save result for match %s: %v", r.matchID, err)
	}
}
