// Package prompt builds the instruction prompts used by the LLM decider.
//
// Both prompts share a common context block: the power's identity, the full
// board state, the legal order menu and the recent press history. Only the
// final instructions section differs between the orders task and the press
// task.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/diplomacy.space/internal/game/engine"
)

// pressHistoryLimit caps how many past messages a prompt embeds.
const pressHistoryLimit = 50

// Input carries everything a prompt needs about the requesting power.
type Input struct {
	Power        string
	Board        engine.BoardState
	Legal        map[string][]string
	PressHistory []string
}

// Orders returns the instruction prompt for the order-writing task,
// including phase-specific guidance for movement, retreat and adjustment
// phases.
func Orders(in Input) string {
	var b strings.Builder
	writeCommon(&b, in)

	b.WriteString("\n<instructions>\nChoose legal orders. Respond only with a JSON array of order strings.")
	switch phaseType(in.Board.Phase) {
	case 'M':
		b.WriteString("\nReturn an array of orders for each of your units.")
		b.WriteString("\nUnits without orders will hold.")
		b.WriteString("\nYou may support other powers' units, but first consider your strategic goals.")
	case 'R':
		if pending := len(in.Legal); pending > 0 {
			fmt.Fprintf(&b, "\nYou have %d dislodged unit(s).", pending)
			fmt.Fprintf(&b, "\nReturn an array of exactly %d retreat or disband order(s), one per dislodged unit.", pending)
		}
	case 'A':
		state := in.Board.Powers[in.Power]
		diff := len(state.Centers) - len(state.Units)
		if diff > 0 {
			fmt.Fprintf(&b, "\nYou have %d build(s). Return an array of at most %d build order(s), or WAIVE.", diff, diff)
		} else if diff < 0 {
			fmt.Fprintf(&b, "\nYou must remove %d unit(s). Return an array of exactly %d disband order(s).", -diff, -diff)
		}
	}
	b.WriteString("\n</instructions>\n")
	return b.String()
}

// Press returns the instruction prompt for the press-message task. It uses
// the same context block as Orders so the model sees identical state.
func Press(in Input) string {
	var b strings.Builder
	writeCommon(&b, in)
	b.WriteString("\n<instructions>\nYour next press message. Keep it short and to the point (max 2 sentences). If you don't have anything to say, return an empty string.\n</instructions>\n")
	return b.String()
}

func writeCommon(b *strings.Builder, in Input) {
	board, err := json.MarshalIndent(in.Board, "", "  ")
	if err != nil {
		board = []byte("{}")
	}
	legal, err := json.MarshalIndent(in.Legal, "", "  ")
	if err != nil {
		legal = []byte("{}")
	}

	b.WriteString("<main-goal>\nYou are playing Diplomacy, a strategy board game. Your objective is to win by controlling 18 or more supply centers.\n</main-goal>\n")
	fmt.Fprintf(b, "\n<who-am-i>\nYou are power %s in phase %s.\n</who-am-i>\n", in.Power, in.Board.Phase)
	fmt.Fprintf(b, "\n<board-state>\n%s\n</board-state>\n", board)
	fmt.Fprintf(b, "\n<your-legal-orders>\n%s\n</your-legal-orders>\n", legal)
	fmt.Fprintf(b, "\n<press-history>\n%s\n</press-history>\n", RenderPressHistory(in.PressHistory))
}

// RenderPressHistory returns the most recent messages as a newline-separated
// block, or a placeholder when no press has been sent.
func RenderPressHistory(history []string) string {
	if len(history) == 0 {
		return "<none yet>"
	}
	if len(history) > pressHistoryLimit {
		history = history[len(history)-pressHistoryLimit:]
	}
	return strings.Join(history, "\n")
}

// phaseType extracts the phase-type marker from a label like "S1901M" or
// "W1901A". Labels without a trailing marker return 0.
func phaseType(label string) byte {
	if label == "" {
		return 0
	}
	switch c := label[len(label)-1]; c {
	case 'M', 'R', 'A':
		return c
	default:
		return 0
	}
}
