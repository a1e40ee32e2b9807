package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/diplomacy.space/internal/game/engine"
	"github.com/louisbranch/diplomacy.space/internal/game/event"
	"github.com/louisbranch/diplomacy.space/internal/game/mailbox"
)

type stubView struct {
	power string
}

func (v *stubView) Power() string                      { return v.power }
func (v *stubView) BoardSnapshot() engine.BoardState   { return engine.BoardState{} }
func (v *stubView) LegalActions() (map[string][]string, error) {
	return map[string][]string{}, nil
}
func (v *stubView) SendMessage(ctx context.Context, to, text string) error { return nil }
func (v *stubView) SubmitAction(ctx context.Context, orders []string) error {
	return nil
}

// recordingDecider captures the history length seen on each invocation.
type recordingDecider struct {
	calls     int
	histories [][]Entry
	err       error
}

func (d *recordingDecider) Decide(ctx context.Context, history []Entry, view View) error {
	d.calls++
	snapshot := make([]Entry, len(history))
	copy(snapshot, history)
	d.histories = append(d.histories, snapshot)
	return d.err
}

func newLoopFixture(t *testing.T, power string) (*mailbox.Registry, *Loop, *recordingDecider) {
	t.Helper()
	registry := mailbox.NewRegistry()
	if err := registry.Register(power); err != nil {
		t.Fatalf("Register: %v", err)
	}
	mb, ok := registry.Mailbox(power)
	if !ok {
		t.Fatal("mailbox missing")
	}
	decider := &recordingDecider{}
	return registry, New(&stubView{power: power}, mb, decider), decider
}

func mustPayload(t *testing.T, payload any) []byte {
	t.Helper()
	raw, err := event.EncodePayload(payload)
	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}
	return raw
}

func runToCompletion(t *testing.T, l *Loop) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after registry close")
	}
}

func TestConversionTable(t *testing.T) {
	registry, l, decider := newLoopFixture(t, "FRANCE")

	events := []event.Event{
		{
			Seq: 1, Kind: event.KindMessage, Sender: "AUSTRIA", Recipient: "FRANCE",
			Payload: mustPayload(t, event.MessagePayload{To: "FRANCE", Text: "hello"}),
		},
		{
			Seq: 2, Kind: event.KindMessage, Sender: "FRANCE", Recipient: "AUSTRIA",
			Payload: mustPayload(t, event.MessagePayload{To: "AUSTRIA", Text: "reply"}),
		},
		{
			Seq: 3, Kind: event.KindMessage, Sender: "GERMANY", Recipient: event.RecipientAll,
			Payload: mustPayload(t, event.MessagePayload{To: event.RecipientAll, Text: "to all"}),
		},
		{
			Seq: 4, Kind: event.KindSnapshot, Sender: event.SenderSystem, Recipient: event.RecipientAll,
			Payload: mustPayload(t, event.SnapshotPayload{Phase: "S1901M", Board: []byte(`{"phase":"S1901M"}`)}),
		},
		{
			Seq: 5, Kind: event.KindPhaseChange, Sender: event.SenderSystem, Recipient: event.RecipientAll,
			Payload: mustPayload(t, event.PhaseChangePayload{Phase: "F1901M"}),
		},
		{
			Seq: 6, Kind: event.KindNotice, Sender: event.SenderSystem, Recipient: event.RecipientAll,
			Payload: mustPayload(t, event.NoticePayload{Status: event.NoticeOrdersSubmitted, Power: "ITALY"}),
		},
	}
	for _, ev := range events {
		if err := registry.Broadcast(ev, nil); err != nil {
			t.Fatalf("Broadcast: %v", err)
		}
	}
	registry.Close()

	runToCompletion(t, l)

	want := []Entry{
		{Role: RoleReceived, Content: "AUSTRIA → FRANCE: hello"},
		{Role: RoleObserved, Content: "FRANCE → AUSTRIA: reply"},
		{Role: RoleObserved, Content: "GERMANY → ALL: to all"},
		{Role: RoleContext, Content: `board S1901M: {"phase":"S1901M"}`},
		{Role: RoleContext, Content: "F1901M"},
		{Role: RoleContext, Content: `{"status":"orders_submitted","power":"ITALY"}`},
	}
	got := l.History()
	if len(got) != len(want) {
		t.Fatalf("history length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("history[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if decider.calls != len(want) {
		t.Fatalf("decider called %d times, want %d", decider.calls, len(want))
	}
}

func TestDeciderInvokedPerEventWithGrowingHistory(t *testing.T) {
	registry, l, decider := newLoopFixture(t, "FRANCE")

	for seq := uint64(1); seq <= 3; seq++ {
		ev := event.Event{
			Seq: seq, Kind: event.KindPhaseChange,
			Sender: event.SenderSystem, Recipient: event.RecipientAll,
			Payload: mustPayload(t, event.PhaseChangePayload{Phase: "S1901M"}),
		}
		if err := registry.Broadcast(ev, nil); err != nil {
			t.Fatalf("Broadcast: %v", err)
		}
	}
	registry.Close()

	runToCompletion(t, l)

	if decider.calls != 3 {
		t.Fatalf("decider called %d times, want 3", decider.calls)
	}
	for i, history := range decider.histories {
		if len(history) != i+1 {
			t.Fatalf("call %d saw %d entries, want %d", i, len(history), i+1)
		}
	}
}

func TestDeciderErrorDoesNotStopLoop(t *testing.T) {
	registry, l, decider := newLoopFixture(t, "FRANCE")
	decider.err = errors.New("decider broke")

	for seq := uint64(1); seq <= 2; seq++ {
		ev := event.Event{
			Seq: seq, Kind: event.KindNotice,
			Sender: event.SenderSystem, Recipient: event.RecipientAll,
			Payload: mustPayload(t, event.NoticePayload{Status: event.NoticeOrdersSubmitted}),
		}
		if err := registry.Broadcast(ev, nil); err != nil {
			t.Fatalf("Broadcast: %v", err)
		}
	}
	registry.Close()

	runToCompletion(t, l)

	if decider.calls != 2 {
		t.Fatalf("decider called %d times, want 2", decider.calls)
	}
}

func TestRunHonorsCancelledContext(t *testing.T) {
	_, l, decider := newLoopFixture(t, "FRANCE")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if decider.calls != 0 {
		t.Fatal("decider invoked after cancellation")
	}
}
