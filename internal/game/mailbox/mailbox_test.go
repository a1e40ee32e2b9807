package mailbox

import (
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/diplomacy.space/internal/game/event"
)

func register(t *testing.T, r *Registry, powers ...string) {
	t.Helper()
	for _, p := range powers {
		if err := r.Register(p); err != nil {
			t.Fatalf("register %s: %v", p, err)
		}
	}
}

func notice(seq uint64) event.Event {
	return event.Event{Seq: seq, Kind: event.KindNotice, Sender: event.SenderSystem, Recipient: event.RecipientAll}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	register(t, r, "FRANCE")
	if err := r.Register("FRANCE"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestBroadcastAllDeliversToEveryMailbox(t *testing.T) {
	r := NewRegistry()
	register(t, r, "FRANCE", "GERMANY", "RUSSIA")

	if err := r.Broadcast(notice(1), nil); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	for _, p := range r.Powers() {
		m, ok := r.Mailbox(p)
		if !ok {
			t.Fatalf("missing mailbox for %s", p)
		}
		if m.Len() != 1 {
			t.Fatalf("expected one event in %s mailbox, got %d", p, m.Len())
		}
	}
}

func TestBroadcastUnregisteredPowerIsFault(t *testing.T) {
	r := NewRegistry()
	register(t, r, "FRANCE")

	err := r.Broadcast(notice(1), []string{"FRANCE", "ATLANTIS"})
	if !errors.Is(err, ErrUnregisteredPower) {
		t.Fatalf("expected ErrUnregisteredPower, got %v", err)
	}
	// Partial delivery must not happen.
	m, _ := r.Mailbox("FRANCE")
	if m.Len() != 0 {
		t.Fatalf("expected no delivery after fault, got %d events", m.Len())
	}
}

func TestDeliveryPreservesBroadcastOrder(t *testing.T) {
	r := NewRegistry()
	register(t, r, "FRANCE", "GERMANY")

	for seq := uint64(1); seq <= 5; seq++ {
		var recipients []string
		if seq%2 == 0 {
			recipients = []string{"FRANCE"}
		}
		if err := r.Broadcast(notice(seq), recipients); err != nil {
			t.Fatalf("broadcast %d: %v", seq, err)
		}
	}
	r.Close()

	// FRANCE saw everything in issue order.
	franceBox, _ := r.Mailbox("FRANCE")
	var france []uint64
	for {
		ev, ok := franceBox.Receive()
		if !ok {
			break
		}
		france = append(france, ev.Seq)
	}
	if len(france) != 5 {
		t.Fatalf("expected 5 events for FRANCE, got %d", len(france))
	}
	for i, seq := range france {
		if seq != uint64(i+1) {
			t.Fatalf("FRANCE order broken at %d: %v", i, france)
		}
	}

	// GERMANY saw a subsequence preserving relative order.
	germanyBox, _ := r.Mailbox("GERMANY")
	var germany []uint64
	for {
		ev, ok := germanyBox.Receive()
		if !ok {
			break
		}
		germany = append(germany, ev.Seq)
	}
	for i := 1; i < len(germany); i++ {
		if germany[i] <= germany[i-1] {
			t.Fatalf("GERMANY order broken: %v", germany)
		}
	}
}

func TestReceiveBlocksUntilPush(t *testing.T) {
	r := NewRegistry()
	register(t, r, "FRANCE")
	m, _ := r.Mailbox("FRANCE")

	got := make(chan event.Event, 1)
	go func() {
		ev, ok := m.Receive()
		if ok {
			got <- ev
		}
	}()

	select {
	case <-got:
		t.Fatal("receive returned before any broadcast")
	case <-time.After(20 * time.Millisecond):
	}

	if err := r.Broadcast(notice(7), nil); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	select {
	case ev := <-got:
		if ev.Seq != 7 {
			t.Fatalf("expected seq 7, got %d", ev.Seq)
		}
	case <-time.After(time.Second):
		t.Fatal("receive did not wake after broadcast")
	}
}

func TestCloseDrainsThenStops(t *testing.T) {
	r := NewRegistry()
	register(t, r, "FRANCE")
	if err := r.Broadcast(notice(1), nil); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	r.Close()

	m, _ := r.Mailbox("FRANCE")
	if _, ok := m.Receive(); !ok {
		t.Fatal("expected queued event to drain after close")
	}
	if _, ok := m.Receive(); ok {
		t.Fatal("expected closed mailbox to stop after drain")
	}
	if err := r.Broadcast(notice(2), nil); !errors.Is(err, ErrRegistryClosed) {
		t.Fatalf("expected ErrRegistryClosed, got %v", err)
	}
}
