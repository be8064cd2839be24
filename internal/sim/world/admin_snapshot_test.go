package world

import (
	"errors"
	"testing"

	"altarcraft.ai/internal/persistence/snapshot"
)

func TestAdminSnapshot_CountsInFlightRituals(t *testing.T) {
	sink := make(chan snapshot.SnapshotV1, 1)
	w := newTestWorld(t, Options{SnapshotSink: sink})
	pid, _ := joinAt(t, w, "alice", Vec3i{})
	w.SetTick(300)
	w.PlaceAltar(Vec3i{X: 1})
	w.PlaceAltar(Vec3i{X: -1})
	startTransmute(t, w, pid, Vec3i{X: 1})

	reply := make(chan adminSnapshotReply, 1)
	w.handleAdminSnapshotRequests([]adminSnapshotReq{{reply: reply}})
	r := <-reply
	if r.err != nil {
		t.Fatalf("err: %v", r.err)
	}
	if r.receipt.Rituals != 1 || r.receipt.Tick != w.CurrentTick()-1 {
		t.Fatalf("receipt: %+v", r.receipt)
	}
	if snap := <-sink; len(snap.Altars) != 2 {
		t.Fatalf("altars: %d", len(snap.Altars))
	}

	// Sink still full from a second request.
	sink <- snapshot.SnapshotV1{}
	w.handleAdminSnapshotRequests([]adminSnapshotReq{{reply: reply}})
	if r := <-reply; !errors.Is(r.err, ErrSnapshotBusy) {
		t.Fatalf("err: %v", r.err)
	}
}

func TestAdminSnapshot_NoSink(t *testing.T) {
	w := newTestWorld(t, Options{})
	reply := make(chan adminSnapshotReply, 1)
	w.handleAdminSnapshotRequests([]adminSnapshotReq{{reply: reply}})
	if r := <-reply; !errors.Is(r.err, ErrSnapshotUnavailable) {
		t.Fatalf("err: %v", r.err)
	}
}
