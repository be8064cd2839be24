package world

import (
	"path/filepath"
	"testing"

	"altarcraft.ai/internal/persistence/snapshot"
)

func startTransmute(t *testing.T, w *World, pid string, altarPos Vec3i) {
	t.Helper()
	w.StepOnce(nil, nil, act(w, pid,
		interact("i1", altarPos, "IRON_INGOT", 4),
		interact("i2", altarPos, "RUBY", 1),
		interact("i3", altarPos, "BLAZE_ROD", 1),
	))
	a, _ := w.Altar(altarPos)
	if a.Idle() {
		t.Fatalf("ritual not started")
	}
}

func TestSnapshot_MidRitualResumesWithSameDigest(t *testing.T) {
	w1 := newTestWorld(t, Options{})
	pid, _ := joinAt(t, w1, "alice", Vec3i{})
	w1.SetTick(300)
	altarPos := Vec3i{X: 1}
	w1.PlaceAltar(altarPos)
	startTransmute(t, w1, pid, altarPos)
	steps(w1, 10)

	snap := w1.ExportSnapshot(w1.CurrentTick() - 1)
	path := filepath.Join(t.TempDir(), "snap.zst")
	if err := snapshot.WriteSnapshot(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := snapshot.ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	w2 := newTestWorld(t, Options{})
	if err := w2.ImportSnapshot(loaded); err != nil {
		t.Fatalf("import: %v", err)
	}
	if w2.CurrentTick() != w1.CurrentTick() {
		t.Fatalf("tick: got %d want %d", w2.CurrentTick(), w1.CurrentTick())
	}
	a2, err := w2.Altar(altarPos)
	if err != nil {
		t.Fatalf("altar missing after import: %v", err)
	}
	if a2.Progress() != 11 || a2.ProcessTime() != 100 {
		t.Fatalf("restored counters: progress=%d time=%d", a2.Progress(), a2.ProcessTime())
	}

	for i := 0; i < 5; i++ {
		_, d1 := w1.StepOnce(nil, nil, nil)
		_, d2 := w2.StepOnce(nil, nil, nil)
		if d1 != d2 {
			t.Fatalf("digest diverged at step %d", i)
		}
	}
	if a2.ActiveRecipe() == nil || a2.ActiveRecipe().ID != "transmute_gold" {
		t.Fatalf("resumed ritual: %v", a2.ActiveRecipe())
	}

	steps(w2, 100)
	items := w2.ItemEntities()
	if len(items) != 1 || items[0].Item != "GOLD_INGOT" {
		t.Fatalf("resumed ritual outputs: %+v", items)
	}
}

func TestSnapshot_ResumeFailsClosedWithoutMatch(t *testing.T) {
	w1 := newTestWorld(t, Options{})
	pid, _ := joinAt(t, w1, "alice", Vec3i{})
	w1.SetTick(300)
	altarPos := Vec3i{X: 1}
	w1.PlaceAltar(altarPos)
	startTransmute(t, w1, pid, altarPos)

	snap := w1.ExportSnapshot(w1.CurrentTick() - 1)
	// The ritual's inputs vanished between save and load.
	snap.Altars[0].Slots[0].Count = 1

	rec := &ritualRecorder{}
	w2 := newTestWorld(t, Options{RitualLogger: rec})
	if err := w2.ImportSnapshot(snap); err != nil {
		t.Fatalf("import: %v", err)
	}
	w2.StepOnce(nil, nil, nil)
	a2, _ := w2.Altar(altarPos)
	if !a2.Idle() || a2.Progress() != 0 {
		t.Fatalf("resume should fail closed")
	}
	if got := rec.kinds(); len(got) != 1 || got[0] != RitualCancel || rec.entries[0].Reason != "resume_failed" {
		t.Fatalf("journal: %+v", rec.entries)
	}
	if rec.entries[0].Actor != pid {
		t.Fatalf("journal actor: %q", rec.entries[0].Actor)
	}
	// The saved actor is still a player, so rollback hands the catalyst back.
	if items := w2.ItemEntities(); len(items) != 0 {
		t.Fatalf("catalyst dropped: %+v", items)
	}
	if got, want := w2.Player(pid).Inventory["BLAZE_ROD"], w1.Player(pid).Inventory["BLAZE_ROD"]+1; got != want {
		t.Fatalf("catalyst returned: got %d want %d", got, want)
	}
}

func TestImportSnapshot_RejectsOtherWorld(t *testing.T) {
	w := newTestWorld(t, Options{})
	snap := w.ExportSnapshot(0)
	snap.Header.WorldID = "elsewhere"
	if err := w.ImportSnapshot(snap); err == nil {
		t.Fatalf("expected world id mismatch")
	}
}
