package altar

import (
	"errors"
	"testing"
)

func startDayRitual(t *testing.T, h *fakeHost, hooks *Hooks, r *Recipe) *Altar {
	t.Helper()
	a := newTestAltar(h, hooks, r)
	if rem := a.HandleInteraction("p1", ItemStack{Item: "A", Count: 2}, false); !rem.IsEmpty() {
		t.Fatalf("insert remainder=%+v", rem)
	}
	rem := a.HandleInteraction("p1", ItemStack{Item: "C", Count: 3}, false)
	if rem != (ItemStack{Item: "C", Count: 2}) {
		t.Fatalf("catalyst remainder=%+v", rem)
	}
	return a
}

func TestRitualDayScenario(t *testing.T) {
	h := newFakeHost()
	var completed []Event
	hooks := NewHooks()
	hooks.OnComplete(func(e Event) { completed = append(completed, e) })

	a := startDayRitual(t, h, hooks, dayRecipe())
	if a.ActiveRecipe() == nil || a.ProcessTime() != 5 || a.Progress() != 0 {
		t.Fatalf("not started: recipe=%v time=%d progress=%d", a.ActiveRecipe(), a.ProcessTime(), a.Progress())
	}
	if len(h.process) != 1 || h.process[0] != 5 {
		t.Fatalf("process time broadcasts=%v", h.process)
	}

	for i := 1; i <= 5; i++ {
		a.Tick()
		if a.Progress() != i {
			t.Fatalf("tick %d: progress=%d", i, a.Progress())
		}
		if !h.active {
			t.Fatalf("tick %d: altar not marked active", i)
		}
	}
	if len(h.spawned) != 0 {
		t.Fatalf("outputs before completion: %+v", h.spawned)
	}

	a.Tick()
	if !a.Idle() || a.Progress() != 0 || a.ProcessTime() != 0 {
		t.Fatalf("not reset: idle=%v progress=%d", a.Idle(), a.Progress())
	}
	if len(h.spawned) != 1 || h.spawned[0] != (ItemStack{Item: "GOLD", Count: 1}) {
		t.Fatalf("spawned=%+v", h.spawned)
	}
	if len(completed) != 1 || completed[0].Actor != "p1" || completed[0].Recipe.ID != "summon_gold" {
		t.Fatalf("completed=%+v", completed)
	}
	if h.active {
		t.Fatalf("indicator still on")
	}
	if !a.Inventory().IsEmpty() {
		t.Fatalf("inputs not consumed: %+v", a.Inventory().State())
	}
}

func TestRitualRejectedAtNight(t *testing.T) {
	h := newFakeHost()
	h.day = false
	var cancels []CancelEvent
	hooks := NewHooks()
	hooks.OnCancel(func(e CancelEvent) { cancels = append(cancels, e) })

	a := startDayRitual(t, h, hooks, dayRecipe())
	if !a.Idle() {
		t.Fatalf("expected idle")
	}
	if got := h.notes["p1"]; len(got) != 1 || got[0] != ReasonNoDay {
		t.Fatalf("notes=%v", got)
	}
	if len(h.returned) != 1 || h.returned[0] != (ItemStack{Item: "C", Count: 1}) {
		t.Fatalf("catalyst not returned: %+v", h.returned)
	}
	if !a.Inventory().Catalyst().IsEmpty() {
		t.Fatalf("catalyst slot kept %+v", a.Inventory().Catalyst())
	}
	if in := a.Inventory().Inputs(); in[0] != (ItemStack{Item: "A", Count: 2}) {
		t.Fatalf("inputs disturbed: %+v", in)
	}
	if h.sounds[len(h.sounds)-1] != SoundReject {
		t.Fatalf("sounds=%v", h.sounds)
	}
	if len(cancels) != 1 || cancels[0].Started || cancels[0].Reason != ReasonNoDay {
		t.Fatalf("cancels=%+v", cancels)
	}

	before := h.broadcasts()
	a.Tick()
	if h.broadcasts() != before || !a.Idle() {
		t.Fatalf("idle tick changed state")
	}
}

func TestRitualInsufficientSacrifices(t *testing.T) {
	r := dayRecipe()
	r.Sacrifices = Sacrifices{Entries: []Sacrifice{{Creature: CreaturePredicate{Type: "SHEEP"}, Count: 3}}, Zone: Vec3i{X: 3, Y: 2, Z: 3}}
	h := newFakeHost()
	h.creatures = []Creature{sheep("s1", 1), sheep("s2", -1)}

	a := startDayRitual(t, h, nil, r)
	if !a.Idle() {
		t.Fatalf("expected idle")
	}
	if got := h.notes["p1"]; len(got) != 1 || got[0] != ReasonSacrifices {
		t.Fatalf("notes=%v", got)
	}
	if len(h.killed) != 0 || len(h.creatures) != 2 {
		t.Fatalf("creatures harmed: killed=%v", h.killed)
	}
}

func TestSacrificesKilledProgressively(t *testing.T) {
	r := dayRecipe()
	r.Sacrifices = Sacrifices{
		Entries: []Sacrifice{
			{Creature: CreaturePredicate{Type: "SHEEP"}, Count: 2},
			{Creature: CreaturePredicate{Type: "PIG"}, Count: 1},
		},
		Zone: Vec3i{X: 3, Y: 2, Z: 3},
	}
	h := newFakeHost()
	h.creatures = []Creature{sheep("s1", 1), sheep("s2", 2), sheep("s3", 3), {ID: "p", Type: "PIG"}}

	a := startDayRitual(t, h, nil, r)
	if a.Idle() {
		t.Fatalf("expected start, notes=%v", h.notes)
	}
	scans := h.scans
	if len(h.killed) != 0 {
		t.Fatalf("killed at start: %v", h.killed)
	}

	a.Tick()
	if len(h.killed) != 2 || h.killed[0] != "s1" || h.killed[1] != "s2" {
		t.Fatalf("first tick killed=%v", h.killed)
	}
	a.Tick()
	if len(h.killed) != 3 || h.killed[2] != "p" {
		t.Fatalf("second tick killed=%v", h.killed)
	}
	a.Tick()
	if len(h.killed) != 3 {
		t.Fatalf("killed beyond targets: %v", h.killed)
	}
	if len(h.particles) != 2 || len(h.particles[0]) != 2 {
		t.Fatalf("particles=%v", h.particles)
	}
	if h.scans != scans {
		t.Fatalf("world rescanned during ritual")
	}
	if len(h.creatures) != 1 || h.creatures[0].ID != "s3" {
		t.Fatalf("survivors=%+v", h.creatures)
	}
}

func TestZeroDurationCompletesOnFirstTick(t *testing.T) {
	r := dayRecipe()
	r.Duration = 0
	h := newFakeHost()
	a := startDayRitual(t, h, nil, r)
	a.Tick()
	if !a.Idle() || len(h.spawned) != 1 {
		t.Fatalf("idle=%v spawned=%+v", a.Idle(), h.spawned)
	}
	if h.toggles != 0 {
		t.Fatalf("indicator toggled %d times", h.toggles)
	}
	for _, p := range h.progress {
		if p != 0 {
			t.Fatalf("progress broadcast %d before completion", p)
		}
	}
}

func TestCancelRollbackReturnsLastInsertion(t *testing.T) {
	h := newFakeHost()
	a := startDayRitual(t, h, nil, dayRecipe())
	a.Tick()
	a.Tick()

	got := a.Cancel(true)
	if got != (ItemStack{Item: "C", Count: 1}) {
		t.Fatalf("returned %+v", got)
	}
	if !a.Idle() || a.Progress() != 0 || a.ActiveRecipe() != nil {
		t.Fatalf("not reset")
	}
	if h.active {
		t.Fatalf("indicator still on")
	}
	if got := a.Cancel(true); got != (ItemStack{Item: "A", Count: 2}) {
		t.Fatalf("second rollback returned %+v", got)
	}
}

func TestInputsChangedDuringRitual(t *testing.T) {
	h := newFakeHost()
	var cancels []CancelEvent
	hooks := NewHooks()
	hooks.OnCancel(func(e CancelEvent) { cancels = append(cancels, e) })
	a := startDayRitual(t, h, hooks, dayRecipe())

	st := a.Inventory().State()
	st.Slots[0] = ItemStack{Item: "A", Count: 1}
	a.Inventory().Load(st)

	for i := 0; i < 6; i++ {
		a.Tick()
	}
	if !a.Idle() {
		t.Fatalf("expected cancel")
	}
	if got := h.notes["p1"]; len(got) == 0 || got[len(got)-1] != ReasonInvalid {
		t.Fatalf("notes=%v", got)
	}
	if len(h.spawned) != 0 {
		t.Fatalf("outputs realized: %+v", h.spawned)
	}
	if len(h.returned) != 1 || h.returned[0].Item != "C" {
		t.Fatalf("rollback returned %+v", h.returned)
	}
	if len(cancels) != 1 || !cancels[0].Started || cancels[0].Reason != ReasonInvalid {
		t.Fatalf("cancels=%+v", cancels)
	}
}

func TestStartVeto(t *testing.T) {
	h := newFakeHost()
	hooks := NewHooks()
	seen := 0
	hooks.OnStart(func(Event) bool { seen++; return false })
	hooks.OnStart(func(Event) bool { seen++; return true })

	a := startDayRitual(t, h, hooks, dayRecipe())
	if !a.Idle() {
		t.Fatalf("vetoed ritual started")
	}
	if seen != 2 {
		t.Fatalf("listeners run=%d", seen)
	}
	if got := h.notes["p1"]; len(got) != 1 || got[0] != ReasonVetoed {
		t.Fatalf("notes=%v", got)
	}
	if len(h.returned) != 1 || h.returned[0].Item != "C" {
		t.Fatalf("returned=%+v", h.returned)
	}
}

func TestStartedFiresOnlyAfterAcceptance(t *testing.T) {
	hooks := NewHooks()
	var started []Event
	veto := true
	hooks.OnStarted(func(e Event) { started = append(started, e) })
	hooks.OnStart(func(Event) bool { return !veto })

	startDayRitual(t, newFakeHost(), hooks, dayRecipe())
	if len(started) != 0 {
		t.Fatalf("vetoed ritual reported started: %+v", started)
	}

	veto = false
	a := startDayRitual(t, newFakeHost(), hooks, dayRecipe())
	if a.Idle() || len(started) != 1 || started[0].RunID == "" || started[0].Actor != "p1" {
		t.Fatalf("started=%+v", started)
	}
}

func TestBusyAltarRefusesInteraction(t *testing.T) {
	h := newFakeHost()
	a := startDayRitual(t, h, nil, dayRecipe())

	in := ItemStack{Item: "A", Count: 4}
	if got := a.HandleInteraction("p2", in, false); got != in {
		t.Fatalf("busy altar took %+v", got)
	}
	if got := h.notes["p2"]; len(got) != 1 || got[0] != ReasonProgress {
		t.Fatalf("notes=%v", got)
	}
	if _, err := a.ExternalInventory(); !errors.Is(err, ErrAltarBusy) {
		t.Fatalf("external access err=%v", err)
	}
}

func TestSneakEmptyHandPopsLastInsertion(t *testing.T) {
	h := newFakeHost()
	a := newTestAltar(h, nil, dayRecipe())
	a.HandleInteraction("p1", ItemStack{Item: "A", Count: 1}, false)
	a.HandleInteraction("p1", ItemStack{Item: "B", Count: 3}, false)

	a.HandleInteraction("p1", ItemStack{}, false)
	if len(h.returned) != 0 {
		t.Fatalf("non-sneak empty hand popped")
	}
	a.HandleInteraction("p1", ItemStack{}, true)
	if len(h.returned) != 1 || h.returned[0] != (ItemStack{Item: "B", Count: 3}) {
		t.Fatalf("returned=%+v", h.returned)
	}
}

func TestUnmatchedCatalystIsStoredAsInput(t *testing.T) {
	h := newFakeHost()
	a := newTestAltar(h, nil, dayRecipe())
	rem := a.HandleInteraction("p1", ItemStack{Item: "C", Count: 2}, false)
	if !rem.IsEmpty() {
		t.Fatalf("remainder=%+v", rem)
	}
	if !a.Inventory().Catalyst().IsEmpty() {
		t.Fatalf("catalyst slot set without a match")
	}
	if in := a.Inventory().Inputs(); in[0] != (ItemStack{Item: "C", Count: 2}) {
		t.Fatalf("inputs=%+v", in)
	}
}

func TestSaveLoadResumesSameRecipe(t *testing.T) {
	h := newFakeHost()
	a := startDayRitual(t, h, nil, dayRecipe())
	a.Tick()
	a.Tick()
	sd := a.Save()
	if sd.Progress != 2 || sd.ProcessTime != 5 || sd.RecipeID != "summon_gold" {
		t.Fatalf("save=%+v", sd)
	}

	h2 := newFakeHost()
	b := newTestAltar(h2, nil, dayRecipe())
	b.Load(sd)
	if b.Idle() || b.Progress() != 2 {
		t.Fatalf("load lost counters")
	}
	b.Tick()
	if b.ActiveRecipe() == nil || b.Progress() != 3 {
		t.Fatalf("resume: recipe=%v progress=%d", b.ActiveRecipe(), b.Progress())
	}
	for i := 0; i < 3; i++ {
		b.Tick()
	}
	if !b.Idle() || len(h2.spawned) != 1 {
		t.Fatalf("resumed ritual did not complete: idle=%v spawned=%v", b.Idle(), h2.spawned)
	}
}

func twoEntrySacrificeRecipe() *Recipe {
	r := dayRecipe()
	r.Sacrifices = Sacrifices{
		Entries: []Sacrifice{
			{Creature: CreaturePredicate{Type: "SHEEP"}, Count: 1},
			{Creature: CreaturePredicate{Type: "PIG"}, Count: 1},
		},
		Zone: Vec3i{X: 3, Y: 2, Z: 3},
	}
	return r
}

func TestSaveLoadKeepsPendingSacrifices(t *testing.T) {
	h := newFakeHost()
	h.creatures = []Creature{sheep("s1", 1), {ID: "p", Type: "PIG"}}
	a := startDayRitual(t, h, nil, twoEntrySacrificeRecipe())
	a.Tick()
	if len(h.killed) != 1 || h.killed[0] != "s1" {
		t.Fatalf("first batch killed=%v", h.killed)
	}
	sd := a.Save()
	if sd.Actor != "p1" || len(sd.Pending) != 1 || len(sd.Pending[0]) != 1 || sd.Pending[0][0] != "p" {
		t.Fatalf("save=%+v", sd)
	}

	h2 := newFakeHost()
	h2.creatures = []Creature{{ID: "p", Type: "PIG"}}
	var completed []Event
	hooks := NewHooks()
	hooks.OnComplete(func(e Event) { completed = append(completed, e) })
	b := newTestAltar(h2, hooks, twoEntrySacrificeRecipe())
	b.Load(sd)
	for i := 0; i < 5; i++ {
		b.Tick()
	}
	if !b.Idle() || len(h2.spawned) != 1 {
		t.Fatalf("resumed ritual did not complete: idle=%v spawned=%v", b.Idle(), h2.spawned)
	}
	if len(h2.killed) != 1 || h2.killed[0] != "p" || len(h2.creatures) != 0 {
		t.Fatalf("pending sacrifice not taken: killed=%v creatures=%+v", h2.killed, h2.creatures)
	}
	if h2.scans != 0 {
		t.Fatalf("resume rescanned the world")
	}
	if len(completed) != 1 || completed[0].Actor != "p1" {
		t.Fatalf("completed=%+v", completed)
	}
}

func TestResumeSkipsVanishedSacrifice(t *testing.T) {
	h := newFakeHost()
	h.creatures = []Creature{sheep("s1", 1), {ID: "p", Type: "PIG"}}
	a := startDayRitual(t, h, nil, twoEntrySacrificeRecipe())
	a.Tick()
	sd := a.Save()

	h2 := newFakeHost()
	b := newTestAltar(h2, nil, twoEntrySacrificeRecipe())
	b.Load(sd)
	for i := 0; i < 5; i++ {
		b.Tick()
	}
	if !b.Idle() || len(h2.spawned) != 1 || len(h2.killed) != 0 || len(h2.particles) != 0 {
		t.Fatalf("idle=%v spawned=%v killed=%v particles=%v", b.Idle(), h2.spawned, h2.killed, h2.particles)
	}
}

func TestLoadFailsClosedOnDifferentRecipe(t *testing.T) {
	h := newFakeHost()
	a := startDayRitual(t, h, nil, dayRecipe())
	a.Tick()
	sd := a.Save()
	sd.RecipeID = "renamed"

	h2 := newFakeHost()
	b := newTestAltar(h2, nil, dayRecipe())
	b.Load(sd)
	b.Tick()
	if !b.Idle() || b.Progress() != 0 {
		t.Fatalf("expected forfeit")
	}
	if len(h2.returned) != 1 || h2.returned[0].Item != "C" {
		t.Fatalf("rollback returned %+v", h2.returned)
	}
}

func TestSetProgressOnIdleBecomesPendingResume(t *testing.T) {
	h := newFakeHost()
	a := newTestAltar(h, nil, dayRecipe())
	a.SetProcessTime(5)
	a.SetProgress(3)
	if a.Progress() != 3 || a.ProcessTime() != 5 || a.Idle() {
		t.Fatalf("progress=%d time=%d idle=%v", a.Progress(), a.ProcessTime(), a.Idle())
	}
	// No catalyst: nothing to resume, counters are dropped quietly.
	a.Tick()
	if !a.Idle() || a.Progress() != 0 || len(h.returned) != 0 {
		t.Fatalf("expected quiet reset")
	}
}

func TestSpreadStepCoversCube(t *testing.T) {
	s := Vec3i{X: 1, Z: 1}
	seen := map[Vec3i]bool{}
	for k := 0; k < 9; k++ {
		p := spreadStep(k, s)
		if p.X < -1 || p.X > 1 || p.Z < -1 || p.Z > 1 || p.Y != 0 {
			t.Fatalf("step %d out of range: %+v", k, p)
		}
		seen[p] = true
	}
	if len(seen) != 9 {
		t.Fatalf("covered %d cells", len(seen))
	}
}
