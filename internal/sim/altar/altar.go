package altar

import (
	"log"

	"github.com/google/uuid"
)

type Config struct {
	Pos     Vec3i
	Slots   int
	Matcher *Matcher
	Hooks   *Hooks
	Host    Host
	Out     Broadcaster
	Logger  *log.Logger
	// NewRunID labels a started ritual in hooks and journals. Defaults to a
	// random UUID.
	NewRunID func() string
}

// Altar is a ritual block entity. It is not safe for concurrent use; the
// owning world calls it from its loop goroutine only.
type Altar struct {
	pos      Vec3i
	inv      *Inventory
	matcher  *Matcher
	hooks    *Hooks
	host     Host
	out      Broadcaster
	log      *log.Logger
	newRunID func() string

	state phase
}

func New(cfg Config) *Altar {
	a := &Altar{
		pos:      cfg.Pos,
		inv:      NewInventory(cfg.Slots),
		matcher:  cfg.Matcher,
		hooks:    cfg.Hooks,
		host:     cfg.Host,
		out:      cfg.Out,
		log:      cfg.Logger,
		newRunID: cfg.NewRunID,
		state:    idle{},
	}
	if a.newRunID == nil {
		a.newRunID = uuid.NewString
	}
	return a
}

func (a *Altar) Pos() Vec3i { return a.pos }

func (a *Altar) Idle() bool {
	_, ok := a.state.(idle)
	return ok
}

// ActiveRecipe returns the running recipe, or nil.
func (a *Altar) ActiveRecipe() *Recipe {
	if st, ok := a.state.(*active); ok {
		return st.recipe
	}
	return nil
}

// Inventory is the raw inventory for the owning world. Outside automation
// must use ExternalInventory.
func (a *Altar) Inventory() *Inventory { return a.inv }

// ExternalInventory gates automated access: the slots are only reachable
// while no ritual is running or pending resume.
func (a *Altar) ExternalInventory() (*Inventory, error) {
	if !a.Idle() {
		return nil, ErrAltarBusy
	}
	return a.inv, nil
}

// HandleInteraction processes actor using stack on the altar and returns
// what is left in the actor's hand.
func (a *Altar) HandleInteraction(actor string, stack ItemStack, sneaking bool) ItemStack {
	if !a.Idle() {
		a.host.Notify(actor, ReasonProgress)
		return stack
	}

	if stack.IsEmpty() {
		if sneaking {
			a.returnLast(actor)
		}
		return ItemStack{}
	}

	if a.matcher.IsCatalyst(stack.Item) {
		a.inv.SetCatalyst(ItemStack{Item: stack.Item, Count: 1})
		recipe := a.matcher.Match(a.inv.Inputs(), a.inv.Catalyst())
		if recipe == nil {
			a.inv.SetCatalyst(ItemStack{})
		} else {
			stack.Count--
			if stack.Count <= 0 {
				stack = ItemStack{}
			}
			a.start(recipe, actor)
			return stack
		}
	}

	remaining := a.inv.HandleInsertion(stack)
	a.host.PlaySound(a.pos, SoundPickup)
	return remaining
}

func (a *Altar) start(recipe *Recipe, actor string) bool {
	batches, err := CheckPreconditions(recipe, a.host, a.pos, actor)
	if err != nil {
		reason, _ := RejectionReason(err)
		a.host.Notify(actor, reason)
		a.returnLast(actor)
		a.host.PlaySound(a.pos, SoundReject)
		a.hooks.fireCancel(CancelEvent{
			Event:  Event{Pos: a.pos, Recipe: recipe, Actor: actor},
			Reason: reason,
		})
		a.logf("reject recipe=%s actor=%s reason=%s", recipe.ID, actor, reason)
		return false
	}

	ev := Event{Pos: a.pos, Recipe: recipe, Actor: actor, RunID: a.newRunID()}
	if !a.hooks.fireStart(ev) {
		a.host.Notify(actor, ReasonVetoed)
		a.reset(actor, true)
		a.hooks.fireCancel(CancelEvent{Event: ev, Reason: ReasonVetoed})
		a.logf("vetoed recipe=%s actor=%s run=%s", recipe.ID, actor, ev.RunID)
		return false
	}

	a.state = &active{
		recipe:   recipe,
		actor:    actor,
		runID:    ev.RunID,
		duration: recipe.Duration,
		pending:  batches,
	}
	a.hooks.fireStarted(ev)
	a.host.PlaySound(a.pos, SoundActivate)
	a.out.BroadcastProcessTime(a.pos, recipe.Duration)
	a.logf("start recipe=%s actor=%s run=%s duration=%d", recipe.ID, actor, ev.RunID, recipe.Duration)
	return true
}

// Tick advances the ritual by one world update.
func (a *Altar) Tick() {
	switch st := a.state.(type) {
	case idle:
		if a.inv.Catalyst().IsEmpty() {
			return
		}
		recipe := a.matcher.Match(a.inv.Inputs(), a.inv.Catalyst())
		if recipe == nil {
			a.reset("", true)
			a.hooks.fireCancel(CancelEvent{Event: Event{Pos: a.pos}, Reason: ReasonNoRecipe})
			return
		}
		if !a.start(recipe, "") {
			return
		}
	case restored:
		if !a.resume(st) {
			return
		}
	}

	st, ok := a.state.(*active)
	if !ok {
		return
	}

	if st.progress >= st.duration {
		a.complete(st)
		return
	}

	if st.progress == 0 {
		a.host.SetAltarActive(a.pos, true)
	}
	if len(st.pending) > 0 {
		a.sacrifice(st.pending[0])
		st.pending = st.pending[1:]
	}
	st.progress++
	a.out.BroadcastProgress(a.pos, st.progress)
}

func (a *Altar) complete(st *active) {
	ev := Event{Pos: a.pos, Recipe: st.recipe, Actor: st.actor, RunID: st.runID}
	if !a.inv.HandleRecipe(st.recipe) {
		a.host.Notify(st.actor, ReasonInvalid)
		a.reset(st.actor, true)
		a.hooks.fireCancel(CancelEvent{Event: ev, Reason: ReasonInvalid, Started: true})
		a.logf("invalid recipe=%s run=%s: inputs changed", st.recipe.ID, st.runID)
		return
	}
	// Short rituals can finish before every batch had its tick.
	for _, b := range st.pending {
		a.sacrifice(b)
	}
	st.pending = nil

	a.realize(st.recipe)
	a.hooks.fireComplete(ev)
	a.host.PlaySound(a.pos, SoundComplete)
	a.reset(st.actor, false)
	a.logf("complete recipe=%s run=%s", st.recipe.ID, st.runID)
}

func (a *Altar) sacrifice(b SacrificeBatch) {
	var positions []Vec3i
	for _, c := range b.Creatures {
		if p, ok := a.host.KillCreature(c.ID); ok {
			positions = append(positions, p)
		}
	}
	if len(positions) > 0 {
		a.out.BroadcastSacrifice(a.pos, positions)
	}
}

func (a *Altar) realize(r *Recipe) {
	for _, o := range r.Outputs {
		base := a.pos.Add(o.Offset)
		if o.Kind == OutputItem && o.Spread == (Vec3i{}) {
			a.host.SpawnItem(base, ItemStack{Item: o.ID, Count: o.Count})
			continue
		}
		for k := 0; k < o.Count; k++ {
			p := base.Add(spreadStep(k, o.Spread))
			switch o.Kind {
			case OutputItem:
				a.host.SpawnItem(p, ItemStack{Item: o.ID, Count: 1})
			case OutputMob:
				a.host.SpawnCreature(p, o.ID, o.Tags)
			}
		}
	}
}

// spreadStep walks copy k through the (2s+1)^3 cube around the origin.
func spreadStep(k int, s Vec3i) Vec3i {
	w := Vec3i{X: 2*s.X + 1, Y: 2*s.Y + 1, Z: 2*s.Z + 1}
	x := k % w.X
	z := (k / w.X) % w.Z
	y := (k / (w.X * w.Z)) % w.Y
	return Vec3i{X: x - s.X, Y: y - s.Y, Z: z - s.Z}
}

// Cancel abandons any ritual. With rollback the most recent insertion is
// returned to the invoking actor (or dropped) and also returned here.
func (a *Altar) Cancel(rollback bool) ItemStack {
	var ev CancelEvent
	actor := ""
	if st, ok := a.state.(*active); ok {
		actor = st.actor
		ev = CancelEvent{
			Event:   Event{Pos: a.pos, Recipe: st.recipe, Actor: st.actor, RunID: st.runID},
			Started: true,
		}
	}
	out := a.reset(actor, rollback)
	if ev.Started {
		a.hooks.fireCancel(ev)
	}
	return out
}

func (a *Altar) reset(actor string, rollback bool) ItemStack {
	a.state = idle{}
	a.out.BroadcastProgress(a.pos, 0)
	a.out.BroadcastProcessTime(a.pos, 0)
	a.host.SetAltarActive(a.pos, false)
	if rollback {
		return a.returnLast(actor)
	}
	return ItemStack{}
}

func (a *Altar) returnLast(actor string) ItemStack {
	s, ok := a.inv.PopLastInserted()
	if !ok {
		return ItemStack{}
	}
	a.host.ReturnItem(actor, a.pos, s)
	return s
}

// DropContents empties the altar into the world, for when it is broken.
func (a *Altar) DropContents() {
	for _, s := range a.inv.DropContents() {
		a.host.SpawnItem(a.pos, s)
	}
}

func (a *Altar) logf(format string, args ...any) {
	if a.log == nil {
		return
	}
	a.log.Printf("altar %d,%d,%d: "+format, append([]any{a.pos.X, a.pos.Y, a.pos.Z}, args...)...)
}
