package altar

// Progress is the number of ticks the current ritual has run.
func (a *Altar) Progress() int {
	switch st := a.state.(type) {
	case *active:
		return st.progress
	case restored:
		return st.progress
	}
	return 0
}

// ProcessTime is the current ritual's total duration.
func (a *Altar) ProcessTime() int {
	switch st := a.state.(type) {
	case *active:
		return st.duration
	case restored:
		return st.duration
	}
	return 0
}

func (a *Altar) SetProgress(n int) {
	if n < 0 {
		n = 0
	}
	switch st := a.state.(type) {
	case *active:
		if n > st.duration {
			n = st.duration
		}
		st.progress = n
	case restored:
		st.progress = n
		a.state = st
	case idle:
		if n > 0 {
			a.state = restored{progress: n}
		}
	}
}

func (a *Altar) SetProcessTime(n int) {
	if n < 0 {
		n = 0
	}
	switch st := a.state.(type) {
	case *active:
		st.duration = n
	case restored:
		st.duration = n
		a.state = st
	case idle:
		if n > 0 {
			a.state = restored{duration: n}
		}
	}
}

// SaveData is what an altar persists. RecipeID names the in-flight ritual
// only so a reload can check that re-matching finds the same one. Pending
// holds the creature ids of sacrifice batches not yet taken, in kill order.
type SaveData struct {
	Inventory   InventoryState `json:"inventory"`
	Progress    int            `json:"progress"`
	ProcessTime int            `json:"process_time"`
	RecipeID    string         `json:"recipe_id,omitempty"`
	Actor       string         `json:"actor,omitempty"`
	Pending     [][]string     `json:"pending,omitempty"`
}

func (a *Altar) Save() SaveData {
	sd := SaveData{
		Inventory:   a.inv.State(),
		Progress:    a.Progress(),
		ProcessTime: a.ProcessTime(),
	}
	switch st := a.state.(type) {
	case *active:
		sd.RecipeID = st.recipe.ID
		sd.Actor = st.actor
		sd.Pending = batchIDs(st.pending)
	case restored:
		sd.RecipeID = st.recipeID
		sd.Actor = st.actor
		sd.Pending = copyPending(st.pending)
	}
	return sd
}

func batchIDs(batches []SacrificeBatch) [][]string {
	if len(batches) == 0 {
		return nil
	}
	out := make([][]string, 0, len(batches))
	for _, b := range batches {
		ids := make([]string, 0, len(b.Creatures))
		for _, c := range b.Creatures {
			ids = append(ids, c.ID)
		}
		out = append(out, ids)
	}
	return out
}

// batchesFromIDs rebuilds kill targets by id only. Creatures that are gone
// by the time their batch runs are skipped by sacrifice.
func batchesFromIDs(pending [][]string) []SacrificeBatch {
	out := make([]SacrificeBatch, 0, len(pending))
	for _, ids := range pending {
		b := SacrificeBatch{Creatures: make([]Creature, 0, len(ids))}
		for _, id := range ids {
			b.Creatures = append(b.Creatures, Creature{ID: id})
		}
		out = append(out, b)
	}
	return out
}

func copyPending(pending [][]string) [][]string {
	if len(pending) == 0 {
		return nil
	}
	out := make([][]string, len(pending))
	for i, ids := range pending {
		out[i] = append([]string(nil), ids...)
	}
	return out
}

// Load replaces the altar's state with sd. An in-flight ritual comes back
// as pending resume; the next Tick re-matches it or fails closed.
func (a *Altar) Load(sd SaveData) {
	a.inv.Load(sd.Inventory)
	a.state = idle{}
	if sd.Progress > 0 || sd.ProcessTime > 0 || sd.RecipeID != "" {
		a.state = restored{
			recipeID: sd.RecipeID,
			actor:    sd.Actor,
			progress: max(sd.Progress, 0),
			duration: max(sd.ProcessTime, 0),
			pending:  copyPending(sd.Pending),
		}
	}
}

func (a *Altar) resume(st restored) bool {
	cat := a.inv.Catalyst()
	if cat.IsEmpty() {
		a.reset(st.actor, false)
		return false
	}
	recipe := a.matcher.Match(a.inv.Inputs(), cat)
	if recipe == nil || (st.recipeID != "" && recipe.ID != st.recipeID) {
		a.failResume(recipe, st.actor)
		return false
	}

	// Once running, the captured targets stand; only the environment is
	// checked again.
	var batches []SacrificeBatch
	if st.progress > 0 {
		if err := checkEnvironment(recipe, a.host, a.pos); err != nil {
			a.failResume(recipe, st.actor)
			return false
		}
		batches = batchesFromIDs(st.pending)
	} else {
		b, err := CheckPreconditions(recipe, a.host, a.pos, st.actor)
		if err != nil {
			a.failResume(recipe, st.actor)
			return false
		}
		batches = b
	}

	progress := st.progress
	if progress > recipe.Duration {
		progress = max(recipe.Duration, 0)
	}
	a.state = &active{
		recipe:   recipe,
		actor:    st.actor,
		runID:    a.newRunID(),
		progress: progress,
		duration: recipe.Duration,
		pending:  batches,
	}
	a.out.BroadcastProcessTime(a.pos, recipe.Duration)
	if progress > 0 {
		a.host.SetAltarActive(a.pos, true)
	}
	a.logf("resumed recipe=%s progress=%d/%d", recipe.ID, progress, recipe.Duration)
	return true
}

func (a *Altar) failResume(recipe *Recipe, actor string) {
	a.reset(actor, true)
	a.hooks.fireCancel(CancelEvent{Event: Event{Pos: a.pos, Recipe: recipe, Actor: actor}, Reason: ReasonResumeFailed, Started: true})
	a.logf("resume failed; ritual forfeited")
}
