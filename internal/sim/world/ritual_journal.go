package world

import "altarcraft.ai/internal/sim/altar"

const (
	RitualStart    = "START"
	RitualComplete = "COMPLETE"
	RitualCancel   = "CANCEL"
	RitualReject   = "REJECT"
)

// RitualLogEntry is one ritual lifecycle record. A REJECT is a cancel that
// happened before the ritual ran.
type RitualLogEntry struct {
	Tick     uint64 `json:"tick"`
	WorldID  string `json:"world_id"`
	Kind     string `json:"kind"`
	RunID    string `json:"run_id,omitempty"`
	Pos      [3]int `json:"pos"`
	RecipeID string `json:"recipe_id,omitempty"`
	Actor    string `json:"actor,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type RitualLogger interface {
	WriteRitual(entry RitualLogEntry) error
}

func (w *World) registerRitualJournal() {
	w.hooks.OnStarted(func(e altar.Event) {
		w.journalRitual(RitualStart, e, "")
	})
	w.hooks.OnComplete(func(e altar.Event) {
		w.journalRitual(RitualComplete, e, "")
	})
	w.hooks.OnCancel(func(e altar.CancelEvent) {
		kind := RitualCancel
		if !e.Started {
			kind = RitualReject
		}
		w.journalRitual(kind, e.Event, string(e.Reason))
	})
}

func (w *World) journalRitual(kind string, e altar.Event, reason string) {
	entry := RitualLogEntry{
		Tick:    w.tick.Load(),
		WorldID: w.cfg.ID,
		Kind:    kind,
		RunID:   e.RunID,
		Pos:     posArr(e.Pos),
		Actor:   e.Actor,
		Reason:  reason,
	}
	if e.Recipe != nil {
		entry.RecipeID = e.Recipe.ID
	}
	w.logf("ritual %s pos=%v recipe=%s actor=%s reason=%s", kind, entry.Pos, entry.RecipeID, entry.Actor, reason)
	if w.ritualLogger != nil {
		_ = w.ritualLogger.WriteRitual(entry)
	}
}
