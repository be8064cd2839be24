package world

import (
	"errors"

	"altarcraft.ai/internal/protocol"
	"altarcraft.ai/internal/sim/altar"
)

// Acts older than this many ticks are rejected as stale.
const actStaleTicks = 20

type actionHandler func(w *World, p *Player, req protocol.ActionReq, nowTick uint64)

var actionDispatch = map[string]actionHandler{
	protocol.ActInteract:   handleInteract,
	protocol.ActPlaceAltar: handlePlaceAltar,
	protocol.ActBreakAltar: handleBreakAltar,
	protocol.ActDeposit:    handleDeposit,
	protocol.ActMove:       handleMove,
}

func (w *World) applyAct(p *Player, act protocol.ActMsg, nowTick uint64) {
	if act.Tick+actStaleTicks < nowTick || act.Tick > nowTick {
		p.AddEvent(actionResult(nowTick, "ACT", false, protocol.ErrBadRequest, "act tick out of range"))
		return
	}
	for _, req := range act.Actions {
		if h := actionDispatch[req.Type]; h != nil {
			h(w, p, req, nowTick)
			continue
		}
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrBadRequest, "unknown action type"))
	}
}

func actionResult(tick uint64, ref string, ok bool, code string, message string) protocol.Event {
	if !protocol.IsKnownCode(code) {
		code = protocol.ErrInternal
		if message == "" {
			message = "unknown error code"
		}
	}
	e := protocol.Event{
		"t":    tick,
		"type": "ACTION_RESULT",
		"ref":  ref,
		"ok":   ok,
	}
	if code != "" {
		e["code"] = code
	}
	if message != "" {
		e["message"] = message
	}
	return e
}

func (w *World) inReach(p *Player, pos Vec3i) bool {
	return reach(p.Pos, pos) <= w.cfg.ReachDistance
}

// takeItems removes count of item from the player's inventory.
func takeItems(p *Player, item string, count int) bool {
	if item == "" || count <= 0 || p.Inventory[item] < count {
		return false
	}
	p.Inventory[item] -= count
	if p.Inventory[item] == 0 {
		delete(p.Inventory, item)
	}
	return true
}

func giveItems(p *Player, s altar.ItemStack) {
	if s.IsEmpty() {
		return
	}
	p.Inventory[s.Item] += s.Count
}

// handleInteract is a right-click on an altar: the held stack (possibly
// empty) goes to the altar and whatever it hands back returns to the player.
func handleInteract(w *World, p *Player, req protocol.ActionReq, nowTick uint64) {
	pos := posFromArr(req.Pos)
	a, err := w.Altar(pos)
	if err != nil {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrInvalidTarget, err.Error()))
		return
	}
	if !w.inReach(p, pos) {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrInvalidTarget, "out of reach"))
		return
	}
	var held altar.ItemStack
	if req.Item != "" {
		n := req.Count
		if n <= 0 {
			n = 1
		}
		if !takeItems(p, req.Item, n) {
			p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrNoResource, "missing items"))
			return
		}
		held = altar.ItemStack{Item: req.Item, Count: n}
	}
	rem := a.HandleInteraction(p.ID, held, req.Sneak)
	giveItems(p, rem)
	p.AddEvent(actionResult(nowTick, req.ID, true, "", ""))
}

func handlePlaceAltar(w *World, p *Player, req protocol.ActionReq, nowTick uint64) {
	pos := posFromArr(req.Pos)
	if !w.inReach(p, pos) {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrInvalidTarget, "out of reach"))
		return
	}
	if w.BlockAt(pos).ID != BlockAir {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrConflict, "position occupied"))
		return
	}
	if !takeItems(p, ItemAltar, 1) {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrNoResource, "no altar item"))
		return
	}
	w.placeAltar(pos)
	p.AddEvent(actionResult(nowTick, req.ID, true, "", ""))
}

func handleBreakAltar(w *World, p *Player, req protocol.ActionReq, nowTick uint64) {
	pos := posFromArr(req.Pos)
	a, err := w.Altar(pos)
	if err != nil {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrInvalidTarget, err.Error()))
		return
	}
	if !w.inReach(p, pos) {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrInvalidTarget, "out of reach"))
		return
	}
	if !a.Idle() {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrBusy, "ritual in progress"))
		return
	}
	w.removeAltar(pos)
	p.Inventory[ItemAltar]++
	p.AddEvent(actionResult(nowTick, req.ID, true, "", ""))
}

// handleDeposit is the automation path: items go straight into the input
// slots without catalyst handling.
func handleDeposit(w *World, p *Player, req protocol.ActionReq, nowTick uint64) {
	pos := posFromArr(req.Pos)
	a, err := w.Altar(pos)
	if err != nil {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrInvalidTarget, err.Error()))
		return
	}
	if !w.inReach(p, pos) {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrInvalidTarget, "out of reach"))
		return
	}
	inv, err := a.ExternalInventory()
	if errors.Is(err, altar.ErrAltarBusy) {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrBusy, err.Error()))
		return
	}
	n := req.Count
	if n <= 0 {
		n = 1
	}
	if !takeItems(p, req.Item, n) {
		p.AddEvent(actionResult(nowTick, req.ID, false, protocol.ErrNoResource, "missing items"))
		return
	}
	rem := inv.HandleInsertion(altar.ItemStack{Item: req.Item, Count: n})
	giveItems(p, rem)
	p.AddEvent(actionResult(nowTick, req.ID, true, "", ""))
}

func handleMove(w *World, p *Player, req protocol.ActionReq, nowTick uint64) {
	p.Pos = posFromArr(req.Pos)
	p.AddEvent(actionResult(nowTick, req.ID, true, "", ""))
}

func (w *World) placeAltar(pos Vec3i) *altar.Altar {
	w.blocks[pos] = altar.BlockState{ID: BlockAltar}
	a := w.newAltar(pos)
	w.altars[pos] = a
	return a
}

// removeAltar drops the altar's contents and clears the block.
func (w *World) removeAltar(pos Vec3i) {
	a := w.altars[pos]
	if a == nil {
		return
	}
	a.DropContents()
	delete(w.altars, pos)
	delete(w.blocks, pos)
}
