package world

import (
	"altarcraft.ai/internal/protocol"
	"altarcraft.ai/internal/sim/altar"
)

// World is the altar host: the environment queries, side effects and
// broadcasts below are what every altar.Altar in the world talks to.

func timeOfDay(tick uint64, dayTicks int) float64 {
	if dayTicks <= 0 {
		return 0
	}
	return float64(tick%uint64(dayTicks)) / float64(dayTicks)
}

func (w *World) timeOfDay() float64 { return timeOfDay(w.tick.Load(), w.cfg.DayTicks) }

func (w *World) IsDay() bool {
	t := w.timeOfDay()
	return t >= 0.25 && t <= 0.75
}

func (w *World) IsRaining() bool {
	return w.weather == WeatherRain || w.weather == WeatherThunder
}

func (w *World) IsThundering() bool { return w.weather == WeatherThunder }

func (w *World) BlockAt(pos Vec3i) altar.BlockState {
	if b, ok := w.blocks[pos]; ok {
		return b
	}
	return altar.BlockState{ID: BlockAir}
}

// CreaturesIn enumerates creatures inside box in id order.
func (w *World) CreaturesIn(box altar.Box, exclude string) []altar.Creature {
	var out []altar.Creature
	for _, id := range sortedStringKeys(w.creatures) {
		c := w.creatures[id]
		if c.ID == exclude || !box.Contains(c.Pos) {
			continue
		}
		out = append(out, altar.Creature{ID: c.ID, Type: c.Type, Pos: c.Pos, Tags: c.Tags})
	}
	return out
}

func (w *World) PlaySound(pos Vec3i, s altar.Sound) {
	e := protocol.Event{"t": w.tick.Load(), "type": "SOUND", "sound": string(s), "pos": posArr(pos)}
	for _, p := range w.trackingPlayers(pos) {
		p.AddEvent(e)
	}
}

func (w *World) Notify(actor string, key altar.Reason) {
	p := w.players[actor]
	if p == nil {
		return
	}
	p.AddEvent(protocol.Event{"t": w.tick.Load(), "type": "MESSAGE", "key": string(key)})
}

// ReturnItem gives stack back to actor; with no such player it drops at pos.
func (w *World) ReturnItem(actor string, pos Vec3i, stack altar.ItemStack) {
	if stack.IsEmpty() {
		return
	}
	if p := w.players[actor]; p != nil {
		p.Inventory[stack.Item] += stack.Count
		return
	}
	w.SpawnItem(pos.Add(Vec3i{Y: 1}), stack)
}

func (w *World) SpawnItem(pos Vec3i, stack altar.ItemStack) {
	if stack.IsEmpty() {
		return
	}
	id := w.newItemID()
	w.items[id] = &ItemEntity{ID: id, Pos: pos, Item: stack.Item, Count: stack.Count}
}

func (w *World) SpawnCreature(pos Vec3i, typ string, tags []string) {
	w.spawnCreature(pos, typ, tags)
}

func (w *World) spawnCreature(pos Vec3i, typ string, tags []string) string {
	id := w.newCreatureID()
	var t []string
	if len(tags) > 0 {
		t = append([]string(nil), tags...)
	}
	w.creatures[id] = &Creature{ID: id, Type: typ, Pos: pos, Tags: t}
	return id
}

func (w *World) KillCreature(id string) (Vec3i, bool) {
	c := w.creatures[id]
	if c == nil {
		return Vec3i{}, false
	}
	delete(w.creatures, id)
	return c.Pos, true
}

func (w *World) SetAltarActive(pos Vec3i, active bool) {
	b, ok := w.blocks[pos]
	if !ok || b.ID != BlockAltar {
		return
	}
	props := map[string]string{}
	for k, v := range b.Props {
		props[k] = v
	}
	if active {
		props["active"] = "true"
	} else {
		delete(props, "active")
	}
	if len(props) == 0 {
		props = nil
	}
	w.blocks[pos] = altar.BlockState{ID: b.ID, Props: props}
	w.broadcast(pos, protocol.AltarActiveMsg{
		Type: protocol.TypeAltarActive, ProtocolVersion: protocol.Version,
		Tick: w.tick.Load(), Pos: posArr(pos), Active: active,
	})
}

func (w *World) BroadcastProgress(pos Vec3i, progress int) {
	w.broadcast(pos, protocol.AltarProgressMsg{
		Type: protocol.TypeAltarProgress, ProtocolVersion: protocol.Version,
		Tick: w.tick.Load(), Pos: posArr(pos), Progress: progress,
	})
}

func (w *World) BroadcastProcessTime(pos Vec3i, processTime int) {
	w.broadcast(pos, protocol.AltarProcessTimeMsg{
		Type: protocol.TypeAltarProcessTime, ProtocolVersion: protocol.Version,
		Tick: w.tick.Load(), Pos: posArr(pos), ProcessTime: processTime,
	})
}

func (w *World) BroadcastSacrifice(pos Vec3i, positions []Vec3i) {
	ps := make([][3]int, 0, len(positions))
	for _, p := range positions {
		ps = append(ps, posArr(p))
	}
	w.broadcast(pos, protocol.SacrificeParticlesMsg{
		Type: protocol.TypeSacrificeParticles, ProtocolVersion: protocol.Version,
		Tick: w.tick.Load(), Pos: posArr(pos), Positions: ps,
	})
}
