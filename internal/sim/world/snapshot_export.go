package world

import (
	"altarcraft.ai/internal/persistence/snapshot"
	"altarcraft.ai/internal/sim/altar"
)

// ExportSnapshot captures the world after nowTick has been applied.
// Snapshot must be called from the world loop goroutine.
func (w *World) ExportSnapshot(nowTick uint64) snapshot.SnapshotV1 {
	s := snapshot.SnapshotV1{
		Header: snapshot.Header{Version: snapshot.Version, WorldID: w.cfg.ID, Tick: nowTick},

		TickRate:           w.cfg.TickRateHz,
		DayTicks:           w.cfg.DayTicks,
		ChunkSize:          w.cfg.ChunkSize,
		TrackingRadius:     w.cfg.TrackingRadius,
		AltarSlots:         w.cfg.AltarSlots,
		SnapshotEveryTicks: w.cfg.SnapshotEveryTicks,
		ReachDistance:      w.cfg.ReachDistance,
		StarterItems:       copyIntMap(w.cfg.StarterItems),
		WeatherCycle: snapshot.WeatherV1{
			RainEveryTicks:    w.cfg.Weather.RainEveryTicks,
			RainLengthTicks:   w.cfg.Weather.RainLengthTicks,
			ThunderEveryRains: w.cfg.Weather.ThunderEveryRains,
		},

		Weather:          w.weather,
		WeatherUntilTick: w.weatherUntilTick,
		RecipesDigest:    w.catalogs.Altar.Digest,

		Counters: snapshot.CountersV1{
			NextPlayer:   w.nextPlayerNum.Load(),
			NextCreature: w.nextCreatureNum.Load(),
			NextItem:     w.nextItemNum.Load(),
			Rains:        w.rains,
		},
	}

	for _, pos := range sortedVec3Keys(w.blocks) {
		b := w.blocks[pos]
		s.Blocks = append(s.Blocks, snapshot.BlockV1{Pos: posArr(pos), ID: b.ID, Props: copyStringMap(b.Props)})
	}
	for _, id := range sortedStringKeys(w.creatures) {
		c := w.creatures[id]
		s.Creatures = append(s.Creatures, snapshot.CreatureV1{
			ID: c.ID, Type: c.Type, Pos: posArr(c.Pos), Tags: append([]string(nil), c.Tags...),
		})
	}
	for _, id := range sortedStringKeys(w.items) {
		it := w.items[id]
		s.Items = append(s.Items, snapshot.ItemEntityV1{ID: it.ID, Pos: posArr(it.Pos), Item: it.Item, Count: it.Count})
	}
	for _, id := range sortedStringKeys(w.players) {
		p := w.players[id]
		s.Players = append(s.Players, snapshot.PlayerV1{ID: p.ID, Name: p.Name, Pos: posArr(p.Pos), Inventory: copyIntMap(p.Inventory)})
	}
	for _, pos := range sortedVec3Keys(w.altars) {
		s.Altars = append(s.Altars, altarToV1(pos, w.altars[pos].Save()))
	}
	return s
}

func altarToV1(pos Vec3i, sd altar.SaveData) snapshot.AltarV1 {
	out := snapshot.AltarV1{
		Pos:         posArr(pos),
		Catalyst:    snapshot.ItemStackV1{Item: sd.Inventory.Catalyst.Item, Count: sd.Inventory.Catalyst.Count},
		Progress:    sd.Progress,
		ProcessTime: sd.ProcessTime,
		RecipeID:    sd.RecipeID,
		Actor:       sd.Actor,
	}
	for _, ids := range sd.Pending {
		out.Pending = append(out.Pending, append([]string(nil), ids...))
	}
	for _, st := range sd.Inventory.Slots {
		out.Slots = append(out.Slots, snapshot.ItemStackV1{Item: st.Item, Count: st.Count})
	}
	for _, h := range sd.Inventory.History {
		out.History = append(out.History, snapshot.InsertionV1{Slot: h.Slot, Item: h.Item, Count: h.Count})
	}
	return out
}

func copyIntMap(m map[string]int) map[string]int {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
