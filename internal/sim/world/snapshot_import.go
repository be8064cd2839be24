package world

import (
	"fmt"

	"altarcraft.ai/internal/persistence/snapshot"
	"altarcraft.ai/internal/sim/altar"
)

// ImportSnapshot replaces world state with s. Altars come back with their
// save data loaded; in-flight rituals re-match on their next tick.
// Must be called before Run.
func (w *World) ImportSnapshot(s snapshot.SnapshotV1) error {
	if s.Header.Version != snapshot.Version {
		return fmt.Errorf("unsupported snapshot version: %d", s.Header.Version)
	}
	if s.Header.WorldID != "" && w.cfg.ID != "" && s.Header.WorldID != w.cfg.ID {
		return fmt.Errorf("snapshot world %q does not match %q", s.Header.WorldID, w.cfg.ID)
	}
	if s.RecipesDigest != "" && s.RecipesDigest != w.catalogs.Altar.Digest {
		w.logf("snapshot recipes digest %s differs from loaded %s; altars will re-match", s.RecipesDigest, w.catalogs.Altar.Digest)
	}

	// Config captured at export wins, so replays run with the same rules.
	if s.TickRate > 0 {
		w.cfg.TickRateHz = s.TickRate
	}
	if s.DayTicks > 0 {
		w.cfg.DayTicks = s.DayTicks
	}
	if s.ChunkSize > 0 {
		w.cfg.ChunkSize = s.ChunkSize
	}
	w.cfg.TrackingRadius = s.TrackingRadius
	if s.AltarSlots > 0 {
		w.cfg.AltarSlots = s.AltarSlots
	}
	if s.ReachDistance > 0 {
		w.cfg.ReachDistance = s.ReachDistance
	}
	w.cfg.SnapshotEveryTicks = s.SnapshotEveryTicks
	w.cfg.StarterItems = copyIntMap(s.StarterItems)
	w.cfg.Weather = WeatherCycle{
		RainEveryTicks:    s.WeatherCycle.RainEveryTicks,
		RainLengthTicks:   s.WeatherCycle.RainLengthTicks,
		ThunderEveryRains: s.WeatherCycle.ThunderEveryRains,
	}

	w.weather = s.Weather
	if w.weather == "" {
		w.weather = WeatherClear
	}
	w.weatherUntilTick = s.WeatherUntilTick
	w.rains = s.Counters.Rains

	w.blocks = map[Vec3i]altar.BlockState{}
	for _, b := range s.Blocks {
		w.blocks[posFromArr(b.Pos)] = altar.BlockState{ID: b.ID, Props: copyStringMap(b.Props)}
	}
	w.creatures = map[string]*Creature{}
	for _, c := range s.Creatures {
		w.creatures[c.ID] = &Creature{ID: c.ID, Type: c.Type, Pos: posFromArr(c.Pos), Tags: append([]string(nil), c.Tags...)}
	}
	w.items = map[string]*ItemEntity{}
	for _, it := range s.Items {
		w.items[it.ID] = &ItemEntity{ID: it.ID, Pos: posFromArr(it.Pos), Item: it.Item, Count: it.Count}
	}
	w.players = map[string]*Player{}
	w.clients = map[string]*clientState{}
	for _, p := range s.Players {
		inv := copyIntMap(p.Inventory)
		if inv == nil {
			inv = map[string]int{}
		}
		w.players[p.ID] = &Player{ID: p.ID, Name: p.Name, Pos: posFromArr(p.Pos), Inventory: inv}
	}
	w.altars = map[Vec3i]*altar.Altar{}
	for _, av := range s.Altars {
		pos := posFromArr(av.Pos)
		a := w.newAltar(pos)
		a.Load(altarFromV1(av))
		w.altars[pos] = a
		if b := w.blocks[pos]; b.ID != BlockAltar {
			w.blocks[pos] = altar.BlockState{ID: BlockAltar}
		}
	}

	w.nextPlayerNum.Store(s.Counters.NextPlayer)
	w.nextCreatureNum.Store(s.Counters.NextCreature)
	w.nextItemNum.Store(s.Counters.NextItem)
	w.tick.Store(s.Header.Tick + 1)
	return nil
}

func altarFromV1(av snapshot.AltarV1) altar.SaveData {
	sd := altar.SaveData{
		Inventory: altar.InventoryState{
			Catalyst: altar.ItemStack{Item: av.Catalyst.Item, Count: av.Catalyst.Count},
		},
		Progress:    av.Progress,
		ProcessTime: av.ProcessTime,
		RecipeID:    av.RecipeID,
		Actor:       av.Actor,
	}
	for _, ids := range av.Pending {
		sd.Pending = append(sd.Pending, append([]string(nil), ids...))
	}
	for _, st := range av.Slots {
		sd.Inventory.Slots = append(sd.Inventory.Slots, altar.ItemStack{Item: st.Item, Count: st.Count})
	}
	for _, h := range av.History {
		sd.Inventory.History = append(sd.Inventory.History, altar.Insertion{Slot: h.Slot, Item: h.Item, Count: h.Count})
	}
	return sd
}
