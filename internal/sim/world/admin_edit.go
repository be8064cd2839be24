package world

import (
	"fmt"

	"altarcraft.ai/internal/sim/altar"
)

// The helpers below edit world state directly. Call them before Run or
// between StepOnce calls, never concurrently with the loop.

func (w *World) SetBlock(pos Vec3i, id string, props map[string]string) error {
	if _, ok := w.catalogs.Blocks.Defs[id]; !ok {
		return fmt.Errorf("unknown block %q", id)
	}
	if id == BlockAltar {
		if w.altars[pos] == nil {
			w.placeAltar(pos)
		}
		return nil
	}
	if w.altars[pos] != nil {
		w.removeAltar(pos)
	}
	if id == BlockAir {
		delete(w.blocks, pos)
		return nil
	}
	var p map[string]string
	if len(props) > 0 {
		p = make(map[string]string, len(props))
		for k, v := range props {
			p[k] = v
		}
	}
	w.blocks[pos] = altar.BlockState{ID: id, Props: p}
	return nil
}

// PlaceAltar puts an altar at pos and returns it.
func (w *World) PlaceAltar(pos Vec3i) *altar.Altar {
	if a := w.altars[pos]; a != nil {
		return a
	}
	return w.placeAltar(pos)
}

func (w *World) SpawnCreatureAt(pos Vec3i, typ string, tags ...string) (string, error) {
	if _, ok := w.catalogs.Creatures.Defs[typ]; !ok {
		return "", fmt.Errorf("unknown creature %q", typ)
	}
	return w.spawnCreature(pos, typ, tags), nil
}

// SetWeather forces weather for durationTicks; zero keeps it until changed.
func (w *World) SetWeather(weather string, durationTicks int) error {
	switch weather {
	case WeatherClear, WeatherRain, WeatherThunder:
	default:
		return fmt.Errorf("unknown weather %q", weather)
	}
	w.weather = weather
	w.weatherUntilTick = 0
	if durationTicks > 0 && weather != WeatherClear {
		w.weatherUntilTick = w.tick.Load() + uint64(durationTicks)
	}
	return nil
}

func (w *World) Weather() string { return w.weather }

func (w *World) SetTick(tick uint64) { w.tick.Store(tick) }

// CancelRitual abandons the ritual at pos, returning the last insertion when
// rollback is set.
func (w *World) CancelRitual(pos Vec3i, rollback bool) (altar.ItemStack, error) {
	a, err := w.Altar(pos)
	if err != nil {
		return altar.ItemStack{}, err
	}
	return a.Cancel(rollback), nil
}

func (w *World) GiveItem(playerID, item string, count int) error {
	p := w.players[playerID]
	if p == nil {
		return fmt.Errorf("unknown player %q", playerID)
	}
	if _, ok := w.catalogs.Items.Defs[item]; !ok {
		return fmt.Errorf("unknown item %q", item)
	}
	giveItems(p, altar.ItemStack{Item: item, Count: count})
	return nil
}

func (w *World) Creatures() []Creature {
	out := make([]Creature, 0, len(w.creatures))
	for _, id := range sortedStringKeys(w.creatures) {
		out = append(out, *w.creatures[id])
	}
	return out
}

func (w *World) ItemEntities() []ItemEntity {
	out := make([]ItemEntity, 0, len(w.items))
	for _, id := range sortedStringKeys(w.items) {
		out = append(out, *w.items[id])
	}
	return out
}
