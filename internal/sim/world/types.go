package world

import (
	"sort"

	"altarcraft.ai/internal/protocol"
	"altarcraft.ai/internal/sim/altar"
)

type Vec3i = altar.Vec3i

func posArr(p Vec3i) [3]int { return [3]int{p.X, p.Y, p.Z} }

func posFromArr(a [3]int) Vec3i { return Vec3i{X: a[0], Y: a[1], Z: a[2]} }

// ChunkKey addresses a chunk column.
type ChunkKey struct {
	CX int
	CZ int
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func chebyshev(a, b ChunkKey) int {
	dx := abs(a.CX - b.CX)
	dz := abs(a.CZ - b.CZ)
	if dx > dz {
		return dx
	}
	return dz
}

func reach(a, b Vec3i) int {
	d := abs(a.X - b.X)
	if dy := abs(a.Y - b.Y); dy > d {
		d = dy
	}
	if dz := abs(a.Z - b.Z); dz > d {
		d = dz
	}
	return d
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

type Creature struct {
	ID   string
	Type string
	Pos  Vec3i
	Tags []string
}

type ItemEntity struct {
	ID    string
	Pos   Vec3i
	Item  string
	Count int
}

type Player struct {
	ID        string
	Name      string
	Pos       Vec3i
	Inventory map[string]int

	// Events queued for the next OBS.
	Events []protocol.Event
}

func (p *Player) AddEvent(e protocol.Event) { p.Events = append(p.Events, e) }

func (p *Player) inventoryList() []protocol.ItemStack {
	out := make([]protocol.ItemStack, 0, len(p.Inventory))
	for item, n := range p.Inventory {
		if n > 0 {
			out = append(out, protocol.ItemStack{Item: item, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out
}

func sortedVec3Keys[V any](m map[Vec3i]V) []Vec3i {
	keys := make([]Vec3i, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return keys
}

func sortedStringKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
