package altar

import "sort"

type fakeHost struct {
	day, rain, thunder bool
	blocks             map[Vec3i]BlockState
	creatures          []Creature

	sounds    []Sound
	notes     map[string][]Reason
	returned  []ItemStack
	spawned   []ItemStack
	mobs      []string
	killed    []string
	active    bool
	toggles   int
	progress  []int
	process   []int
	particles [][]Vec3i
	scans     int
}

func newFakeHost() *fakeHost {
	return &fakeHost{day: true, blocks: map[Vec3i]BlockState{}, notes: map[string][]Reason{}}
}

func (h *fakeHost) IsDay() bool        { return h.day }
func (h *fakeHost) IsRaining() bool    { return h.rain || h.thunder }
func (h *fakeHost) IsThundering() bool { return h.thunder }

func (h *fakeHost) BlockAt(p Vec3i) BlockState {
	if b, ok := h.blocks[p]; ok {
		return b
	}
	return BlockState{ID: "AIR"}
}

func (h *fakeHost) CreaturesIn(box Box, exclude string) []Creature {
	h.scans++
	var out []Creature
	for _, c := range h.creatures {
		if c.ID == exclude || !box.Contains(c.Pos) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (h *fakeHost) PlaySound(_ Vec3i, s Sound)     { h.sounds = append(h.sounds, s) }
func (h *fakeHost) Notify(actor string, r Reason) { h.notes[actor] = append(h.notes[actor], r) }
func (h *fakeHost) ReturnItem(_ string, _ Vec3i, s ItemStack) {
	h.returned = append(h.returned, s)
}
func (h *fakeHost) SpawnItem(_ Vec3i, s ItemStack) { h.spawned = append(h.spawned, s) }
func (h *fakeHost) SpawnCreature(_ Vec3i, typ string, _ []string) {
	h.mobs = append(h.mobs, typ)
}

func (h *fakeHost) KillCreature(id string) (Vec3i, bool) {
	for i, c := range h.creatures {
		if c.ID == id {
			h.creatures = append(h.creatures[:i], h.creatures[i+1:]...)
			h.killed = append(h.killed, id)
			return c.Pos, true
		}
	}
	return Vec3i{}, false
}

func (h *fakeHost) SetAltarActive(_ Vec3i, on bool) {
	if h.active != on {
		h.toggles++
	}
	h.active = on
}

func (h *fakeHost) BroadcastProgress(_ Vec3i, n int)    { h.progress = append(h.progress, n) }
func (h *fakeHost) BroadcastProcessTime(_ Vec3i, n int) { h.process = append(h.process, n) }
func (h *fakeHost) BroadcastSacrifice(_ Vec3i, ps []Vec3i) {
	h.particles = append(h.particles, ps)
}

func (h *fakeHost) broadcasts() int { return len(h.progress) + len(h.process) + len(h.particles) }

func newTestAltar(h *fakeHost, hooks *Hooks, recipes ...*Recipe) *Altar {
	reg, err := NewRegistry(recipes)
	if err != nil {
		panic(err)
	}
	n := 0
	return New(Config{
		Slots:   8,
		Matcher: NewMatcher(reg),
		Hooks:   hooks,
		Host:    h,
		Out:     h,
		NewRunID: func() string {
			n++
			return "run" + string(rune('0'+n))
		},
	})
}

func itemReq(item string, n int) IngredientStack {
	return IngredientStack{Ingredient: NewIngredient(item, item), Count: n}
}

func dayRecipe() *Recipe {
	return &Recipe{
		ID:       "summon_gold",
		Inputs:   []IngredientStack{itemReq("A", 2)},
		Catalyst: NewIngredient("C", "C"),
		DayTime:  DayTimeDay,
		Duration: 5,
		Outputs:  []Output{{Kind: OutputItem, ID: "GOLD", Count: 1}},
	}
}
