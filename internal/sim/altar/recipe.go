package altar

import (
	"fmt"
	"strings"
)

type Vec3i struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (v Vec3i) Add(o Vec3i) Vec3i { return Vec3i{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

func (v Vec3i) Below() Vec3i { return Vec3i{X: v.X, Y: v.Y - 1, Z: v.Z} }

// Box is an inclusive axis-aligned region.
type Box struct {
	Min Vec3i
	Max Vec3i
}

func (b Box) Contains(p Vec3i) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

type ItemStack struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

func (s ItemStack) IsEmpty() bool { return s.Item == "" || s.Count <= 0 }

// Ingredient accepts any item in its resolved item set. Key is the
// catalog spelling ("IRON_INGOT" or "#gems") used for equality.
type Ingredient struct {
	Key   string
	items map[string]struct{}
}

func NewIngredient(key string, items ...string) Ingredient {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return Ingredient{Key: key, items: set}
}

func (i Ingredient) Test(s ItemStack) bool {
	if s.IsEmpty() {
		return false
	}
	_, ok := i.items[s.Item]
	return ok
}

func (i Ingredient) Items() []string {
	out := make([]string, 0, len(i.items))
	for it := range i.items {
		out = append(out, it)
	}
	return out
}

type IngredientStack struct {
	Ingredient Ingredient
	Count      int
}

type CreaturePredicate struct {
	Type string
	Tags []string
}

func (p CreaturePredicate) Test(c Creature) bool {
	if c.Type != p.Type {
		return false
	}
	for _, want := range p.Tags {
		found := false
		for _, have := range c.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type Sacrifice struct {
	Creature CreaturePredicate
	Count    int
}

type Sacrifices struct {
	Entries []Sacrifice
	// Zone is the half-extent of the scan box around the altar.
	Zone Vec3i
}

func (s Sacrifices) Empty() bool { return len(s.Entries) == 0 }

func (s Sacrifices) Region(pos Vec3i) Box {
	return Box{
		Min: Vec3i{X: pos.X - s.Zone.X, Y: pos.Y - s.Zone.Y, Z: pos.Z - s.Zone.Z},
		Max: Vec3i{X: pos.X + s.Zone.X, Y: pos.Y + s.Zone.Y, Z: pos.Z + s.Zone.Z},
	}
}

type BlockState struct {
	ID    string            `json:"id"`
	Props map[string]string `json:"props,omitempty"`
}

type BlockReference struct {
	Block string
	Props map[string]string
}

func (r BlockReference) Test(b BlockState) bool {
	if b.ID != r.Block {
		return false
	}
	for k, v := range r.Props {
		if b.Props[k] != v {
			return false
		}
	}
	return true
}

type DayTime int

const (
	DayTimeAny DayTime = iota
	DayTimeDay
	DayTimeNight
)

func (d DayTime) String() string {
	switch d {
	case DayTimeDay:
		return "DAY"
	case DayTimeNight:
		return "NIGHT"
	default:
		return "ANY"
	}
}

func ParseDayTime(s string) (DayTime, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ANY":
		return DayTimeAny, nil
	case "DAY":
		return DayTimeDay, nil
	case "NIGHT":
		return DayTimeNight, nil
	}
	return DayTimeAny, fmt.Errorf("unknown day_time %q", s)
}

type Weather int

const (
	WeatherAny Weather = iota
	WeatherSun
	WeatherRain
	WeatherThunder
)

func (w Weather) String() string {
	switch w {
	case WeatherSun:
		return "SUN"
	case WeatherRain:
		return "RAIN"
	case WeatherThunder:
		return "THUNDER"
	default:
		return "ANY"
	}
}

func ParseWeather(s string) (Weather, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ANY":
		return WeatherAny, nil
	case "SUN":
		return WeatherSun, nil
	case "RAIN":
		return WeatherRain, nil
	case "THUNDER":
		return WeatherThunder, nil
	}
	return WeatherAny, fmt.Errorf("unknown weather %q", s)
}

type OutputKind string

const (
	OutputItem OutputKind = "ITEM"
	OutputMob  OutputKind = "MOB"
)

type Output struct {
	Kind   OutputKind
	ID     string
	Count  int
	Offset Vec3i
	// Spread scatters copies around Offset, one step per copy, within ±Spread.
	Spread Vec3i
	Tags   []string
}

// Recipe is an immutable ritual definition.
type Recipe struct {
	ID         string
	Inputs     []IngredientStack
	Catalyst   Ingredient
	Sacrifices Sacrifices
	BlockBelow *BlockReference
	DayTime    DayTime
	Weather    Weather
	Duration   int
	Outputs    []Output
}
