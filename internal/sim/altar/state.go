package altar

// phase is the ritual state. Exactly one of idle, *active or restored.
type phase interface{ isPhase() }

type idle struct{}

type active struct {
	recipe   *Recipe
	actor    string
	runID    string
	progress int
	duration int
	pending  []SacrificeBatch
}

// restored carries counters loaded from save data until the next tick
// re-derives the recipe they belong to.
type restored struct {
	recipeID string
	actor    string
	progress int
	duration int
	pending  [][]string
}

func (idle) isPhase()     {}
func (*active) isPhase()  {}
func (restored) isPhase() {}
