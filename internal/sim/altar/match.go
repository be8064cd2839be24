package altar

// Matcher finds the first registered recipe satisfied by an altar's slots.
type Matcher struct {
	reg *Registry
}

func NewMatcher(reg *Registry) *Matcher { return &Matcher{reg: reg} }

func (m *Matcher) Registry() *Registry { return m.reg }

func (m *Matcher) IsCatalyst(item string) bool {
	if m == nil {
		return false
	}
	return m.reg.Catalysts().IsCatalyst(item)
}

func (m *Matcher) Match(inputs []ItemStack, catalyst ItemStack) *Recipe {
	if m == nil || catalyst.IsEmpty() {
		return nil
	}
	for _, r := range m.reg.Recipes() {
		if Matches(r, inputs, catalyst) {
			return r
		}
	}
	return nil
}

func Matches(r *Recipe, inputs []ItemStack, catalyst ItemStack) bool {
	if r == nil || !r.Catalyst.Test(catalyst) {
		return false
	}
	_, bound := BindInputs(r.Inputs, inputs)
	return bound == len(r.Inputs)
}

// BindInputs assigns slots to requirements greedily: each occupied slot, in
// slot order, takes the first unbound requirement (declaration order) it
// satisfies. It is not a maximum matching; a slot that could serve two
// requirements may take the earlier one and starve the later. slotFor[i] is
// the slot bound to requirement i, or -1.
func BindInputs(reqs []IngredientStack, inputs []ItemStack) (slotFor []int, bound int) {
	slotFor = make([]int, len(reqs))
	for i := range slotFor {
		slotFor[i] = -1
	}
	for slot, st := range inputs {
		if st.IsEmpty() {
			continue
		}
		for i, req := range reqs {
			if slotFor[i] >= 0 {
				continue
			}
			if req.Ingredient.Test(st) && st.Count >= req.Count {
				slotFor[i] = slot
				bound++
				break
			}
		}
	}
	return slotFor, bound
}
