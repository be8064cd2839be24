package altar

const MaxStackSize = 64

// Insertion records one undoable insertion. Slot -1 means the catalyst slot.
type Insertion struct {
	Slot  int    `json:"slot"`
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// Inventory is the altar's input slots, catalyst slot and undo history.
type Inventory struct {
	slots    []ItemStack
	catalyst ItemStack
	history  []Insertion
}

func NewInventory(size int) *Inventory {
	if size <= 0 {
		size = 16
	}
	return &Inventory{slots: make([]ItemStack, size)}
}

func (inv *Inventory) Size() int { return len(inv.slots) }

func (inv *Inventory) Catalyst() ItemStack { return inv.catalyst }

// SetCatalyst replaces the catalyst slot. A non-empty catalyst becomes the
// most recent insertion; clearing it drops its history entry.
func (inv *Inventory) SetCatalyst(s ItemStack) {
	inv.forgetCatalyst()
	if s.IsEmpty() {
		inv.catalyst = ItemStack{}
		return
	}
	inv.catalyst = s
	inv.history = append(inv.history, Insertion{Slot: -1, Item: s.Item, Count: s.Count})
}

func (inv *Inventory) forgetCatalyst() {
	out := inv.history[:0]
	for _, h := range inv.history {
		if h.Slot == -1 {
			continue
		}
		out = append(out, h)
	}
	inv.history = out
}

// Inputs returns a copy of the input slots.
func (inv *Inventory) Inputs() []ItemStack {
	out := make([]ItemStack, len(inv.slots))
	copy(out, inv.slots)
	return out
}

func (inv *Inventory) IsEmpty() bool {
	if !inv.catalyst.IsEmpty() {
		return false
	}
	for _, s := range inv.slots {
		if !s.IsEmpty() {
			return false
		}
	}
	return true
}

// HandleInsertion stores as much of s as fits, merging into a slot that
// already holds the item before taking an empty one. It returns the
// remainder.
func (inv *Inventory) HandleInsertion(s ItemStack) ItemStack {
	if s.IsEmpty() {
		return ItemStack{}
	}
	slot := -1
	for i, st := range inv.slots {
		if st.Item == s.Item && st.Count > 0 && st.Count < MaxStackSize {
			slot = i
			break
		}
	}
	if slot < 0 {
		for i, st := range inv.slots {
			if st.IsEmpty() {
				slot = i
				break
			}
		}
	}
	if slot < 0 {
		return s
	}
	cur := inv.slots[slot]
	n := s.Count
	if room := MaxStackSize - cur.Count; n > room {
		n = room
	}
	inv.slots[slot] = ItemStack{Item: s.Item, Count: cur.Count + n}
	inv.history = append(inv.history, Insertion{Slot: slot, Item: s.Item, Count: n})
	s.Count -= n
	if s.Count <= 0 {
		return ItemStack{}
	}
	return s
}

// PopLastInserted undoes the most recent insertion and returns what it
// removed.
func (inv *Inventory) PopLastInserted() (ItemStack, bool) {
	for len(inv.history) > 0 {
		h := inv.history[len(inv.history)-1]
		inv.history = inv.history[:len(inv.history)-1]
		if h.Slot == -1 {
			if inv.catalyst.IsEmpty() {
				continue
			}
			out := inv.catalyst
			inv.catalyst = ItemStack{}
			return out, true
		}
		if h.Slot < 0 || h.Slot >= len(inv.slots) {
			continue
		}
		st := inv.slots[h.Slot]
		if st.Item != h.Item || st.Count <= 0 {
			continue
		}
		n := h.Count
		if n > st.Count {
			n = st.Count
		}
		st.Count -= n
		if st.Count == 0 {
			st = ItemStack{}
		}
		inv.slots[h.Slot] = st
		return ItemStack{Item: h.Item, Count: n}, true
	}
	return ItemStack{}, false
}

// HandleRecipe consumes the inputs and catalyst r needs. It re-runs the
// same binding the matcher used and consumes nothing when the slots no
// longer satisfy r.
func (inv *Inventory) HandleRecipe(r *Recipe) bool {
	if r == nil || !r.Catalyst.Test(inv.catalyst) {
		return false
	}
	slotFor, bound := BindInputs(r.Inputs, inv.slots)
	if bound != len(r.Inputs) {
		return false
	}
	for i, slot := range slotFor {
		st := inv.slots[slot]
		st.Count -= r.Inputs[i].Count
		if st.Count <= 0 {
			st = ItemStack{}
		}
		inv.slots[slot] = st
	}
	inv.catalyst.Count--
	if inv.catalyst.Count <= 0 {
		inv.catalyst = ItemStack{}
	}
	inv.history = inv.history[:0]
	return true
}

// DropContents empties every slot, catalyst included.
func (inv *Inventory) DropContents() []ItemStack {
	var out []ItemStack
	for i, st := range inv.slots {
		if !st.IsEmpty() {
			out = append(out, st)
		}
		inv.slots[i] = ItemStack{}
	}
	if !inv.catalyst.IsEmpty() {
		out = append(out, inv.catalyst)
	}
	inv.catalyst = ItemStack{}
	inv.history = inv.history[:0]
	return out
}

// InventoryState is the persisted form of an Inventory.
type InventoryState struct {
	Slots    []ItemStack `json:"slots"`
	Catalyst ItemStack   `json:"catalyst"`
	History  []Insertion `json:"history,omitempty"`
}

func (inv *Inventory) State() InventoryState {
	h := make([]Insertion, len(inv.history))
	copy(h, inv.history)
	return InventoryState{Slots: inv.Inputs(), Catalyst: inv.catalyst, History: h}
}

func (inv *Inventory) Load(st InventoryState) {
	for i := range inv.slots {
		inv.slots[i] = ItemStack{}
	}
	for i, s := range st.Slots {
		if i >= len(inv.slots) {
			break
		}
		if !s.IsEmpty() {
			inv.slots[i] = s
		}
	}
	inv.catalyst = ItemStack{}
	if !st.Catalyst.IsEmpty() {
		inv.catalyst = st.Catalyst
	}
	inv.history = append(inv.history[:0], st.History...)
}
