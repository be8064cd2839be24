package altar

type Event struct {
	Pos    Vec3i
	Recipe *Recipe
	Actor  string
	RunID  string
}

type CancelEvent struct {
	Event
	Reason Reason
	// Started is false when the ritual was rejected before it ran.
	Started bool
}

// Hooks holds observation listeners shared by every altar in a world.
// Listeners run synchronously on the world loop, in registration order.
type Hooks struct {
	start    []func(Event) bool
	started  []func(Event)
	complete []func(Event)
	cancel   []func(CancelEvent)
}

func NewHooks() *Hooks { return &Hooks{} }

// OnStart registers a listener that may veto a ritual by returning false.
// Every listener sees the event even after an earlier veto.
func (h *Hooks) OnStart(fn func(Event) bool) { h.start = append(h.start, fn) }

// OnStarted registers a listener told once a ritual has passed every veto
// and is running.
func (h *Hooks) OnStarted(fn func(Event)) { h.started = append(h.started, fn) }

func (h *Hooks) OnComplete(fn func(Event)) { h.complete = append(h.complete, fn) }

func (h *Hooks) OnCancel(fn func(CancelEvent)) { h.cancel = append(h.cancel, fn) }

func (h *Hooks) fireStart(e Event) bool {
	if h == nil {
		return true
	}
	ok := true
	for _, fn := range h.start {
		if !fn(e) {
			ok = false
		}
	}
	return ok
}

func (h *Hooks) fireStarted(e Event) {
	if h == nil {
		return
	}
	for _, fn := range h.started {
		fn(e)
	}
}

func (h *Hooks) fireComplete(e Event) {
	if h == nil {
		return
	}
	for _, fn := range h.complete {
		fn(e)
	}
}

func (h *Hooks) fireCancel(e CancelEvent) {
	if h == nil {
		return
	}
	for _, fn := range h.cancel {
		fn(e)
	}
}
