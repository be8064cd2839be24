package altar

type Creature struct {
	ID   string
	Type string
	Pos  Vec3i
	Tags []string
}

// World is the read side of the host the precondition checks run against.
type World interface {
	IsDay() bool
	IsRaining() bool
	IsThundering() bool
	BlockAt(pos Vec3i) BlockState
	// CreaturesIn returns live creatures inside box in the host's stable
	// enumeration order. exclude names an entity to skip (the invoking actor).
	CreaturesIn(box Box, exclude string) []Creature
}

type Sound string

const (
	SoundPickup   Sound = "ITEM_PICKUP"
	SoundReject   Sound = "CHAIN_BREAK"
	SoundActivate Sound = "BEACON_ACTIVATE"
	SoundComplete Sound = "EXPERIENCE_ORB_PICKUP"
)

// Host is everything an altar needs from the world it lives in. All calls
// happen on the world loop goroutine.
type Host interface {
	World

	PlaySound(pos Vec3i, s Sound)
	// Notify sends a user-facing message key to actor. actor may be empty.
	Notify(actor string, key Reason)
	// ReturnItem hands a stack back to actor, or drops it at pos when the
	// actor is gone.
	ReturnItem(actor string, pos Vec3i, stack ItemStack)
	SpawnItem(pos Vec3i, stack ItemStack)
	SpawnCreature(pos Vec3i, typ string, tags []string)
	// KillCreature removes a sacrificed creature and reports where it died.
	KillCreature(id string) (Vec3i, bool)
	SetAltarActive(pos Vec3i, active bool)
}

// Broadcaster pushes altar state to clients tracking the altar's chunk.
type Broadcaster interface {
	BroadcastProgress(pos Vec3i, progress int)
	BroadcastProcessTime(pos Vec3i, processTime int)
	BroadcastSacrifice(pos Vec3i, positions []Vec3i)
}
