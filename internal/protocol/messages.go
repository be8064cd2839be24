package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerName      string `json:"player_name"`
	// Spawn position; defaults to the world origin.
	Pos *[3]int `json:"pos,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	WorldID         string         `json:"world_id"`
	PlayerID        string         `json:"player_id"`
	WorldParams     WorldParams    `json:"world_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type WorldParams struct {
	TickRateHz     int `json:"tick_rate_hz"`
	DayTicks       int `json:"day_ticks"`
	ChunkSize      int `json:"chunk_size"`
	TrackingRadius int `json:"tracking_radius"`
	AltarSlots     int `json:"altar_slots"`
}

type CatalogDigests struct {
	Blocks       string `json:"blocks"`
	Items        string `json:"items"`
	Creatures    string `json:"creatures"`
	AltarRecipes string `json:"altar_recipes"`
}

type ItemStack struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type Event map[string]interface{}

// OBS (server -> client), once per tick.
type ObsMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Tick            uint64      `json:"tick"`
	PlayerID        string      `json:"player_id"`
	World           WorldObs    `json:"world"`
	Pos             [3]int      `json:"pos"`
	Inventory       []ItemStack `json:"inventory"`
	Events          []Event     `json:"events"`
}

type WorldObs struct {
	TimeOfDay float64 `json:"time_of_day"` // 0..1
	Weather   string  `json:"weather"`
}

// ACT (client -> server)
type ActMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Tick            uint64      `json:"tick"`
	PlayerID        string      `json:"player_id"`
	Actions         []ActionReq `json:"actions"`
}

// Action types.
const (
	ActInteract   = "INTERACT"
	ActPlaceAltar = "PLACE_ALTAR"
	ActBreakAltar = "BREAK_ALTAR"
	ActDeposit    = "DEPOSIT"
	ActMove       = "MOVE"
)

type ActionReq struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Pos   [3]int `json:"pos"`
	Item  string `json:"item,omitempty"`
	Count int    `json:"count,omitempty"`
	Sneak bool   `json:"sneak,omitempty"`
}

type AltarProgressMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Pos             [3]int `json:"pos"`
	Progress        int    `json:"progress"`
}

type AltarProcessTimeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Pos             [3]int `json:"pos"`
	ProcessTime     int    `json:"process_time"`
}

type SacrificeParticlesMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	Tick            uint64   `json:"tick"`
	Pos             [3]int   `json:"pos"`
	Positions       [][3]int `json:"positions"`
}

type AltarActiveMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	Pos             [3]int `json:"pos"`
	Active          bool   `json:"active"`
}

// SUBSCRIBE (observer -> server): track chunks within Radius of Center.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Center          [2]int `json:"center_chunk"`
	Radius          int    `json:"radius"`
}

type ObserverWelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	WorldID         string `json:"world_id"`
	SessionID       string `json:"session_id"`
	Tick            uint64 `json:"tick"`
}
