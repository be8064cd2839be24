package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeObs     = "OBS"
	TypeAct     = "ACT"

	// Altar broadcasts, sent to every session tracking the altar's chunk.
	TypeAltarProgress      = "ALTAR_PROGRESS"
	TypeAltarProcessTime   = "ALTAR_PROCESS_TIME"
	TypeSacrificeParticles = "SACRIFICE_PARTICLES"
	TypeAltarActive        = "ALTAR_ACTIVE"

	// Observer stream.
	TypeSubscribe       = "SUBSCRIBE"
	TypeObserverWelcome = "OBSERVER_WELCOME"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
