package world

import (
	"encoding/json"

	"altarcraft.ai/internal/protocol"
)

// ObserverJoinRequest registers a read-only session that receives altar
// broadcasts for chunks within Radius of Center.
type ObserverJoinRequest struct {
	SessionID string
	Out       chan []byte
	Center    ChunkKey
	Radius    int
}

// ObserverSubscribeRequest moves an existing observer's tracking window.
type ObserverSubscribeRequest struct {
	SessionID string
	Center    ChunkKey
	Radius    int
}

type observerClient struct {
	id     string
	out    chan []byte
	center ChunkKey
	radius int
}

const maxObserverRadius = 32

func clampObserverRadius(r int) int {
	if r < 0 {
		return 0
	}
	if r > maxObserverRadius {
		return maxObserverRadius
	}
	return r
}

func (w *World) ObserverJoin() chan<- ObserverJoinRequest          { return w.observerJoin }
func (w *World) ObserverSubscribe() chan<- ObserverSubscribeRequest { return w.observerSub }
func (w *World) ObserverLeave() chan<- string                       { return w.observerLeave }

func (w *World) handleObserverJoin(req ObserverJoinRequest) {
	if req.SessionID == "" || req.Out == nil {
		return
	}
	w.observers[req.SessionID] = &observerClient{
		id:     req.SessionID,
		out:    req.Out,
		center: req.Center,
		radius: clampObserverRadius(req.Radius),
	}
	b, err := json.Marshal(protocol.ObserverWelcomeMsg{
		Type:            protocol.TypeObserverWelcome,
		ProtocolVersion: protocol.Version,
		WorldID:         w.cfg.ID,
		SessionID:       req.SessionID,
		Tick:            w.tick.Load(),
	})
	if err == nil {
		sendLatest(req.Out, b)
	}
}

func (w *World) handleObserverSubscribe(req ObserverSubscribeRequest) {
	o := w.observers[req.SessionID]
	if o == nil {
		return
	}
	o.center = req.Center
	o.radius = clampObserverRadius(req.Radius)
}

func (w *World) handleObserverLeave(sessionID string) {
	delete(w.observers, sessionID)
}
