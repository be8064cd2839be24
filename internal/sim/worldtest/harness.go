package worldtest

import (
	"encoding/json"
	"testing"

	"altarcraft.ai/internal/persistence/snapshot"
	"altarcraft.ai/internal/protocol"
	"altarcraft.ai/internal/sim/catalogs"
	world "altarcraft.ai/internal/sim/world"
)

// Harness drives a world through its exported API only:
// - Join() issues a JoinRequest via StepOnce()
// - Step() issues an ACT via StepOnce()
// - per-player Out channels carry OBS and altar broadcast JSON
//
// Tests built on it can live outside the world package.
type Harness struct {
	T    *testing.T
	Cats *catalogs.Catalogs
	W    *world.World

	DefaultPlayerID string

	sessions map[string]*session
}

type session struct {
	PlayerID string
	Out      chan []byte

	lastObs    protocol.ObsMsg
	events     []protocol.Event
	broadcasts map[string]int
}

func NewHarness(t *testing.T, cfg world.WorldConfig, cats *catalogs.Catalogs, playerName string, pos world.Vec3i) *Harness {
	t.Helper()
	w, err := world.New(cfg, cats, world.Options{})
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return NewHarnessWithWorld(t, w, cats, playerName, pos)
}

// NewHarnessWithWorld uses an already-constructed world, e.g. one a snapshot
// was imported into.
func NewHarnessWithWorld(t *testing.T, w *world.World, cats *catalogs.Catalogs, playerName string, pos world.Vec3i) *Harness {
	t.Helper()
	if w == nil {
		t.Fatalf("NewHarnessWithWorld: nil world")
	}
	h := &Harness{
		T:        t,
		Cats:     cats,
		W:        w,
		sessions: map[string]*session{},
	}
	h.DefaultPlayerID = h.Join(playerName, pos)
	return h
}

func (h *Harness) Join(name string, pos world.Vec3i) string {
	h.T.Helper()
	out := make(chan []byte, 1024)
	resp := make(chan world.JoinResponse, 1)
	_, _ = h.W.StepOnce([]world.JoinRequest{{Name: name, Pos: &pos, Out: out, Resp: resp}}, nil, nil)
	jr := <-resp
	if jr.Welcome.PlayerID == "" {
		h.T.Fatalf("join returned empty player id")
	}
	s := &session{PlayerID: jr.Welcome.PlayerID, Out: out, broadcasts: map[string]int{}}
	h.sessions[s.PlayerID] = s
	h.drainAll()
	return s.PlayerID
}

func (h *Harness) LastObs() protocol.ObsMsg { return h.session(h.DefaultPlayerID).lastObs }

// Events returns and clears every OBS event seen by the default player.
func (h *Harness) Events() []protocol.Event {
	s := h.session(h.DefaultPlayerID)
	ev := s.events
	s.events = nil
	return ev
}

// Broadcasts counts altar broadcasts by message type for the default player.
func (h *Harness) Broadcasts(typ string) int { return h.session(h.DefaultPlayerID).broadcasts[typ] }

func (h *Harness) Step(actions ...protocol.ActionReq) protocol.ObsMsg {
	h.T.Helper()
	id := h.DefaultPlayerID
	act := protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		Tick:            h.W.CurrentTick(),
		PlayerID:        id,
		Actions:         actions,
	}
	_, _ = h.W.StepOnce(nil, nil, []world.ActionEnvelope{{PlayerID: id, Act: act}})
	h.drainAll()
	return h.LastObs()
}

func (h *Harness) StepNoop(n int) protocol.ObsMsg {
	h.T.Helper()
	for i := 0; i < n; i++ {
		_, _ = h.W.StepOnce(nil, nil, nil)
		h.drainAll()
	}
	return h.LastObs()
}

// Snapshot exports at the last completed tick so an import resumes at the
// current one.
func (h *Harness) Snapshot() snapshot.SnapshotV1 {
	h.T.Helper()
	cur := h.W.CurrentTick()
	if cur == 0 {
		return h.W.ExportSnapshot(0)
	}
	return h.W.ExportSnapshot(cur - 1)
}

func (h *Harness) Give(item string, n int) {
	h.T.Helper()
	if err := h.W.GiveItem(h.DefaultPlayerID, item, n); err != nil {
		h.T.Fatalf("GiveItem: %v", err)
	}
}

func (h *Harness) SetBlock(pos world.Vec3i, id string) {
	h.T.Helper()
	if err := h.W.SetBlock(pos, id, nil); err != nil {
		h.T.Fatalf("SetBlock: %v", err)
	}
}

func (h *Harness) session(id string) *session {
	h.T.Helper()
	s := h.sessions[id]
	if s == nil {
		h.T.Fatalf("unknown player id: %q", id)
	}
	return s
}

func (h *Harness) drainAll() {
	h.T.Helper()
	for _, s := range h.sessions {
		h.drainOne(s)
	}
}

func (h *Harness) drainOne(s *session) {
	h.T.Helper()
	for {
		var b []byte
		select {
		case b = <-s.Out:
		default:
			return
		}
		base, err := protocol.DecodeBase(b)
		if err != nil {
			h.T.Fatalf("decode: %v", err)
		}
		if base.Type != protocol.TypeObs {
			s.broadcasts[base.Type]++
			continue
		}
		var obs protocol.ObsMsg
		if err := json.Unmarshal(b, &obs); err != nil {
			h.T.Fatalf("unmarshal OBS: %v", err)
		}
		s.lastObs = obs
		s.events = append(s.events, obs.Events...)
	}
}

// Count returns how many of item the default player holds.
func (h *Harness) Count(item string) int {
	for _, s := range h.LastObs().Inventory {
		if s.Item == item {
			return s.Count
		}
	}
	return 0
}
