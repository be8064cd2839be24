package world

import (
	"encoding/json"
	"testing"

	"altarcraft.ai/internal/protocol"
	"altarcraft.ai/internal/sim/catalogs"
)

func testConfig() WorldConfig {
	return WorldConfig{
		ID:             "test",
		TickRateHz:     5,
		DayTicks:       1000,
		TrackingRadius: 1,
		StarterItems: map[string]int{
			"ALTAR":        1,
			"IRON_INGOT":   8,
			"RUBY":         2,
			"BLAZE_ROD":    2,
			"BONE":         8,
			"ROTTEN_FLESH": 8,
			"GHAST_TEAR":   1,
		},
	}
}

func newTestWorld(t *testing.T, opts Options) *World {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	w, err := New(testConfig(), cats, opts)
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	return w
}

func joinAt(t *testing.T, w *World, name string, pos Vec3i) (string, chan []byte) {
	t.Helper()
	out := make(chan []byte, 4096)
	resp := make(chan JoinResponse, 1)
	w.StepOnce([]JoinRequest{{Name: name, Pos: &pos, Out: out, Resp: resp}}, nil, nil)
	r := <-resp
	if r.Welcome.PlayerID == "" {
		t.Fatalf("join: empty player id")
	}
	return r.Welcome.PlayerID, out
}

func act(w *World, playerID string, reqs ...protocol.ActionReq) []ActionEnvelope {
	return []ActionEnvelope{{
		PlayerID: playerID,
		Act:      protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, Tick: w.CurrentTick(), Actions: reqs},
	}}
}

func interact(id string, pos Vec3i, item string, count int) protocol.ActionReq {
	return protocol.ActionReq{ID: id, Type: protocol.ActInteract, Pos: posArr(pos), Item: item, Count: count}
}

func steps(w *World, n int) {
	for i := 0; i < n; i++ {
		w.StepOnce(nil, nil, nil)
	}
}

// inbox is everything a session received, split by message type.
type inbox struct {
	obs    []protocol.ObsMsg
	byType map[string][][]byte
}

func drain(out chan []byte) inbox {
	in := inbox{byType: map[string][][]byte{}}
	for {
		select {
		case b := <-out:
			base, err := protocol.DecodeBase(b)
			if err != nil {
				continue
			}
			in.byType[base.Type] = append(in.byType[base.Type], b)
			if base.Type == protocol.TypeObs {
				var m protocol.ObsMsg
				if json.Unmarshal(b, &m) == nil {
					in.obs = append(in.obs, m)
				}
			}
		default:
			return in
		}
	}
}

func (in inbox) events(typ string) []protocol.Event {
	var out []protocol.Event
	for _, o := range in.obs {
		for _, e := range o.Events {
			if e["type"] == typ {
				out = append(out, e)
			}
		}
	}
	return out
}

func (in inbox) result(ref string) (ok bool, code string, found bool) {
	for _, e := range in.events("ACTION_RESULT") {
		if r, _ := e["ref"].(string); r != ref {
			continue
		}
		ok, _ = e["ok"].(bool)
		code, _ = e["code"].(string)
		return ok, code, true
	}
	return false, "", false
}

func (in inbox) messageKeys() []string {
	var keys []string
	for _, e := range in.events("MESSAGE") {
		if k, _ := e["key"].(string); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

type ritualRecorder struct{ entries []RitualLogEntry }

func (r *ritualRecorder) WriteRitual(e RitualLogEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *ritualRecorder) kinds() []string {
	var out []string
	for _, e := range r.entries {
		out = append(out, e.Kind)
	}
	return out
}
