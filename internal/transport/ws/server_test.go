package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"altarcraft.ai/internal/protocol"
	"altarcraft.ai/internal/sim/catalogs"
	"altarcraft.ai/internal/sim/world"
)

func startWorld(t *testing.T) *world.World {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	w, err := world.New(world.WorldConfig{ID: "ws_test", TickRateHz: 50, DayTicks: 1000, StarterItems: map[string]int{"ALTAR": 1}}, cats, world.Options{})
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readObs(t *testing.T, conn *websocket.Conn, until func(protocol.ObsMsg) bool) protocol.ObsMsg {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil || base.Type != protocol.TypeObs {
			continue
		}
		var obs protocol.ObsMsg
		if err := json.Unmarshal(msg, &obs); err != nil {
			t.Fatalf("decode obs: %v", err)
		}
		if until(obs) {
			return obs
		}
	}
	t.Fatalf("timed out waiting for OBS")
	return protocol.ObsMsg{}
}

func TestServer_HelloWelcomeAndAct(t *testing.T) {
	w := startWorld(t)
	srv := httptest.NewServer(NewServer(w, nil).Handler())
	defer srv.Close()

	conn := dial(t, srv)
	hello, _ := json.Marshal(protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, PlayerName: "alice"})
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		t.Fatalf("write hello: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	var welcome protocol.WelcomeMsg
	if err := json.Unmarshal(msg, &welcome); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if welcome.Type != protocol.TypeWelcome || welcome.PlayerID == "" || welcome.WorldID != "ws_test" {
		t.Fatalf("welcome = %+v", welcome)
	}
	if welcome.Catalogs.AltarRecipes == "" {
		t.Fatalf("welcome missing recipe digest")
	}

	first := readObs(t, conn, func(protocol.ObsMsg) bool { return true })
	act, _ := json.Marshal(protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		Tick:            first.Tick,
		Actions:         []protocol.ActionReq{{ID: "m1", Type: protocol.ActMove, Pos: [3]int{40, 1, 40}}},
	})
	if err := conn.WriteMessage(websocket.TextMessage, act); err != nil {
		t.Fatalf("write act: %v", err)
	}

	obs := readObs(t, conn, func(o protocol.ObsMsg) bool {
		for _, e := range o.Events {
			if e["type"] == "ACTION_RESULT" && e["ref"] == "m1" {
				return true
			}
		}
		return false
	})
	if obs.Pos != [3]int{40, 1, 40} {
		t.Fatalf("pos after move = %v", obs.Pos)
	}
	if obs.PlayerID != welcome.PlayerID {
		t.Fatalf("obs player=%q want %q", obs.PlayerID, welcome.PlayerID)
	}
}

func TestServer_RejectsMissingHello(t *testing.T) {
	w := startWorld(t)
	srv := httptest.NewServer(NewServer(w, nil).Handler())
	defer srv.Close()

	conn := dial(t, srv)
	bad, _ := json.Marshal(protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version})
	if err := conn.WriteMessage(websocket.TextMessage, bad); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	var ce *websocket.CloseError
	if !errors.As(err, &ce) || ce.Code != websocket.ClosePolicyViolation {
		t.Fatalf("expected policy violation close, got %v", err)
	}
}

func TestDecodeAct_RequiresCurrentVersion(t *testing.T) {
	old, _ := json.Marshal(protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: "0.9"})
	if _, ok := decodeAct(old); ok {
		t.Fatalf("expected stale protocol version to be ignored")
	}
	cur, _ := json.Marshal(protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, Tick: 3})
	act, ok := decodeAct(cur)
	if !ok || act.Tick != 3 {
		t.Fatalf("decodeAct = %+v ok=%v", act, ok)
	}
}
