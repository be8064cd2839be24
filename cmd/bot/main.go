package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"altarcraft.ai/internal/protocol"
)

func main() {
	var (
		url    = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name   = flag.String("name", "bot", "player name")
		offset = flag.Int("offset", 2, "altar distance along +x from the spawn position")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		PlayerName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	var sc *script
	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME player_id=%s world=%s day_ticks=%d recipes=%s", w.PlayerID, w.WorldID, w.WorldParams.DayTicks, w.Catalogs.AltarRecipes)

		case protocol.TypeObs:
			var obs protocol.ObsMsg
			if err := json.Unmarshal(msg, &obs); err != nil {
				continue
			}
			if sc == nil {
				sc = transmuteScript([3]int{obs.Pos[0] + *offset, obs.Pos[1], obs.Pos[2]})
			}
			for _, e := range obs.Events {
				if e["type"] == "MESSAGE" {
					logger.Printf("tick=%d message=%v", obs.Tick, e["key"])
				}
			}
			if act, ok := sc.next(&obs); ok {
				if err := conn.WriteJSON(act); err != nil {
					return
				}
			}
			if err := sc.failure(); err != nil {
				logger.Printf("script stopped: %v", err)
				return
			}

		case protocol.TypeAltarProgress:
			var m protocol.AltarProgressMsg
			if err := json.Unmarshal(msg, &m); err == nil && m.Progress > 0 && m.Progress%20 == 0 {
				logger.Printf("altar %v progress=%d", m.Pos, m.Progress)
			}

		case protocol.TypeAltarActive:
			var m protocol.AltarActiveMsg
			if err := json.Unmarshal(msg, &m); err == nil {
				logger.Printf("altar %v active=%v", m.Pos, m.Active)
				if !m.Active && sc != nil && sc.finished() {
					logger.Printf("ritual finished")
				}
			}
		}
	}
}

// script issues one action per observation and waits for its result.
type script struct {
	steps []protocol.ActionReq
	pos   int

	pending string
	err     error
}

func transmuteScript(altarPos [3]int) *script {
	steps := []protocol.ActionReq{
		{Type: protocol.ActPlaceAltar, Pos: altarPos},
		{Type: protocol.ActInteract, Pos: altarPos, Item: "IRON_INGOT", Count: 4},
		{Type: protocol.ActInteract, Pos: altarPos, Item: "RUBY", Count: 1},
		{Type: protocol.ActInteract, Pos: altarPos, Item: "BLAZE_ROD", Count: 1},
	}
	for i := range steps {
		steps[i].ID = fmt.Sprintf("S%d_%s", i, steps[i].Type)
	}
	return &script{steps: steps}
}

func (s *script) finished() bool { return s.pos >= len(s.steps) && s.pending == "" }

func (s *script) failure() error { return s.err }

func (s *script) next(obs *protocol.ObsMsg) (protocol.ActMsg, bool) {
	if s.err != nil {
		return protocol.ActMsg{}, false
	}
	if s.pending != "" {
		for _, e := range obs.Events {
			if e["type"] != "ACTION_RESULT" || e["ref"] != s.pending {
				continue
			}
			if ok, _ := e["ok"].(bool); !ok {
				s.err = fmt.Errorf("%s failed: %v %v", s.pending, e["code"], e["message"])
				return protocol.ActMsg{}, false
			}
			s.pending = ""
		}
		if s.pending != "" {
			return protocol.ActMsg{}, false
		}
	}
	if s.pos >= len(s.steps) {
		return protocol.ActMsg{}, false
	}
	req := s.steps[s.pos]
	s.pos++
	s.pending = req.ID
	return protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		Tick:            obs.Tick,
		PlayerID:        obs.PlayerID,
		Actions:         []protocol.ActionReq{req},
	}, true
}
