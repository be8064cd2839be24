package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"altarcraft.ai/internal/protocol"
	"altarcraft.ai/internal/sim/world"
)

const (
	outQueue     = 64
	readTimeout  = 60 * time.Second
	writeTimeout = 5 * time.Second
)

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	return &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		playerID, out := s.handshake(r.Context(), conn)
		if playerID == "" {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			act, ok := decodeAct(msg)
			if !ok {
				continue
			}
			act.PlayerID = playerID
			select {
			case s.world.Inbox() <- world.ActionEnvelope{PlayerID: playerID, Act: act}:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}
		cancel()

		s.world.Leave() <- playerID
		if s.log != nil {
			s.log.Printf("ws: %s disconnected", playerID)
		}
	}
}

// decodeAct accepts only current-version ACT frames.
func decodeAct(msg []byte) (protocol.ActMsg, bool) {
	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeAct || base.ProtocolVersion != protocol.Version {
		return protocol.ActMsg{}, false
	}
	var act protocol.ActMsg
	if err := json.Unmarshal(msg, &act); err != nil {
		return protocol.ActMsg{}, false
	}
	return act, true
}

func (s *Server) handshake(ctx context.Context, conn *websocket.Conn) (playerID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closeWith(conn, websocket.ClosePolicyViolation, "expected HELLO")
		return "", nil
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		closeWith(conn, websocket.ClosePolicyViolation, "bad HELLO")
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		closeWith(conn, websocket.ClosePolicyViolation, "bad protocol_version")
		return "", nil
	}

	out = make(chan []byte, outQueue)
	req := world.JoinRequest{
		Name: strings.TrimSpace(hello.PlayerName),
		Out:  out,
		Resp: make(chan world.JoinResponse, 1),
	}
	if hello.Pos != nil {
		p := world.Vec3i{X: hello.Pos[0], Y: hello.Pos[1], Z: hello.Pos[2]}
		req.Pos = &p
	}

	select {
	case s.world.Join() <- req:
	case <-time.After(2 * time.Second):
		closeWith(conn, websocket.CloseTryAgainLater, protocol.ErrWorldBusy)
		return "", nil
	case <-ctx.Done():
		return "", nil
	}
	var resp world.JoinResponse
	select {
	case resp = <-req.Resp:
	case <-ctx.Done():
		return "", nil
	}

	if err := writeJSON(conn, resp.Welcome); err != nil {
		s.world.Leave() <- resp.Welcome.PlayerID
		return "", nil
	}
	if s.log != nil {
		s.log.Printf("ws: %s joined as %s", resp.Welcome.PlayerID, req.Name)
	}
	return resp.Welcome.PlayerID, out
}

func closeWith(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
