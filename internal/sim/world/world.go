package world

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"altarcraft.ai/internal/persistence/snapshot"
	"altarcraft.ai/internal/protocol"
	"altarcraft.ai/internal/sim/altar"
	"altarcraft.ai/internal/sim/catalogs"
)

const (
	BlockAir   = "AIR"
	BlockAltar = "ALTAR"
	ItemAltar  = "ALTAR"

	WeatherClear   = "CLEAR"
	WeatherRain    = "RAIN"
	WeatherThunder = "THUNDER"
)

var ErrNoAltar = errors.New("no altar at position")

type JoinRequest struct {
	Name string
	Pos  *Vec3i
	Out  chan []byte
	Resp chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
}

type ActionEnvelope struct {
	PlayerID string
	Act      protocol.ActMsg
}

type RecordedJoin struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Pos      [3]int `json:"pos"`
}

type RecordedAction struct {
	PlayerID string          `json:"player_id"`
	Act      protocol.ActMsg `json:"act"`
}

type TickLogEntry struct {
	Tick    uint64           `json:"tick"`
	Joins   []RecordedJoin   `json:"joins,omitempty"`
	Leaves  []string         `json:"leaves,omitempty"`
	Actions []RecordedAction `json:"actions,omitempty"`
	Digest  string           `json:"digest"`
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs
	matcher  *altar.Matcher
	hooks    *altar.Hooks
	log      *log.Logger

	tick atomic.Uint64

	blocks    map[Vec3i]altar.BlockState
	creatures map[string]*Creature
	items     map[string]*ItemEntity
	players   map[string]*Player
	clients   map[string]*clientState
	observers map[string]*observerClient
	altars    map[Vec3i]*altar.Altar

	weather          string
	weatherUntilTick uint64
	rains            uint64

	inbox         chan ActionEnvelope
	join          chan JoinRequest
	leave         chan string
	observerJoin  chan ObserverJoinRequest
	observerSub   chan ObserverSubscribeRequest
	observerLeave chan string
	admin         chan adminSnapshotReq
	stop          chan struct{}

	nextPlayerNum   atomic.Uint64
	nextCreatureNum atomic.Uint64
	nextItemNum     atomic.Uint64

	// Optional sinks (may be nil). Implemented in internal/persistence/*.
	tickLogger   TickLogger
	ritualLogger RitualLogger

	// Snapshot writing happens off-thread.
	snapshotSink chan<- snapshot.SnapshotV1
}

type clientState struct {
	Out chan []byte
}

type Options struct {
	Logger       *log.Logger
	TickLogger   TickLogger
	RitualLogger RitualLogger
	SnapshotSink chan<- snapshot.SnapshotV1
}

func New(cfg WorldConfig, cats *catalogs.Catalogs, opts Options) (*World, error) {
	if cats == nil || cats.Altar.Registry == nil {
		return nil, fmt.Errorf("world: catalogs with altar recipes required")
	}
	cfg.applyDefaults()
	w := &World{
		cfg:      cfg,
		catalogs: cats,
		matcher:  altar.NewMatcher(cats.Altar.Registry),
		hooks:    altar.NewHooks(),
		log:      opts.Logger,

		blocks:    map[Vec3i]altar.BlockState{},
		creatures: map[string]*Creature{},
		items:     map[string]*ItemEntity{},
		players:   map[string]*Player{},
		clients:   map[string]*clientState{},
		observers: map[string]*observerClient{},
		altars:    map[Vec3i]*altar.Altar{},

		weather: WeatherClear,

		inbox:         make(chan ActionEnvelope, 1024),
		join:          make(chan JoinRequest, 64),
		leave:         make(chan string, 64),
		observerJoin:  make(chan ObserverJoinRequest, 16),
		observerSub:   make(chan ObserverSubscribeRequest, 16),
		observerLeave: make(chan string, 16),
		admin:         make(chan adminSnapshotReq, 4),
		stop:          make(chan struct{}),

		tickLogger:   opts.TickLogger,
		ritualLogger: opts.RitualLogger,
		snapshotSink: opts.SnapshotSink,
	}
	w.registerRitualJournal()
	return w, nil
}

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) Config() WorldConfig { return w.cfg }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

// Hooks exposes the ritual listeners shared by every altar. Register
// listeners before Run.
func (w *World) Hooks() *altar.Hooks { return w.hooks }

func (w *World) Inbox() chan<- ActionEnvelope { return w.inbox }
func (w *World) Join() chan<- JoinRequest     { return w.join }
func (w *World) Leave() chan<- string         { return w.leave }

func (w *World) newAltar(pos Vec3i) *altar.Altar {
	return altar.New(altar.Config{
		Pos:     pos,
		Slots:   w.cfg.AltarSlots,
		Matcher: w.matcher,
		Hooks:   w.hooks,
		Host:    w,
		Out:     w,
		Logger:  w.log,
	})
}

// Altar returns the altar block entity at pos.
func (w *World) Altar(pos Vec3i) (*altar.Altar, error) {
	a := w.altars[pos]
	if a == nil {
		return nil, ErrNoAltar
	}
	return a, nil
}

func (w *World) Player(id string) *Player { return w.players[id] }

func (w *World) logf(format string, args ...any) {
	if w.log != nil {
		w.log.Printf(format, args...)
	}
}

func (w *World) newCreatureID() string {
	return fmt.Sprintf("C%06d", w.nextCreatureNum.Add(1))
}

func (w *World) newItemID() string {
	return fmt.Sprintf("I%06d", w.nextItemNum.Add(1))
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
