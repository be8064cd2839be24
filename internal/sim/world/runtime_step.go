package world

import (
	"encoding/json"

	"altarcraft.ai/internal/protocol"
)

func (w *World) step(joins []JoinRequest, leaves []string, actions []ActionEnvelope) (uint64, string) {
	nowTick := w.tick.Load()

	// Apply leaves and joins deterministically at tick boundary.
	recordedLeaves := make([]string, 0, len(leaves))
	for _, id := range leaves {
		if _, ok := w.players[id]; ok {
			w.handleLeave(id)
			recordedLeaves = append(recordedLeaves, id)
		}
	}
	recordedJoins := make([]RecordedJoin, 0, len(joins))
	for _, req := range joins {
		resp, rec := w.joinPlayer(req.Name, req.Pos, req.Out)
		if req.Resp != nil {
			req.Resp <- resp
		}
		recordedJoins = append(recordedJoins, rec)
	}

	// Apply actions in arrival order.
	recorded := make([]RecordedAction, 0, len(actions))
	for _, env := range actions {
		p := w.players[env.PlayerID]
		if p == nil {
			continue
		}
		env.Act.PlayerID = env.PlayerID // trust session identity
		recorded = append(recorded, RecordedAction{PlayerID: env.PlayerID, Act: env.Act})
		w.applyAct(p, env.Act, nowTick)
	}

	w.systemWeather(nowTick)
	w.systemAltars()

	w.sendObs(nowTick)

	digest := w.stateDigest(nowTick)
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{Tick: nowTick, Joins: recordedJoins, Leaves: recordedLeaves, Actions: recorded, Digest: digest})
	}

	if w.snapshotSink != nil && nowTick != 0 && w.cfg.SnapshotEveryTicks > 0 {
		if nowTick%uint64(w.cfg.SnapshotEveryTicks) == 0 {
			select {
			case w.snapshotSink <- w.ExportSnapshot(nowTick):
			default:
				// Drop snapshot if sink is backed up.
			}
		}
	}

	w.tick.Add(1)
	return nowTick, digest
}

// systemAltars ticks every altar once, in position order. An altar broken
// by an earlier altar's outputs is skipped.
func (w *World) systemAltars() {
	for _, pos := range sortedVec3Keys(w.altars) {
		if a := w.altars[pos]; a != nil {
			a.Tick()
		}
	}
}

func (w *World) sendObs(nowTick uint64) {
	tod := w.timeOfDay()
	for _, id := range sortedStringKeys(w.players) {
		p := w.players[id]
		events := p.Events
		p.Events = nil
		cl := w.clients[id]
		if cl == nil {
			continue
		}
		if events == nil {
			events = []protocol.Event{}
		}
		b, err := json.Marshal(protocol.ObsMsg{
			Type:            protocol.TypeObs,
			ProtocolVersion: protocol.Version,
			Tick:            nowTick,
			PlayerID:        id,
			World:           protocol.WorldObs{TimeOfDay: tod, Weather: w.weather},
			Pos:             posArr(p.Pos),
			Inventory:       p.inventoryList(),
			Events:          events,
		})
		if err != nil {
			continue
		}
		sendLatest(cl.Out, b)
	}
}
