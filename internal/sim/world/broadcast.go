package world

import "encoding/json"

func (w *World) chunkOf(p Vec3i) ChunkKey {
	return ChunkKey{CX: floorDiv(p.X, w.cfg.ChunkSize), CZ: floorDiv(p.Z, w.cfg.ChunkSize)}
}

// trackingPlayers returns players whose tracking range covers pos's chunk,
// in id order.
func (w *World) trackingPlayers(pos Vec3i) []*Player {
	target := w.chunkOf(pos)
	var out []*Player
	for _, id := range sortedStringKeys(w.players) {
		p := w.players[id]
		if chebyshev(w.chunkOf(p.Pos), target) <= w.cfg.TrackingRadius {
			out = append(out, p)
		}
	}
	return out
}

// broadcast sends msg to every connected player and observer tracking the
// chunk that contains pos.
func (w *World) broadcast(pos Vec3i, msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for _, p := range w.trackingPlayers(pos) {
		if cl := w.clients[p.ID]; cl != nil {
			sendLatest(cl.Out, b)
		}
	}
	target := w.chunkOf(pos)
	for _, id := range sortedStringKeys(w.observers) {
		o := w.observers[id]
		if chebyshev(o.center, target) <= o.radius {
			sendLatest(o.out, b)
		}
	}
}
