package world

import (
	"fmt"
	"strings"

	"altarcraft.ai/internal/protocol"
)

func normalizePlayerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "player"
	}
	if len(name) > 32 {
		name = name[:32]
	}
	return name
}

func (w *World) joinPlayer(name string, pos *Vec3i, out chan []byte) (JoinResponse, RecordedJoin) {
	idNum := w.nextPlayerNum.Add(1)
	id := fmt.Sprintf("P%d", idNum)

	p := &Player{
		ID:        id,
		Name:      normalizePlayerName(name),
		Inventory: map[string]int{},
	}
	if pos != nil {
		p.Pos = *pos
	}
	for item, n := range w.cfg.StarterItems {
		if n > 0 {
			p.Inventory[item] += n
		}
	}
	w.players[id] = p
	if out != nil {
		w.clients[id] = &clientState{Out: out}
	}
	w.logf("join %s (%s) at %v", id, p.Name, posArr(p.Pos))

	rec := RecordedJoin{PlayerID: id, Name: p.Name, Pos: posArr(p.Pos)}
	return JoinResponse{Welcome: w.buildWelcome(id)}, rec
}

// handleLeave detaches the session; the player stays in the world.
func (w *World) handleLeave(playerID string) {
	delete(w.clients, playerID)
}

func (w *World) buildWelcome(playerID string) protocol.WelcomeMsg {
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		WorldID:         w.cfg.ID,
		PlayerID:        playerID,
		WorldParams: protocol.WorldParams{
			TickRateHz:     w.cfg.TickRateHz,
			DayTicks:       w.cfg.DayTicks,
			ChunkSize:      w.cfg.ChunkSize,
			TrackingRadius: w.cfg.TrackingRadius,
			AltarSlots:     w.cfg.AltarSlots,
		},
		Catalogs: protocol.CatalogDigests{
			Blocks:       w.catalogs.Blocks.Digest,
			Items:        w.catalogs.Items.Digest,
			Creatures:    w.catalogs.Creatures.Digest,
			AltarRecipes: w.catalogs.Altar.Digest,
		},
	}
}
