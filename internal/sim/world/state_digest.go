package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
)

// stateDigest hashes everything that affects future ticks, in a fixed order.
// Replays compare it against the journaled digest.
func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	digestWriteU64(h, &tmp, nowTick)
	digestString(h, &tmp, w.weather)
	digestWriteU64(h, &tmp, w.weatherUntilTick)
	digestWriteU64(h, &tmp, w.rains)

	w.digestBlocks(h, &tmp)
	w.digestCreatures(h, &tmp)
	w.digestItems(h, &tmp)
	w.digestPlayers(h, &tmp)
	w.digestAltars(h, &tmp)

	return hex.EncodeToString(h.Sum(nil))
}

type hashWriter interface {
	Write(p []byte) (n int, err error)
}

func digestWriteU64(h hashWriter, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestWriteI64(h hashWriter, tmp *[8]byte, v int64) {
	digestWriteU64(h, tmp, uint64(v))
}

// digestString is length-prefixed so adjacent strings cannot run together.
func digestString(h hashWriter, tmp *[8]byte, s string) {
	digestWriteU64(h, tmp, uint64(len(s)))
	h.Write([]byte(s))
}

func digestPos(h hashWriter, tmp *[8]byte, p Vec3i) {
	digestWriteI64(h, tmp, int64(p.X))
	digestWriteI64(h, tmp, int64(p.Y))
	digestWriteI64(h, tmp, int64(p.Z))
}

func digestStringMap(h hashWriter, tmp *[8]byte, m map[string]string) {
	keys := sortedStringKeys(m)
	digestWriteU64(h, tmp, uint64(len(keys)))
	for _, k := range keys {
		digestString(h, tmp, k)
		digestString(h, tmp, m[k])
	}
}

func digestIntMap(h hashWriter, tmp *[8]byte, m map[string]int) {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v != 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	digestWriteU64(h, tmp, uint64(len(keys)))
	for _, k := range keys {
		digestString(h, tmp, k)
		digestWriteI64(h, tmp, int64(m[k]))
	}
}

func (w *World) digestBlocks(h hashWriter, tmp *[8]byte) {
	keys := sortedVec3Keys(w.blocks)
	digestWriteU64(h, tmp, uint64(len(keys)))
	for _, p := range keys {
		b := w.blocks[p]
		digestPos(h, tmp, p)
		digestString(h, tmp, b.ID)
		digestStringMap(h, tmp, b.Props)
	}
}

func (w *World) digestCreatures(h hashWriter, tmp *[8]byte) {
	ids := sortedStringKeys(w.creatures)
	digestWriteU64(h, tmp, uint64(len(ids)))
	for _, id := range ids {
		c := w.creatures[id]
		digestString(h, tmp, c.ID)
		digestString(h, tmp, c.Type)
		digestPos(h, tmp, c.Pos)
		digestWriteU64(h, tmp, uint64(len(c.Tags)))
		for _, t := range c.Tags {
			digestString(h, tmp, t)
		}
	}
}

func (w *World) digestItems(h hashWriter, tmp *[8]byte) {
	ids := sortedStringKeys(w.items)
	digestWriteU64(h, tmp, uint64(len(ids)))
	for _, id := range ids {
		it := w.items[id]
		digestString(h, tmp, it.ID)
		digestPos(h, tmp, it.Pos)
		digestString(h, tmp, it.Item)
		digestWriteI64(h, tmp, int64(it.Count))
	}
}

func (w *World) digestPlayers(h hashWriter, tmp *[8]byte) {
	ids := sortedStringKeys(w.players)
	digestWriteU64(h, tmp, uint64(len(ids)))
	for _, id := range ids {
		p := w.players[id]
		digestString(h, tmp, p.ID)
		digestPos(h, tmp, p.Pos)
		digestIntMap(h, tmp, p.Inventory)
	}
}

func (w *World) digestAltars(h hashWriter, tmp *[8]byte) {
	keys := sortedVec3Keys(w.altars)
	digestWriteU64(h, tmp, uint64(len(keys)))
	for _, p := range keys {
		sd := w.altars[p].Save()
		digestPos(h, tmp, p)
		digestWriteI64(h, tmp, int64(sd.Progress))
		digestWriteI64(h, tmp, int64(sd.ProcessTime))
		digestString(h, tmp, sd.RecipeID)
		digestString(h, tmp, sd.Actor)
		digestWriteU64(h, tmp, uint64(len(sd.Pending)))
		for _, ids := range sd.Pending {
			digestWriteU64(h, tmp, uint64(len(ids)))
			for _, id := range ids {
				digestString(h, tmp, id)
			}
		}
		digestString(h, tmp, sd.Inventory.Catalyst.Item)
		digestWriteI64(h, tmp, int64(sd.Inventory.Catalyst.Count))
		digestWriteU64(h, tmp, uint64(len(sd.Inventory.Slots)))
		for _, s := range sd.Inventory.Slots {
			digestString(h, tmp, s.Item)
			digestWriteI64(h, tmp, int64(s.Count))
		}
		digestWriteU64(h, tmp, uint64(len(sd.Inventory.History)))
		for _, in := range sd.Inventory.History {
			digestWriteI64(h, tmp, int64(in.Slot))
			digestString(h, tmp, in.Item)
			digestWriteI64(h, tmp, int64(in.Count))
		}
	}
}
