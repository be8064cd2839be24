package snapshot

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteReadRoundTrip_AltarSaveData(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir, 42)

	in := SnapshotV1{
		Header:   Header{Version: Version, WorldID: "w1", Tick: 42},
		TickRate: 20,
		DayTicks: 24000,
		Weather:  "RAIN",
		Blocks:   []BlockV1{{Pos: [3]int{0, -1, 0}, ID: "OBSIDIAN"}},
		Altars: []AltarV1{{
			Pos:         [3]int{0, 0, 0},
			Slots:       []ItemStackV1{{Item: "BONE", Count: 8}, {}},
			Catalyst:    ItemStackV1{Item: "GHAST_TEAR", Count: 1},
			History:     []InsertionV1{{Slot: 0, Item: "BONE", Count: 8}, {Slot: -1, Item: "GHAST_TEAR", Count: 1}},
			Progress:    17,
			ProcessTime: 200,
			RecipeID:    "raise_dead",
		}},
		Counters: CountersV1{NextCreature: 9},
	}
	if err := WriteSnapshot(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(dir, "snapshots") {
		t.Fatalf("path: %s", path)
	}

	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if h != in.Header {
		t.Fatalf("header: got %+v want %+v", h, in.Header)
	}

	out, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(out.Altars, in.Altars) {
		t.Fatalf("altars: got %+v want %+v", out.Altars, in.Altars)
	}
	if out.Weather != "RAIN" || out.Counters.NextCreature != 9 {
		t.Fatalf("snapshot fields lost: %+v", out)
	}
}
