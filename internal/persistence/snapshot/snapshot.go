package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	TickRate       int `json:"tick_rate_hz"`
	DayTicks       int `json:"day_ticks"`
	ChunkSize      int `json:"chunk_size"`
	TrackingRadius int `json:"tracking_radius"`
	AltarSlots     int `json:"altar_slots"`

	SnapshotEveryTicks int            `json:"snapshot_every_ticks,omitempty"`
	ReachDistance      int            `json:"reach_distance,omitempty"`
	StarterItems       map[string]int `json:"starter_items,omitempty"`
	WeatherCycle       WeatherV1      `json:"weather_cycle,omitempty"`

	Weather          string `json:"weather"`
	WeatherUntilTick uint64 `json:"weather_until_tick,omitempty"`

	// Recipes digest at export time. A mismatch on import is allowed; altars
	// re-match on their next tick.
	RecipesDigest string `json:"recipes_digest,omitempty"`

	Blocks    []BlockV1      `json:"blocks"`
	Creatures []CreatureV1   `json:"creatures"`
	Items     []ItemEntityV1 `json:"items,omitempty"`
	Players   []PlayerV1     `json:"players"`
	Altars    []AltarV1      `json:"altars"`

	Counters CountersV1 `json:"counters"`
}

type WeatherV1 struct {
	RainEveryTicks    int `json:"rain_every_ticks,omitempty"`
	RainLengthTicks   int `json:"rain_length_ticks,omitempty"`
	ThunderEveryRains int `json:"thunder_every_rains,omitempty"`
}

type CountersV1 struct {
	NextPlayer   uint64 `json:"next_player"`
	NextCreature uint64 `json:"next_creature"`
	NextItem     uint64 `json:"next_item"`
	Rains        uint64 `json:"rains"`
}

type BlockV1 struct {
	Pos   [3]int            `json:"pos"`
	ID    string            `json:"id"`
	Props map[string]string `json:"props,omitempty"`
}

type CreatureV1 struct {
	ID   string   `json:"id"`
	Type string   `json:"type"`
	Pos  [3]int   `json:"pos"`
	Tags []string `json:"tags,omitempty"`
}

type ItemEntityV1 struct {
	ID    string `json:"id"`
	Pos   [3]int `json:"pos"`
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type PlayerV1 struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Pos       [3]int         `json:"pos"`
	Inventory map[string]int `json:"inventory"`
}

type ItemStackV1 struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type InsertionV1 struct {
	Slot  int    `json:"slot"`
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// AltarV1 is the persisted save data of one altar block entity.
type AltarV1 struct {
	Pos         [3]int        `json:"pos"`
	Slots       []ItemStackV1 `json:"slots"`
	Catalyst    ItemStackV1   `json:"catalyst"`
	History     []InsertionV1 `json:"history,omitempty"`
	Progress    int           `json:"progress"`
	ProcessTime int           `json:"process_time"`
	RecipeID    string        `json:"recipe_id,omitempty"`
	Actor       string        `json:"actor,omitempty"`
	Pending     [][]string    `json:"pending,omitempty"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

// ReadHeader decodes only the JSON header line, without the gob body.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("header: %w", err)
	}
	return h, nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// The header line is repeated inside the gob body.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	return snap, nil
}

// Path returns the conventional snapshot file for tick under worldDir.
func Path(worldDir string, tick uint64) string {
	return filepath.Join(worldDir, "snapshots", fmt.Sprintf("%d.snap.zst", tick))
}
