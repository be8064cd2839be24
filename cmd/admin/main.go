package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	persistlog "altarcraft.ai/internal/persistence/log"
	"altarcraft.ai/internal/persistence/snapshot"
	"altarcraft.ai/internal/sim/world"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state":
			stateCmd(os.Args[2:])
			return
		case "snapshot":
			snapshotCmd(os.Args[2:])
			return
		case "dump":
			dumpCmd(os.Args[2:])
			return
		case "rituals":
			ritualsCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (optional)")
	_ = fs.Parse(args)

	base := filepath.Join(*dataDir, "worlds")
	if *worldID != "" {
		base = filepath.Join(base, *worldID)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Println(e.Name())
	}
}

// dumpCmd prints the altars held by a snapshot, one JSON object per line.
func dumpCmd(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (used to find the latest snapshot)")
	snapPath := fs.String("snapshot", "", "snapshot path (optional; defaults to latest)")
	onlyActive := fs.Bool("active", false, "only altars with a ritual in flight")
	_ = fs.Parse(args)

	path := strings.TrimSpace(*snapPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -snapshot")
			os.Exit(2)
		}
		path = latestSnapshot(filepath.Join(*dataDir, "worlds", *worldID))
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "no snapshot found")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "world=%s tick=%d weather=%s altars=%d\n", snap.Header.WorldID, snap.Header.Tick, snap.Weather, len(snap.Altars))
	for _, a := range filterAltars(snap.Altars, *onlyActive) {
		printJSON(a)
	}
}

func filterAltars(altars []snapshot.AltarV1, onlyActive bool) []snapshot.AltarV1 {
	if !onlyActive {
		return altars
	}
	out := make([]snapshot.AltarV1, 0, len(altars))
	for _, a := range altars {
		if a.Progress > 0 || a.ProcessTime > 0 || a.RecipeID != "" {
			out = append(out, a)
		}
	}
	return out
}

// ritualsCmd scans the ritual journal, optionally bounded by tick range and
// an AABB around the altar positions.
func ritualsCmd(args []string) {
	fs := flag.NewFlagSet("rituals", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id")
	sinceTick := fs.Uint64("since_tick", 0, "first tick (inclusive)")
	toTick := fs.Uint64("to_tick", 0, "last tick (inclusive, optional)")
	aabb := fs.String("aabb", "", "AABB filter: x1,y1,z1:x2,y2,z2 (optional)")
	kind := fs.String("kind", "", "START|COMPLETE|CANCEL|REJECT (optional)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*worldID) == "" {
		fmt.Fprintln(os.Stderr, "missing -world")
		os.Exit(2)
	}
	f := ritualFilter{since: *sinceTick, to: *toTick, kind: strings.ToUpper(strings.TrimSpace(*kind))}
	if s := strings.TrimSpace(*aabb); s != "" {
		min, max, err := parseAABB(s)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad -aabb:", err)
			os.Exit(2)
		}
		f.box = &[2][3]int{min, max}
	}

	dir := filepath.Join(*dataDir, "worlds", *worldID, "rituals")
	files, err := persistlog.Files(dir, "rituals")
	if err != nil {
		fmt.Fprintln(os.Stderr, "list rituals:", err)
		os.Exit(1)
	}
	for _, path := range files {
		err := persistlog.ReadJSONL(path, func(e world.RitualLogEntry) bool {
			if f.match(e) {
				printJSON(e)
			}
			return f.to == 0 || e.Tick <= f.to
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
	}
}

type ritualFilter struct {
	since uint64
	to    uint64
	kind  string
	box   *[2][3]int
}

func (f ritualFilter) match(e world.RitualLogEntry) bool {
	if e.Tick < f.since || (f.to != 0 && e.Tick > f.to) {
		return false
	}
	if f.kind != "" && e.Kind != f.kind {
		return false
	}
	if f.box != nil && !withinAABB(e.Pos, f.box[0], f.box[1]) {
		return false
	}
	return true
}

func withinAABB(pos [3]int, min, max [3]int) bool {
	return pos[0] >= min[0] && pos[0] <= max[0] &&
		pos[1] >= min[1] && pos[1] <= max[1] &&
		pos[2] >= min[2] && pos[2] <= max[2]
}

func parseAABB(s string) (min, max [3]int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return min, max, fmt.Errorf("expected x1,y1,z1:x2,y2,z2")
	}
	a, err := parseVec3(parts[0])
	if err != nil {
		return min, max, err
	}
	b, err := parseVec3(parts[1])
	if err != nil {
		return min, max, err
	}
	for i := 0; i < 3; i++ {
		if a[i] <= b[i] {
			min[i], max[i] = a[i], b[i]
		} else {
			min[i], max[i] = b[i], a[i]
		}
	}
	return min, max, nil
}

func parseVec3(s string) ([3]int, error) {
	var out [3]int
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("expected x,y,z")
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func latestSnapshot(worldDir string) string {
	dir := filepath.Join(worldDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestTick uint64
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		tick, err := strconv.ParseUint(strings.TrimSuffix(name, ".snap.zst"), 10, 64)
		if err != nil {
			continue
		}
		if best == "" || tick > bestTick {
			bestTick = tick
			best = filepath.Join(dir, name)
		}
	}
	return best
}
