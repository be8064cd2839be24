package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	persistlog "altarcraft.ai/internal/persistence/log"
	"altarcraft.ai/internal/persistence/snapshot"
	"altarcraft.ai/internal/sim/catalogs"
	"altarcraft.ai/internal/sim/tuning"
	"altarcraft.ai/internal/sim/world"
)

func main() {
	var (
		snapPath  = flag.String("snapshot", "", "path to .snap.zst")
		eventsDir = flag.String("events", "", "events dir containing events-*.jsonl.zst (optional)")
		configDir = flag.String("configs", "./configs", "config directory")
		fromTick  = flag.Uint64("from_tick", 0, "start verifying from tick (inclusive, optional)")
		toTick    = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}

	active := 0
	for _, a := range snap.Altars {
		if a.Progress > 0 || a.RecipeID != "" {
			active++
		}
	}
	fmt.Printf("snapshot v%d world=%s tick=%d weather=%s blocks=%d creatures=%d items=%d players=%d altars=%d active_rituals=%d\n",
		snap.Header.Version, snap.Header.WorldID, snap.Header.Tick, snap.Weather,
		len(snap.Blocks), len(snap.Creatures), len(snap.Items), len(snap.Players), len(snap.Altars), active)

	if *eventsDir == "" {
		return
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	if snap.RecipesDigest != "" && snap.RecipesDigest != cats.Altar.Digest {
		fmt.Fprintln(os.Stderr, "warning: altar_recipes.json differs from the snapshot's; digests will likely diverge")
	}

	w, err := world.New(world.ConfigFromTuning(snap.Header.WorldID, tuning.Defaults()), cats, world.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "world:", err)
		os.Exit(1)
	}
	if err := w.ImportSnapshot(snap); err != nil {
		fmt.Fprintln(os.Stderr, "import snapshot:", err)
		os.Exit(1)
	}

	startTick := w.CurrentTick()
	verifyFrom := *fromTick
	if verifyFrom == 0 {
		verifyFrom = startTick
	}

	files, err := persistlog.Files(*eventsDir, "events")
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found in", *eventsDir)
		os.Exit(1)
	}

	r := &replayer{w: w, startTick: startTick, verifyFrom: verifyFrom, toTick: *toTick}
	for _, path := range files {
		if err := r.replayFile(path); err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
		if r.done {
			break
		}
	}
	fmt.Printf("replay ok: checked=%d ticks (from snapshot tick=%d)\n", r.checked, snap.Header.Tick)
}

type replayer struct {
	w          *world.World
	startTick  uint64
	verifyFrom uint64
	toTick     uint64

	checked uint64
	done    bool
}

func (r *replayer) replayFile(path string) error {
	var stepErr error
	err := persistlog.ReadJSONL(path, func(entry world.TickLogEntry) bool {
		if entry.Tick < r.startTick {
			return true
		}
		if r.toTick != 0 && entry.Tick > r.toTick {
			r.done = true
			return false
		}
		stepErr = r.step(entry)
		return stepErr == nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if stepErr != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), stepErr)
	}
	return nil
}

func (r *replayer) step(entry world.TickLogEntry) error {
	if entry.Tick != r.w.CurrentTick() {
		return fmt.Errorf("tick mismatch: want=%d got=%d", r.w.CurrentTick(), entry.Tick)
	}

	joins := make([]world.JoinRequest, 0, len(entry.Joins))
	for _, j := range entry.Joins {
		pos := world.Vec3i{X: j.Pos[0], Y: j.Pos[1], Z: j.Pos[2]}
		joins = append(joins, world.JoinRequest{Name: j.Name, Pos: &pos})
	}
	acts := make([]world.ActionEnvelope, 0, len(entry.Actions))
	for _, ra := range entry.Actions {
		acts = append(acts, world.ActionEnvelope{PlayerID: ra.PlayerID, Act: ra.Act})
	}

	tick, gotDigest := r.w.StepOnce(joins, entry.Leaves, acts)
	if tick != entry.Tick {
		return fmt.Errorf("internal tick mismatch: stepped=%d entry=%d", tick, entry.Tick)
	}
	if tick >= r.verifyFrom {
		r.checked++
		if gotDigest != entry.Digest {
			return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, gotDigest, entry.Digest)
		}
	}
	return nil
}
