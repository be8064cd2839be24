package world

import "testing"

func TestDeterminism_FixedActionsSameDigest(t *testing.T) {
	run := func() []string {
		w := newTestWorld(t, Options{})
		pid, _ := joinAt(t, w, "alice", Vec3i{})
		w.SetTick(300)
		altarPos := Vec3i{X: 1}
		w.PlaceAltar(altarPos)
		w.SpawnCreatureAt(Vec3i{X: 3}, "SHEEP")

		var digests []string
		_, d := w.StepOnce(nil, nil, act(w, pid,
			interact("i1", altarPos, "IRON_INGOT", 4),
			interact("i2", altarPos, "RUBY", 1),
			interact("i3", altarPos, "BLAZE_ROD", 1),
		))
		digests = append(digests, d)
		for i := 0; i < 110; i++ {
			_, d := w.StepOnce(nil, nil, nil)
			digests = append(digests, d)
		}
		return digests
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("length mismatch")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("digest mismatch at step %d", i)
		}
	}
	if a[0] == a[len(a)-1] {
		t.Fatalf("digest should change as the ritual runs")
	}
}

func TestWeatherCycle(t *testing.T) {
	w := newTestWorld(t, Options{})
	w.cfg.Weather = WeatherCycle{RainEveryTicks: 10, RainLengthTicks: 5, ThunderEveryRains: 2}

	seen := map[uint64]string{}
	for i := 0; i < 25; i++ {
		tick, _ := w.StepOnce(nil, nil, nil)
		seen[tick] = w.Weather()
	}
	want := map[uint64]string{
		9:  WeatherClear,
		10: WeatherRain,
		14: WeatherRain,
		15: WeatherClear,
		20: WeatherThunder,
	}
	for tick, wx := range want {
		if seen[tick] != wx {
			t.Fatalf("tick %d: got %s want %s", tick, seen[tick], wx)
		}
	}
	if !w.IsRaining() || !w.IsThundering() {
		t.Fatalf("thunder implies rain")
	}
}

func TestSetWeather_ExpiresToClear(t *testing.T) {
	w := newTestWorld(t, Options{})
	if err := w.SetWeather(WeatherRain, 3); err != nil {
		t.Fatalf("set weather: %v", err)
	}
	steps(w, 2)
	if w.Weather() != WeatherRain {
		t.Fatalf("rain ended early")
	}
	steps(w, 2)
	if w.Weather() != WeatherClear {
		t.Fatalf("rain should expire: %s", w.Weather())
	}
	if err := w.SetWeather("HAIL", 0); err == nil {
		t.Fatalf("expected unknown weather error")
	}
}

func TestIsDay_FollowsClock(t *testing.T) {
	w := newTestWorld(t, Options{})
	w.SetTick(100)
	if w.IsDay() {
		t.Fatalf("tick 100 of 1000 is night")
	}
	w.SetTick(500)
	if !w.IsDay() {
		t.Fatalf("tick 500 of 1000 is day")
	}
	w.SetTick(1900)
	if w.IsDay() {
		t.Fatalf("tick 1900 wraps to night")
	}
}
