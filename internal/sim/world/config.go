package world

import "altarcraft.ai/internal/sim/tuning"

type WorldConfig struct {
	ID                 string
	TickRateHz         int
	DayTicks           int
	ChunkSize          int
	TrackingRadius     int
	AltarSlots         int
	ReachDistance      int
	SnapshotEveryTicks int

	Weather WeatherCycle

	// Starter items granted to newly joined players.
	StarterItems map[string]int
}

// WeatherCycle schedules rain every RainEveryTicks for RainLengthTicks;
// every ThunderEveryRains-th spell is a thunderstorm. Zero disables it.
type WeatherCycle struct {
	RainEveryTicks    int
	RainLengthTicks   int
	ThunderEveryRains int
}

func ConfigFromTuning(id string, t tuning.Tuning) WorldConfig {
	return WorldConfig{
		ID:                 id,
		TickRateHz:         t.TickRateHz,
		DayTicks:           t.DayTicks,
		ChunkSize:          t.ChunkSize,
		TrackingRadius:     t.TrackingRadius,
		AltarSlots:         t.AltarSlots,
		ReachDistance:      t.ReachDistance,
		SnapshotEveryTicks: t.SnapshotEveryTicks,
		Weather: WeatherCycle{
			RainEveryTicks:    t.Weather.RainEveryTicks,
			RainLengthTicks:   t.Weather.RainLengthTicks,
			ThunderEveryRains: t.Weather.ThunderEveryRains,
		},
		StarterItems: t.StarterItems,
	}
}

func (c *WorldConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = "world_1"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 20
	}
	if c.DayTicks <= 0 {
		c.DayTicks = 24000
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 16
	}
	if c.TrackingRadius < 0 {
		c.TrackingRadius = 0
	}
	if c.AltarSlots <= 0 {
		c.AltarSlots = 16
	}
	if c.ReachDistance <= 0 {
		c.ReachDistance = 6
	}
}
