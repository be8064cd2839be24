package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz         int `yaml:"tick_rate_hz"`
	DayTicks           int `yaml:"day_ticks"`
	ChunkSize          int `yaml:"chunk_size"`
	TrackingRadius     int `yaml:"tracking_radius"`
	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`

	AltarSlots    int            `yaml:"altar_slots"`
	ReachDistance int            `yaml:"reach_distance"`
	StarterItems  map[string]int `yaml:"starter_items"`

	Weather WeatherTuning `yaml:"weather"`
}

// WeatherTuning drives the host's own weather cycle. Zero periods leave the
// weather fixed until an admin changes it.
type WeatherTuning struct {
	RainEveryTicks    int `yaml:"rain_every_ticks"`
	RainLengthTicks   int `yaml:"rain_length_ticks"`
	ThunderEveryRains int `yaml:"thunder_every_rains"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:    "1.0",
		TickRateHz:         20,
		DayTicks:           24000,
		ChunkSize:          16,
		TrackingRadius:     4,
		SnapshotEveryTicks: 6000,
		AltarSlots:         16,
		ReachDistance:      6,
	}
}

// Load reads path over Defaults; fields absent from the file keep their
// default values.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.TickRateHz <= 0:
		return fmt.Errorf("tick_rate_hz must be > 0")
	case t.DayTicks <= 0:
		return fmt.Errorf("day_ticks must be > 0")
	case t.ChunkSize <= 0:
		return fmt.Errorf("chunk_size must be > 0")
	case t.TrackingRadius < 0:
		return fmt.Errorf("tracking_radius must be >= 0")
	case t.AltarSlots <= 0:
		return fmt.Errorf("altar_slots must be > 0")
	case t.ReachDistance <= 0:
		return fmt.Errorf("reach_distance must be > 0")
	case t.SnapshotEveryTicks < 0:
		return fmt.Errorf("snapshot_every_ticks must be >= 0")
	}
	return nil
}
