package altar

// SacrificeBatch is one requirement's captured kill targets.
type SacrificeBatch struct {
	Creatures []Creature
}

// CheckPreconditions validates recipe against the world around pos. It
// short-circuits in the order sacrifices, floor block, day time, weather.
// On success it returns the kill targets, one batch per sacrifice entry.
func CheckPreconditions(r *Recipe, w World, pos Vec3i, actor string) ([]SacrificeBatch, error) {
	batches, err := checkSacrifices(r.Sacrifices, w, pos, actor)
	if err != nil {
		return nil, err
	}
	if err := checkEnvironment(r, w, pos); err != nil {
		return nil, err
	}
	return batches, nil
}

// checkEnvironment covers everything but sacrifices; resumed rituals have
// already paid those.
func checkEnvironment(r *Recipe, w World, pos Vec3i) error {
	if r.BlockBelow != nil && !r.BlockBelow.Test(w.BlockAt(pos.Below())) {
		return reject(ReasonBlockBelow)
	}
	if !checkDayTime(r.DayTime, w) {
		if r.DayTime == DayTimeDay {
			return reject(ReasonNoDay)
		}
		return reject(ReasonNoNight)
	}
	if !checkWeather(r.Weather, w) {
		switch r.Weather {
		case WeatherSun:
			return reject(ReasonNoSun)
		case WeatherRain:
			return reject(ReasonNoRain)
		default:
			return reject(ReasonNoThunder)
		}
	}
	return nil
}

func checkSacrifices(s Sacrifices, w World, pos Vec3i, actor string) ([]SacrificeBatch, error) {
	if s.Empty() {
		return []SacrificeBatch{}, nil
	}
	found := w.CreaturesIn(s.Region(pos), actor)
	batches := make([]SacrificeBatch, 0, len(s.Entries))
	taken := map[string]struct{}{}
	for _, entry := range s.Entries {
		var picked []Creature
		for _, c := range found {
			if len(picked) == entry.Count {
				break
			}
			if _, dup := taken[c.ID]; dup {
				continue
			}
			if entry.Creature.Test(c) {
				picked = append(picked, c)
				taken[c.ID] = struct{}{}
			}
		}
		if len(picked) < entry.Count {
			return nil, reject(ReasonSacrifices)
		}
		batches = append(batches, SacrificeBatch{Creatures: picked})
	}
	return batches, nil
}

func checkDayTime(d DayTime, w World) bool {
	switch d {
	case DayTimeDay:
		return w.IsDay()
	case DayTimeNight:
		return !w.IsDay()
	default:
		return true
	}
}

func checkWeather(x Weather, w World) bool {
	switch x {
	case WeatherRain:
		return w.IsRaining()
	case WeatherThunder:
		return w.IsThundering()
	case WeatherSun:
		return !w.IsRaining() && !w.IsThundering()
	default:
		return true
	}
}
