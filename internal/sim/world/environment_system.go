package world

// systemWeather advances the rain cycle. An admin weather override with an
// end tick reverts to clear when it expires.
func (w *World) systemWeather(nowTick uint64) {
	if w.weatherUntilTick != 0 && nowTick >= w.weatherUntilTick {
		w.weather = WeatherClear
		w.weatherUntilTick = 0
	}
	c := w.cfg.Weather
	if c.RainEveryTicks <= 0 || c.RainLengthTicks <= 0 || nowTick == 0 {
		return
	}
	if nowTick%uint64(c.RainEveryTicks) != 0 || w.weather != WeatherClear {
		return
	}
	w.rains++
	w.weather = WeatherRain
	if c.ThunderEveryRains > 0 && w.rains%uint64(c.ThunderEveryRains) == 0 {
		w.weather = WeatherThunder
	}
	w.weatherUntilTick = nowTick + uint64(c.RainLengthTicks)
}
