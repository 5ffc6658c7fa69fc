package assistant

import "time"

// CurrentSeason returns the Dutch name of the current calendar season,
// northern hemisphere.
func CurrentSeason() string {
	switch m := time.Now().Month(); {
	case m >= time.March && m <= time.May:
		return "lente"
	case m >= time.June && m <= time.August:
		return "zomer"
	case m >= time.September && m <= time.November:
		return "herfst"
	default:
		return "winter"
	}
}
