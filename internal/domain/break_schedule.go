package domain

import "time"

const (
	ShortBreakMinutes = 45
	DailyRestMinutes  = 11 * 60
)

// BreakSchedule is the set of mandatory stops for one trip's driving time.
// It is a value computed per request and has no identity of its own.
//
// TotalBreakMinutes always equals
// ShortBreakMinutes*ShortBreakCount + DailyRestMinutes*DailyRestCount.
type BreakSchedule struct {
	ShortBreakCount   int
	DailyRestCount    int
	TotalBreakMinutes int
	Description       string
}

// TotalStops counts short breaks and daily rests together.
func (b BreakSchedule) TotalStops() int {
	return b.ShortBreakCount + b.DailyRestCount
}

func (b BreakSchedule) BreakDuration() time.Duration {
	return time.Duration(b.TotalBreakMinutes) * time.Minute
}
