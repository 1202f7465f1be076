package clock

import "time"

// FakeClock reports a fixed instant, normalized to UTC. Tests move it with
// Advance instead of sleeping.
type FakeClock struct {
	current time.Time
}

func NewFakeClock(at time.Time) *FakeClock {
	return &FakeClock{current: at.UTC()}
}

func (f *FakeClock) Now() time.Time {
	return f.current
}

// Advance shifts the reported instant by d.
func (f *FakeClock) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}
