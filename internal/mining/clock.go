package mining

import "time"

// Clock supplies the timestamps used to measure a run.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
