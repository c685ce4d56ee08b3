package capture

import "time"

// Clock supplies the timestamps attached to LineEvents. Tests substitute a
// deterministic implementation.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}
