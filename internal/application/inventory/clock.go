package inventory

import "time"

// Clock abstracts the current time so expiry logic can be tested
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
