package service

import "time"

// Clock supplies the current time so deadline rules stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
