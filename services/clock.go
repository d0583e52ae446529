package services

import "time"

// Clock abstracts time.Now so the sweeper and lifecycle timestamps can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
