package storage

import "time"

// Clock supplies the timestamps storage implementations stamp onto created
// and modified fields. It is injected so tests can control time; modified
// assignment must be monotonic per entity id.
type Clock interface {
	// NowMillis returns the current time in Unix milliseconds.
	NowMillis() int64
}

type systemClock struct{}

func (systemClock) NowMillis() int64 { return time.Now().UnixMilli() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }
