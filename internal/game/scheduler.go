package game

import "time"

// Scheduler arms deferred callbacks. Rooms use it for phase deadlines, bot
// thinking delays and the inter-round advance; tests substitute a manual
// implementation to fire callbacks deterministically.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) CancelFunc
}

// CancelFunc stops a pending callback. Cancellation is best effort: a
// callback that already fired (or is firing) re-enters the room and is
// discarded there by the generation guard.
type CancelFunc func()

type realScheduler struct{}

// NewScheduler returns the production Scheduler backed by time.AfterFunc.
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, f func()) CancelFunc {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}
