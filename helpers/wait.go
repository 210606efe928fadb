package helpers

import (
	mathrand "math/rand"
	"time"
)

// Waiter inserts a politeness delay between network calls. It is the only
// intentional timing nondeterminism in the pipeline, so it sits behind an
// interface that tests replace with NopWaiter.
type Waiter interface {
	Wait()
}

// PoliteWaiter sleeps for a base duration plus random jitter. The jitter
// keeps repeated runs from producing identical request patterns.
type PoliteWaiter struct {
	Base   time.Duration
	Jitter time.Duration
	rnd    *mathrand.Rand
}

// NewPoliteWaiter creates a waiter with the given base and jitter window
func NewPoliteWaiter(base, jitter time.Duration) *PoliteWaiter {
	return &PoliteWaiter{
		Base:   base,
		Jitter: jitter,
		rnd:    mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks for base plus a random fraction of the jitter window
func (w *PoliteWaiter) Wait() {
	d := w.Base + time.Duration(w.rnd.Float64()*float64(w.Jitter))
	if d > 0 {
		time.Sleep(d)
	}
}

// NopWaiter disables politeness delays, for tests
type NopWaiter struct{}

// Wait returns immediately
func (NopWaiter) Wait() {}
