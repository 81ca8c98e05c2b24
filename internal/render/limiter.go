package render

import "context"

// Limiter bounds the number of concurrent browser processes.
type Limiter struct {
	slots chan struct{}
}

func NewLimiter(n int) *Limiter {
	if n < 1 {
		n = 1
	}
	return &Limiter{slots: make(chan struct{}, n)}
}

// Acquire blocks until a slot is free or ctx is done. The returned func
// releases the slot and must be called exactly once.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	select {
	case l.slots <- struct{}{}:
		return func() { <-l.slots }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// InUse reports how many slots are held.
func (l *Limiter) InUse() int {
	return len(l.slots)
}
