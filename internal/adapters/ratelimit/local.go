package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Local enforces the per-endpoint budget inside a single process. One
// rate.Limiter per endpoint, shared by all goroutines; rate.Limiter does its
// own locking, the mutex only guards the map.
type Local struct {
	mu  sync.Mutex
	per map[string]*rate.Limiter
	rps int
}

func NewLocal(rps int) *Local {
	if rps <= 0 {
		rps = 2
	}
	return &Local{per: make(map[string]*rate.Limiter), rps: rps}
}

func (l *Local) limiterFor(endpoint string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.per[endpoint]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(l.rps), l.rps)
		l.per[endpoint] = lim
	}
	return lim
}

// Hit reserves a slot in the endpoint's budget. When the budget is spent the
// reservation is handed back and the caller gets the wait until a slot frees
// up; the request is not sent in that case.
func (l *Local) Hit(_ context.Context, endpoint string) (time.Duration, error) {
	r := l.limiterFor(endpoint).Reserve()
	if !r.OK() {
		return time.Second, nil
	}
	if d := r.Delay(); d > 0 {
		r.Cancel()
		return d, nil
	}
	return 0, nil
}
