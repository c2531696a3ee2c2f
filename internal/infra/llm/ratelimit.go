package llm

import (
	"sync"

	"golang.org/x/time/rate"
)

// limiterSet hands out one token bucket per provider so that every model on
// the same account shares the provider's request budget.
type limiterSet struct {
	rps   float64
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newLimiterSet(rps float64, burst int) *limiterSet {
	return &limiterSet{
		rps:      rps,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// get returns provider's limiter, or nil when throttling is disabled.
func (s *limiterSet) get(provider string) *rate.Limiter {
	if s.rps <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[provider]
	if !ok {
		l = rate.NewLimiter(rate.Limit(s.rps), s.burst)
		s.limiters[provider] = l
	}
	return l
}
