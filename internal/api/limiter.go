package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	redispkg "github.com/SKuytov/SVP/pkg/redis"
)

const (
	localIdleTTL       = 10 * time.Minute
	localSweepInterval = time.Minute
)

// RateLimiter enforces the per-client API budget. The Redis sliding window is
// shared across API processes; without Redis, or when Redis fails, a per-IP
// token bucket is used.
type RateLimiter struct {
	shared *redispkg.RateLimiter // nil = 프로세스 내 제한만
	rps    float64
	burst  int

	mu        sync.Mutex
	local     map[string]*localLimiter
	lastSweep time.Time
	now       func() time.Time

	logger zerolog.Logger
}

type localLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter; shared may be nil
func NewRateLimiter(shared *redispkg.RateLimiter, rps float64, burst int, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		shared: shared,
		rps:    rps,
		burst:  burst,
		local:  make(map[string]*localLimiter),
		now:    time.Now,
		logger: log.With().Str("component", "api.ratelimit").Logger(),
	}
}

// Allow reports whether client may make one more request; when it may not,
// wait is how long until it can
func (l *RateLimiter) Allow(ctx context.Context, client string) (ok bool, wait time.Duration) {
	if l.shared != nil {
		d, err := l.shared.Allow(ctx, redispkg.ClientRateLimit(client, l.rps, l.burst))
		if err == nil {
			return d.Allowed, d.RetryAfter
		}
		l.logger.Warn().Err(err).Str("client", client).Msg("Shared rate limit failed, using local limiter")
	}
	return l.allowLocal(client)
}

func (l *RateLimiter) allowLocal(client string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > localSweepInterval {
		for k, e := range l.local {
			if now.Sub(e.lastSeen) > localIdleTTL {
				delete(l.local, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.local[client]
	if !ok {
		e = &localLimiter{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.local[client] = e
	}
	e.lastSeen = now

	res := e.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Second
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// trackedClients is the number of in-process buckets
func (l *RateLimiter) trackedClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.local)
}
