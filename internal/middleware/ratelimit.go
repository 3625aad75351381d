package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"GO2GETHER_PLANNER/internal/config"
	"GO2GETHER_PLANNER/internal/utils"
)

const visitorIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per authenticated user
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[uuid.UUID]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter builds a limiter from GENERATION_RATE_PER_MINUTE and
// GENERATION_RATE_BURST
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[uuid.UUID]*visitor),
		limit:    rate.Limit(cfg.GenerationsPerMinute / 60),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(userID uuid.UUID) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// forget idle users
	for id, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorIdle {
			delete(rl.visitors, id)
		}
	}

	v, ok := rl.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[userID] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Limit must run after AuthMiddleware
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := utils.GetUserIDFromContext(r.Context())
		if !ok {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
			return
		}

		res := rl.getLimiter(userID).ReserveN(rl.now(), 1)
		if !res.OK() {
			utils.WriteErrorResponse(w, http.StatusTooManyRequests, "Too many requests", "generation rate limit exceeded")
			return
		}
		if delay := res.DelayFrom(rl.now()); delay > 0 {
			res.CancelAt(rl.now())
			w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
			utils.WriteErrorResponse(w, http.StatusTooManyRequests, "Too many requests", "generation rate limit exceeded")
			return
		}

		next(w, r)
	}
}
