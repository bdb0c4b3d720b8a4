package middleware

import (
	"net/http"
	"sync"

	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// KeyedRateLimiter hands out one token bucket per key.
type KeyedRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit // requests per second
	b        int        // burst
}

func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		b:        b,
	}
}

func (k *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	limiter, exists := k.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(k.r, k.b)
		k.limiters[key] = limiter
	}

	return limiter
}

// RateLimitByEmployee limits requests per employee_id claim. Requests
// without an employee pass through; the handler rejects them.
func RateLimitByEmployee(r rate.Limit, b int) func(http.Handler) http.Handler {
	limiter := NewKeyedRateLimiter(r, b)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			employeeID := EmployeeID(req.Context())
			if employeeID != "" && !limiter.GetLimiter(employeeID).Allow() {
				response.TooManyRequests(w, "Too many requests, please slow down")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
