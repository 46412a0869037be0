package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"collabBoard/internal/errs"
	"collabBoard/internal/logging"
	"collabBoard/internal/models"
	"collabBoard/internal/msgs"
	"collabBoard/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// MustAuthenticateMiddleware accepts "Authorization: Bearer <jwt>" and stores
// the caller's identity on the context.
func MustAuthenticateMiddleware(secret []byte) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := utils.BearerToken(ctx.GetHeader("Authorization"))
		if token == "" {
			authRejections.WithLabelValues("missing_token").Inc()
			abortWithError(ctx, errs.ErrMissingToken)
			return
		}

		claims, err := utils.VerifyToken(token, secret)
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, errs.ErrExpiredToken) {
				reason = "expired_token"
			}
			authRejections.WithLabelValues(reason).Inc()
			abortWithError(ctx, errs.ErrInvalidToken)
			return
		}

		utils.SetIdentity(ctx, claims.ToIdentity())
		ctx.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		idle:     3 * time.Minute,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !rl.getLimiter(ctx.ClientIP()).Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, models.Response{
				Success: false,
				Message: msgs.MsgTooManyRequests,
			})
			return
		}
		ctx.Next()
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup forgets idle visitors every minute until ctx is done.
func (rl *RateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evictIdle(time.Now())
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, ip)
		}
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		event := logging.Info()
		if status >= http.StatusInternalServerError {
			event = logging.Error()
		}
		event.
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", ctx.ClientIP()).
			Msg("request")
	}
}
