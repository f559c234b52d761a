package controller

import (
	"context"
	"net/http"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/serrors"
	"strconv"
	"time"

	"github.com/go-faster/jx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter is a fixed window request counter stored in Redis, shared by
// every API instance using the same Redis.
type RateLimiter struct {
	redis  redis.Cmdable
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window and key.
// A limit <= 0 disables limiting.
func NewRateLimiter(client redis.Cmdable, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}

	return &RateLimiter{redis: client, limit: limit, window: window}
}

// RateLimitStatus describes the window of a key after a request was counted.
type RateLimitStatus struct {
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

func rateLimitKey(key string) string {
	return "ratelimit:" + key
}

// Allow counts a request for key. It returns ErrRateLimited once the key used
// up its window and ErrUnavailable when Redis cannot be reached.
func (l *RateLimiter) Allow(ctx context.Context, key string) (RateLimitStatus, error) {
	status := RateLimitStatus{Limit: l.limit, Remaining: l.limit, ResetIn: l.window}
	if l.limit <= 0 {
		return status, nil
	}

	redisKey := rateLimitKey(key)
	count, err := l.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		return status, serrors.Wrap(serrors.ErrUnavailable, err, "could not count request")
	}

	if count == 1 {
		if err := l.redis.PExpire(ctx, redisKey, l.window).Err(); err != nil {
			return status, serrors.Wrap(serrors.ErrUnavailable, err, "could not set rate limit window")
		}
	} else if ttl, err := l.redis.PTTL(ctx, redisKey).Result(); err == nil && ttl > 0 {
		status.ResetIn = ttl
	}

	status.Remaining = max(0, l.limit-int(count))
	if count > int64(l.limit) {
		return status, serrors.With(serrors.ErrRateLimited, "rate limit exceeded, retry in %s", status.ResetIn.Round(time.Second))
	}

	return status, nil
}

// WithRateLimit returns a middleware limiting requests per key as returned by
// keyFn. Requests over the limit get 429 Too Many Requests. When Redis is not
// available requests are let through.
func WithRateLimit(next http.Handler, limiter *RateLimiter, keyFn func(r *http.Request) string) http.Handler {
	if limiter == nil || limiter.limit <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status, err := limiter.Allow(ctx, keyFn(r))
		if err != nil && serrors.KindOf(err) == serrors.ErrUnavailable {
			logger.Warn(ctx, "rate limiter unavailable", zap.Error(err))
			next.ServeHTTP(w, r)

			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(status.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(status.Remaining))
		if err != nil {
			w.Header().Set("Retry-After", strconv.Itoa(int(status.ResetIn.Round(time.Second).Seconds())))
			WriteError(w, http.StatusTooManyRequests, serrors.ErrRateLimited.Error(), serrors.MessageOf(err))

			return
		}

		next.ServeHTTP(w, r)
	})
}

// WriteError writes the JSON error body shared by all API responses.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
