package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spamlookup/spamlookup-backend/internal/database"
	"github.com/spamlookup/spamlookup-backend/internal/services"
	"github.com/spamlookup/spamlookup-backend/pkg/clientip"
)

// ThrottlePolicy limits how often one caller may hit one endpoint group.
// DayLimit of 0 means no daily cap.
type ThrottlePolicy struct {
	Name     string
	Limit    int
	Window   time.Duration
	DayLimit int
}

// Per-endpoint throttle policies.
var (
	RegisterThrottle   = ThrottlePolicy{Name: "register", Limit: 10, Window: time.Hour}
	LoginThrottle      = ThrottlePolicy{Name: "login", Limit: 5, Window: time.Minute}
	LogoutThrottle     = ThrottlePolicy{Name: "logout", Limit: 20, Window: time.Minute}
	ContactThrottle    = ThrottlePolicy{Name: "contact", Limit: 10, Window: time.Minute}
	ReportSpamThrottle = ThrottlePolicy{Name: "report-spam", Limit: 10, Window: time.Minute, DayLimit: 50}
	SearchThrottle     = ThrottlePolicy{Name: "search", Limit: 1, Window: time.Minute, DayLimit: 200}
)

const throttleKeyPrefix = "throttle:"

// Throttle counts requests per caller against a policy in Redis and emits
// X-Throttle-* headers. Callers are keyed by session user when a valid token
// is presented, otherwise by client IP. Requests over the limit are rejected
// only when enforce is true; throttling also fails open when Redis is
// unavailable.
func Throttle(policy ThrottlePolicy, sessions services.SessionManager, enforce bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if database.RedisClient == nil {
				next.ServeHTTP(w, r)
				return
			}

			caller := clientip.RealClientIP(r)
			if token := ExtractBearerToken(r.Header.Get("Authorization")); token != "" {
				if userID, ok, _ := sessions.Validate(r.Context(), token); ok {
					caller = userID.String()
				}
			}

			ctx := r.Context()
			key := throttleKeyPrefix + policy.Name + ":" + caller

			count, err := database.RedisClient.Incr(ctx, key).Result()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				database.RedisClient.Expire(ctx, key, policy.Window)
			}

			remaining := int64(policy.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-Throttle-Limit", strconv.Itoa(policy.Limit))
			w.Header().Set("X-Throttle-Remaining", strconv.FormatInt(remaining, 10))

			over := count > int64(policy.Limit)

			if policy.DayLimit > 0 {
				dayKey := key + ":day"
				dayCount, err := database.RedisClient.Incr(ctx, dayKey).Result()
				if err == nil {
					if dayCount == 1 {
						database.RedisClient.Expire(ctx, dayKey, 24*time.Hour)
					}
					if dayCount > int64(policy.DayLimit) {
						over = true
					}
				}
			}

			if over && enforce {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(fmt.Sprintf(`{"detail":"Request was throttled. Try again in %d seconds."}`, int(policy.Window.Seconds()))))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
