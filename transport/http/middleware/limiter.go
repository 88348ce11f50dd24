package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"todoapi/shared/cache"
	"todoapi/shared/constant"
	"todoapi/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
)

// RateLimit counts requests per client in fixed windows. Requests pass
// through when the counter store is unavailable.
func (a *appMiddleware) RateLimit(next http.Handler) http.Handler {
	limiter := a.config.App.RateLimiter
	window := time.Duration(limiter.WindowSeconds) * time.Second

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !limiter.Enable {
			next.ServeHTTP(writer, request)

			return
		}

		key := cache.BuildKey(a.config.App.Name, cacheKeyRateLimit, a.getClientIP(request), a.getUA(request))

		count, err := a.cache.Increment(request.Context(), key, window)
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable, letting request through")
			next.ServeHTTP(writer, request)

			return
		}

		writer.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limiter.MaxRequests))
		writer.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(limiter.MaxRequests)-count), 10))
		writer.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limiter.WindowSeconds))

		if count > int64(limiter.MaxRequests) {
			response.WithRequestLimitExceeded(writer)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

func (a *appMiddleware) getUA(request *http.Request) string {
	ua := request.Header.Get(constant.RequestHeaderUserAgent)
	if ua == "" {
		ua = "unknown"
	}

	return ua
}

func (a *appMiddleware) getClientIP(request *http.Request) string {
	// X-Forwarded-For may carry a chain; the first hop is the client.
	if xff := request.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		if commaIdx := strings.Index(xff, ","); commaIdx > 0 {
			return strings.TrimSpace(xff[:commaIdx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := request.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	return request.RemoteAddr
}
