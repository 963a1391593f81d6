package middleware

import (
	"net"
	"net/http"

	rl "github.com/rogerio-castellano/catalog-service/internal/http/rate_limiter"
	"github.com/sirupsen/logrus"
)

// RateLimit answers 429 once a client exceeds its token bucket. Clients are
// keyed by remote IP, so it should run after chi's RealIP middleware.
func RateLimit(visitors *rl.Visitors, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !visitors.GetVisitor(ip).Allow() {
				log.WithFields(logrus.Fields{"ip": ip, "path": r.URL.Path}).Warn("rate limit exceeded")
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
