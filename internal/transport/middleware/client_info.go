package middleware

import (
	"net"
	"net/http"

	"github.com/frahmantamala/company-management/internal"
)

// ClientInfo stores the caller address and user agent on the request context
// so audit entries can record them. Run it after chi's RealIP.
func ClientInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		ctx := internal.ContextWithClientInfo(r.Context(), internal.ClientInfo{
			IPAddress: ip,
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
