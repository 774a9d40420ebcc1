package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// OpsMiddleware is the middleware chain for the operational HTTP surface
// (metrics and job health). The port is not public, but it is exposed to the
// cluster, so the stack still carries recovery, timeouts and a rate limit.
func OpsMiddleware() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(15 * time.Second),
		httprate.Limit(120, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
	}
}
