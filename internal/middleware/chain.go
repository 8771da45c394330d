package middleware

import (
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// Chain returns the router middleware in order, outermost first. Metrics wraps
// RecoverPanic so recovered panics are counted with their 500 status.
func Chain(serviceName string) []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{
		otelmux.Middleware(serviceName),
		Logging,
		Metrics,
		RecoverPanic,
	}
}
