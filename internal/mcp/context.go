package mcp

import (
	"context"
	"net/http"

	"github.com/bobmcallan/toolgate/internal/tools"
)

// correlationHeader matches the header set by the server middleware.
const correlationHeader = "X-Correlation-ID"

// invocationContext returns a context func that attaches the per-call
// Invocation for the given binding. Requests only get this far once the
// auth gate has accepted them.
func invocationContext(binding string) func(ctx context.Context, r *http.Request) context.Context {
	return func(ctx context.Context, r *http.Request) context.Context {
		return tools.WithInvocation(ctx, tools.Invocation{
			Binding:       binding,
			Authenticated: true,
			CorrelationID: r.Header.Get(correlationHeader),
			RemoteAddr:    r.RemoteAddr,
			UserAgent:     r.UserAgent(),
		})
	}
}

// stdioContext tags calls arriving over stdio.
func stdioContext(ctx context.Context) context.Context {
	return tools.WithInvocation(ctx, tools.Invocation{Binding: tools.BindingStdio})
}
