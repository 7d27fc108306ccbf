// Package tools is the tool invocation gateway: parameter schemas, upstream
// dispatch and the tagged Result every binding consumes.
package tools

import (
	"context"
	"fmt"

	"github.com/bobmcallan/toolgate/internal/common"
)

// Binding names used in Invocation.Binding and metrics labels.
const (
	BindingDirect = "direct"
	BindingMCP    = "mcp"
	BindingSSE    = "sse"
	BindingStdio  = "stdio"
)

// Handler runs a tool with validated arguments.
type Handler func(ctx context.Context, inv Invocation, a Args) Result

// ToolDefinition is one registered tool. It is immutable once registered.
type ToolDefinition struct {
	Name        string
	Description string
	Params      []ParamSpec
	Handler     Handler
}

// Invocation carries per-call metadata from the transport.
type Invocation struct {
	Binding       string
	Authenticated bool
	CorrelationID string
	RemoteAddr    string
	UserAgent     string
}

type invocationKey struct{}

// WithInvocation attaches inv to ctx.
func WithInvocation(ctx context.Context, inv Invocation) context.Context {
	return context.WithValue(ctx, invocationKey{}, inv)
}

// InvocationFrom returns the Invocation attached to ctx, if any.
func InvocationFrom(ctx context.Context) (Invocation, bool) {
	inv, ok := ctx.Value(invocationKey{}).(Invocation)
	return inv, ok
}

// Gateway owns the tool registry. Calls share no mutable state, so Call is
// safe for concurrent use once registration is done.
type Gateway struct {
	tools   map[string]ToolDefinition
	order   []string
	logger  *common.Logger
	metrics *Metrics
}

// NewGateway creates an empty gateway.
func NewGateway(logger *common.Logger, metrics *Metrics) *Gateway {
	return &Gateway{
		tools:   make(map[string]ToolDefinition),
		logger:  logger,
		metrics: metrics,
	}
}

// Register adds a tool. Names must be unique.
func (g *Gateway) Register(def ToolDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q has no handler", def.Name)
	}
	if _, exists := g.tools[def.Name]; exists {
		return fmt.Errorf("tool %q is already registered", def.Name)
	}
	g.tools[def.Name] = def
	g.order = append(g.order, def.Name)
	return nil
}

// Tools returns the registered tools in registration order.
func (g *Gateway) Tools() []ToolDefinition {
	out := make([]ToolDefinition, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.tools[name])
	}
	return out
}

// Lookup returns the named tool.
func (g *Gateway) Lookup(name string) (ToolDefinition, bool) {
	def, ok := g.tools[name]
	return def, ok
}

// Call validates raw against the tool's schema and runs it. Every failure
// is logged before it is returned.
func (g *Gateway) Call(ctx context.Context, inv Invocation, name string, raw map[string]interface{}) (res Result) {
	logger := g.logger
	if inv.CorrelationID != "" {
		logger = logger.WithCorrelationId(inv.CorrelationID)
	}

	defer func() {
		if r := recover(); r != nil {
			res = Fail(Unexpected("tool %s panicked: %v", name, r))
		}
		label := name
		if _, known := g.tools[name]; !known {
			label = "unknown"
		}
		g.metrics.ObserveCall(label, inv.Binding, res.Outcome())

		f := res.Failure()
		switch {
		case f == nil:
		case f.Kind == KindValidation:
			logger.Warn().Str("tool", name).Str("binding", inv.Binding).Str("error", f.Message).Msg("tool call rejected")
		default:
			logger.Error().Str("tool", name).Str("binding", inv.Binding).Str("kind", string(f.Kind)).Str("error", f.Message).Msg("tool call failed")
		}
	}()

	def, ok := g.tools[name]
	if !ok {
		return Fail(Invalidf("unknown tool %q", name))
	}

	args, f := Validate(def.Params, raw)
	if f != nil {
		return Fail(f)
	}

	ctx = WithInvocation(ctx, inv)
	logger.Debug().Str("tool", name).Str("binding", inv.Binding).Msg("tool call")
	return def.Handler(ctx, inv, args)
}
