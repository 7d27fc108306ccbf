package tools

import (
	"context"
	"net/http"
)

// AuthStyle says how a tool sends its upstream credential.
type AuthStyle int

const (
	// AuthNone never sends an Authorization header.
	AuthNone AuthStyle = iota
	// AuthOptional sends the header only when a token resolves.
	AuthOptional
	// AuthRequired fails validation when no token resolves.
	AuthRequired
)

// FlagHeader sets Header: Value on the upstream request when the boolean
// parameter Param is true.
type FlagHeader struct {
	Param  string
	Header string
	Value  string
}

// Descriptor is the data that turns a generic dispatch into one specific
// upstream call.
type Descriptor struct {
	Name        string
	Description string
	Params      []ParamSpec

	// Service names the upstream in failure messages, e.g. "Jina Reader API".
	// Upstream is the short metrics label for the same service.
	Service  string
	Upstream string

	Method   string
	Endpoint func(a Args) (string, error)
	// Body returns the value sent as the JSON request body. Nil means no body.
	Body func(a Args) interface{}

	Auth AuthStyle
	// TokenParam is the parameter holding a per-call token. FallbackToken is
	// the configured key used when the caller passes none.
	TokenParam    string
	FallbackToken string
	MissingToken  string

	FlagHeaders []FlagHeader
	Shape       Shape
}

// UpstreamRequest is the outbound request derived from a descriptor and its
// validated arguments.
type UpstreamRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Tool binds the descriptor to a dispatcher.
func (d Descriptor) Tool(disp *Dispatcher) ToolDefinition {
	return ToolDefinition{
		Name:        d.Name,
		Description: d.Description,
		Params:      d.Params,
		Handler: func(ctx context.Context, inv Invocation, a Args) Result {
			return disp.Dispatch(ctx, d, a)
		},
	}
}

func (d Descriptor) token(a Args) string {
	if d.TokenParam != "" {
		if t := a.String(d.TokenParam); t != "" {
			return t
		}
	}
	return d.FallbackToken
}
