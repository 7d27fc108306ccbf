package mcp

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/toolgate/internal/common"
	"github.com/bobmcallan/toolgate/internal/config"
	"github.com/bobmcallan/toolgate/internal/tools"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// unauthorizedMessage is returned for every rejected request so callers
// cannot tell which check failed.
const unauthorizedMessage = "Unauthorized: Missing or invalid access token"

// Handler is the HTTP handler for the stream binding. It gates the mount
// paths on the bearer secret, then delegates to mcp-go: the streamable
// transport at mcp_path and the SSE transport at sse_path.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	sse        *mcpserver.SSEServer
	gate       *AuthGate
	ssePath    string
	mcpPath    string
	logger     *common.Logger
}

// NewHandler creates the stream binding handler over the gateway's tools.
func NewHandler(cfg *config.Config, gw *tools.Gateway, logger *common.Logger) *Handler {
	mcpSrv := NewMCPServer(cfg.Gateway.Name, gw, logger)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
		mcpserver.WithEndpointPath(cfg.Gateway.MCPPath),
		mcpserver.WithHTTPContextFunc(invocationContext(tools.BindingMCP)),
	)

	sse := mcpserver.NewSSEServer(mcpSrv,
		mcpserver.WithSSEEndpoint(cfg.Gateway.SSEPath),
		mcpserver.WithMessageEndpoint(MessagePath(cfg.Gateway.SSEPath)),
		mcpserver.WithSSEContextFunc(invocationContext(tools.BindingSSE)),
		mcpserver.WithKeepAlive(true),
		mcpserver.WithKeepAliveInterval(30*time.Second),
	)

	logger.Info().
		Str("mcp_path", cfg.Gateway.MCPPath).
		Str("sse_path", cfg.Gateway.SSEPath).
		Int("tools", len(gw.Tools())).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		sse:        sse,
		gate:       NewAuthGate(cfg.Gateway.BearerSecret, cfg.Gateway.MCPPath, cfg.Gateway.SSEPath),
		ssePath:    cfg.Gateway.SSEPath,
		mcpPath:    cfg.Gateway.MCPPath,
		logger:     logger,
	}
}

// MessagePath is where SSE clients post their messages.
func MessagePath(ssePath string) string {
	return strings.TrimRight(ssePath, "/") + "/message"
}

// MountPaths returns the paths the handler must be registered on.
func (h *Handler) MountPaths() []string {
	return []string{h.mcpPath, h.ssePath, MessagePath(h.ssePath)}
}

// ServeHTTP rejects requests without the bearer secret before any session
// exists, then dispatches to the transport owning the path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.gate.Protects(r.URL.Path) && !h.gate.Allow(r) {
		h.logger.Warn().
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Msg("stream binding rejected unauthenticated request")
		writeUnauthorized(w)
		return
	}

	if underPath(r.URL.Path, h.ssePath) {
		h.sse.ServeHTTP(w, r)
		return
	}
	h.streamable.ServeHTTP(w, r)
}

// AuthGate checks the gateway bearer secret on requests under its prefixes.
type AuthGate struct {
	secret   []byte
	prefixes []string
}

// NewAuthGate creates a gate for the given mount prefixes. An empty secret
// rejects every request.
func NewAuthGate(secret string, prefixes ...string) *AuthGate {
	return &AuthGate{secret: []byte(secret), prefixes: prefixes}
}

// Protects reports whether path is under one of the gated prefixes.
func (g *AuthGate) Protects(path string) bool {
	for _, p := range g.prefixes {
		if underPath(path, p) {
			return true
		}
	}
	return false
}

// Allow reports whether r carries "Authorization: Bearer <secret>".
func (g *AuthGate) Allow(r *http.Request) bool {
	if len(g.secret) == 0 {
		return false
	}
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	token := []byte(strings.TrimPrefix(header, "Bearer "))
	return subtle.ConstantTimeCompare(token, g.secret) == 1
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedMessage))
}

// underPath reports whether path equals prefix or sits below it.
func underPath(path, prefix string) bool {
	prefix = strings.TrimRight(prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
