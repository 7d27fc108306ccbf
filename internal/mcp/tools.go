package mcp

import (
	"context"

	"github.com/bobmcallan/toolgate/internal/common"
	"github.com/bobmcallan/toolgate/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers every gateway tool on the MCP server.
func RegisterTools(s *server.MCPServer, gw *tools.Gateway) int {
	defs := gw.Tools()
	for _, def := range defs {
		s.AddTool(BuildMCPTool(def), toolHandler(gw, def.Name))
	}
	return len(defs)
}

// NewMCPServer creates the protocol server with all gateway tools
// registered and session lifecycle logging attached.
func NewMCPServer(name string, gw *tools.Gateway, logger *common.Logger) *server.MCPServer {
	hooks := &server.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, session server.ClientSession) {
		logger.Info().Str("session_id", session.SessionID()).Msg("mcp session connected")
	})
	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, res *mcp.InitializeResult) {
		logger.Info().
			Str("client", req.Params.ClientInfo.Name).
			Str("client_version", req.Params.ClientInfo.Version).
			Str("protocol", res.ProtocolVersion).
			Msg("mcp session initialized")
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		logger.Info().Str("session_id", session.SessionID()).Msg("mcp session closed")
	})

	s := server.NewMCPServer(
		name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
		server.WithRecovery(),
	)
	count := RegisterTools(s, gw)
	logger.Debug().Int("tools", count).Msg("mcp tools registered")
	return s
}
