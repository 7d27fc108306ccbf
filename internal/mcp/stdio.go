package mcp

import (
	"context"
	"io"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ServeStdio serves s over the given reader and writer until ctx is
// cancelled or the input closes. No auth gate applies: the caller owns
// the process.
func ServeStdio(ctx context.Context, s *mcpserver.MCPServer, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(s)
	stdio.SetContextFunc(stdioContext)
	return stdio.Listen(ctx, in, out)
}
