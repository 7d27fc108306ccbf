package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/bobmcallan/toolgate/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// toCallToolResult maps a gateway Result onto the MCP result envelope.
// JSON payloads are re-indented so clients show them readably.
func toCallToolResult(res tools.Result) *mcp.CallToolResult {
	if f := res.Failure(); f != nil {
		return errorResult(f.Message)
	}

	p := res.Payload()
	switch p.Shape {
	case tools.ShapeJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, p.Body, "", "  "); err != nil {
			return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(p.Text())}}
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(buf.String())}}
	case tools.ShapeImage:
		data := base64.StdEncoding.EncodeToString(p.Body)
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewImageContent(data, p.ContentType)}}
	default:
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(p.Text())}}
	}
}

// toolHandler routes an MCP tool call through the gateway. Failures come
// back as IsError results so the session stays up.
func toolHandler(gw *tools.Gateway, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		inv, ok := tools.InvocationFrom(ctx)
		if !ok {
			inv = tools.Invocation{Binding: tools.BindingStdio}
		}
		return toCallToolResult(gw.Call(ctx, inv, name, r.GetArguments())), nil
	}
}
