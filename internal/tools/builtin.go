package tools

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bobmcallan/toolgate/internal/common"
	"github.com/bobmcallan/toolgate/internal/config"
)

// VersionInfo is the get_version payload.
type VersionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
	Tools   int    `json:"tools"`
}

// VersionTool reports the gateway version. It never calls an upstream and
// can be used to verify connectivity.
func VersionTool(name string, g *Gateway) ToolDefinition {
	return ToolDefinition{
		Name:        "get_version",
		Description: "Get the gateway version. Use this to verify connectivity.",
		Handler: func(ctx context.Context, inv Invocation, a Args) Result {
			out, err := json.Marshal(VersionInfo{
				Name:    name,
				Version: common.GetVersion(),
				Build:   common.GetBuild(),
				Commit:  common.GetGitCommit(),
				Tools:   len(g.order),
			})
			if err != nil {
				return Fail(Unexpected("failed to marshal version info: %v", err))
			}
			return Success(JSONPayload(out))
		},
	}
}

// Descriptors returns the upstream-backed tools for cfg in registration order.
func Descriptors(cfg *config.Config) []Descriptor {
	return []Descriptor{
		JinaReader(cfg.Upstreams.Jina),
		JinaSearch(cfg.Upstreams.Jina),
		TavilySearch(cfg.Upstreams.Tavily),
		TavilyExtract(cfg.Upstreams.Tavily),
		GenerateImage(cfg.Upstreams.Image),
	}
}

// NewBuiltinGateway creates a gateway with every tool registered once.
func NewBuiltinGateway(cfg *config.Config, client *http.Client, logger *common.Logger, metrics *Metrics) (*Gateway, error) {
	g := NewGateway(logger, metrics)
	disp := NewDispatcher(client, cfg.Gateway.GetUpstreamTimeout(), logger, metrics)

	for _, d := range Descriptors(cfg) {
		if err := g.Register(d.Tool(disp)); err != nil {
			return nil, err
		}
	}
	if err := g.Register(VersionTool(cfg.Gateway.Name, g)); err != nil {
		return nil, err
	}

	logger.Info().Int("tools", len(g.order)).Msg("tool gateway ready")
	return g, nil
}
