package config

import "github.com/bobmcallan/toolgate/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 8787,
			Host: "localhost",
		},
		Gateway: GatewayConfig{
			Name:            "toolgate",
			SSEPath:         "/sse",
			MCPPath:         "/mcp",
			UpstreamTimeout: "120s",
		},
		Upstreams: UpstreamsConfig{
			Jina: JinaConfig{
				ReaderURL: "https://r.jina.ai/",
				SearchURL: "https://s.jina.ai/",
			},
			Tavily: TavilyConfig{
				BaseURL: "https://api.tavily.com",
			},
			Image: ImageConfig{
				BaseURL: "https://api.cloudflare.com/client/v4",
				Model:   "@cf/black-forest-labs/flux-1-schnell",
			},
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/toolgate.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
