package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/toolgate/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Environment string               `toml:"environment"`
	Server      ServerConfig         `toml:"server"`
	Gateway     GatewayConfig        `toml:"gateway"`
	Upstreams   UpstreamsConfig      `toml:"upstreams"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// GatewayConfig contains settings for the tool gateway and its stream binding.
type GatewayConfig struct {
	Name            string `toml:"name"`
	BearerSecret    string `toml:"bearer_secret"`
	SSEPath         string `toml:"sse_path"`
	MCPPath         string `toml:"mcp_path"`
	UpstreamTimeout string `toml:"upstream_timeout"`
}

// GetUpstreamTimeout parses the upstream timeout, falling back to two minutes.
func (c *GatewayConfig) GetUpstreamTimeout() time.Duration {
	d, err := time.ParseDuration(c.UpstreamTimeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// UpstreamsConfig groups the third-party services tools forward to.
type UpstreamsConfig struct {
	Jina   JinaConfig   `toml:"jina"`
	Tavily TavilyConfig `toml:"tavily"`
	Image  ImageConfig  `toml:"image"`
}

// JinaConfig holds Jina Reader and Search settings.
// APIKey is only a fallback for calls that do not pass their own token.
type JinaConfig struct {
	ReaderURL string `toml:"reader_url"`
	SearchURL string `toml:"search_url"`
	APIKey    string `toml:"api_key"`
}

// TavilyConfig holds Tavily Search and Extract settings.
type TavilyConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// ImageConfig holds settings for the Workers AI image backend.
type ImageConfig struct {
	BaseURL   string `toml:"base_url"`
	AccountID string `toml:"account_id"`
	APIToken  string `toml:"api_token"`
	Model     string `toml:"model"`
}

// RunURL returns the model invocation endpoint.
func (c *ImageConfig) RunURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/accounts/" + c.AccountID + "/ai/run/" + c.Model
}

// IsDevMode reports whether the environment is set to dev.
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// Validate returns a list of problems with mandatory settings.
// The bearer secret is only mandatory when the stream binding is served.
func (c *Config) Validate(serveStream bool) []string {
	var issues []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if serveStream && c.Gateway.BearerSecret == "" {
		issues = append(issues, "gateway.bearer_secret is required (or set TOOLGATE_BEARER_SECRET)")
	}
	if !strings.HasPrefix(c.Gateway.SSEPath, "/") {
		issues = append(issues, fmt.Sprintf("gateway.sse_path %q must start with /", c.Gateway.SSEPath))
	}
	if !strings.HasPrefix(c.Gateway.MCPPath, "/") {
		issues = append(issues, fmt.Sprintf("gateway.mcp_path %q must start with /", c.Gateway.MCPPath))
	}
	if c.Gateway.SSEPath == c.Gateway.MCPPath {
		issues = append(issues, "gateway.sse_path and gateway.mcp_path must differ")
	}
	return issues
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadDotEnv loads KEY=value pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// applyEnvOverrides applies TOOLGATE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TOOLGATE_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("TOOLGATE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TOOLGATE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if secret := os.Getenv("TOOLGATE_BEARER_SECRET"); secret != "" {
		config.Gateway.BearerSecret = secret
	}
	if timeout := os.Getenv("TOOLGATE_UPSTREAM_TIMEOUT"); timeout != "" {
		config.Gateway.UpstreamTimeout = timeout
	}
	if key := os.Getenv("TOOLGATE_JINA_API_KEY"); key != "" {
		config.Upstreams.Jina.APIKey = key
	}
	if key := os.Getenv("TOOLGATE_TAVILY_API_KEY"); key != "" {
		config.Upstreams.Tavily.APIKey = key
	}
	if id := os.Getenv("TOOLGATE_IMAGE_ACCOUNT_ID"); id != "" {
		config.Upstreams.Image.AccountID = id
	}
	if token := os.Getenv("TOOLGATE_IMAGE_API_TOKEN"); token != "" {
		config.Upstreams.Image.APIToken = token
	}
	if level := os.Getenv("TOOLGATE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("TOOLGATE_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
