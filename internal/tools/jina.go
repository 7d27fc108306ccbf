package tools

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bobmcallan/toolgate/internal/config"
)

// JinaReader extracts the readable content of a page.
func JinaReader(cfg config.JinaConfig) Descriptor {
	return Descriptor{
		Name:        "reader",
		Description: "Extract the readable content of a web page as text via Jina Reader.",
		Params: []ParamSpec{
			{Name: "url", Type: TypeString, Required: true, Description: "URL of the page to read", RequiredMessage: "URL is required"},
			{Name: "token", Type: TypeString, Description: "Jina API key (optional)"},
			{Name: "noCache", Type: TypeBoolean, Default: false, Description: "Bypass the Jina cache"},
		},
		Service:  "Jina Reader API",
		Upstream: "jina_reader",
		Method:   http.MethodGet,
		Endpoint: func(a Args) (string, error) {
			return strings.TrimRight(cfg.ReaderURL, "/") + "/" + a.String("url"), nil
		},
		Auth:          AuthOptional,
		TokenParam:    "token",
		FallbackToken: cfg.APIKey,
		FlagHeaders: []FlagHeader{
			{Param: "noCache", Header: "X-No-Cache", Value: "true"},
		},
		Shape: ShapeText,
	}
}

// JinaSearch runs a web search.
func JinaSearch(cfg config.JinaConfig) Descriptor {
	return Descriptor{
		Name:        "search",
		Description: "Search the web via Jina Search.",
		Params: []ParamSpec{
			{Name: "query", Type: TypeString, Required: true, Description: "Search query", RequiredMessage: "Search query is required"},
			{Name: "token", Type: TypeString, Description: "Jina API key"},
			{Name: "noContent", Type: TypeBoolean, Default: true, Description: "Return result links without page content"},
		},
		Service:  "Jina Search API",
		Upstream: "jina_search",
		Method:   http.MethodGet,
		Endpoint: func(a Args) (string, error) {
			base, err := url.Parse(cfg.SearchURL)
			if err != nil {
				return "", fmt.Errorf("invalid search url: %w", err)
			}
			if base.Path == "" {
				base.Path = "/"
			}
			base.RawQuery = "q=" + encodeURIComponent(a.String("query"))
			return base.String(), nil
		},
		Auth:          AuthRequired,
		TokenParam:    "token",
		FallbackToken: cfg.APIKey,
		MissingToken:  "Bearer token is required for Jina Search API",
		FlagHeaders: []FlagHeader{
			{Param: "noContent", Header: "X-Respond-With", Value: "no-content"},
		},
		Shape: ShapeText,
	}
}

// encodeURIComponent escapes a query value with spaces as %20, leaving
// !'()* unescaped.
func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	return strings.NewReplacer(
		"+", "%20",
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
	).Replace(escaped)
}
