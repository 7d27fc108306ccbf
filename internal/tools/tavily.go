package tools

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/toolgate/internal/config"
)

// TavilySearchRequest is the body of POST /search.
type TavilySearchRequest struct {
	Query                    string      `json:"query"`
	Topic                    string      `json:"topic"`
	SearchDepth              string      `json:"search_depth"`
	MaxResults               int         `json:"max_results"`
	TimeRange                *string     `json:"time_range"`
	Days                     int         `json:"days"`
	IncludeAnswer            interface{} `json:"include_answer"` // bool, "basic" or "advanced"
	IncludeRawContent        bool        `json:"include_raw_content"`
	IncludeImages            bool        `json:"include_images"`
	IncludeImageDescriptions bool        `json:"include_image_descriptions"`
	IncludeDomains           []string    `json:"include_domains"`
	ExcludeDomains           []string    `json:"exclude_domains"`
}

// NewTavilySearchRequest builds the request body from validated arguments.
func NewTavilySearchRequest(a Args) TavilySearchRequest {
	req := TavilySearchRequest{
		Query:                    a.String("query"),
		Topic:                    a.String("options.topic"),
		SearchDepth:              a.String("options.searchDepth"),
		MaxResults:               a.Int("options.maxResults"),
		Days:                     a.Int("options.days"),
		IncludeAnswer:            a.Value("options.includeAnswer"),
		IncludeRawContent:        a.Bool("options.includeRawContent"),
		IncludeImages:            a.Bool("options.includeImages"),
		IncludeImageDescriptions: a.Bool("options.includeImageDescriptions"),
		IncludeDomains:           a.Strings("options.includeDomains"),
		ExcludeDomains:           a.Strings("options.excludeDomains"),
	}
	if tr := a.String("options.timeRange"); tr != "" {
		req.TimeRange = &tr
	}
	return req
}

// TavilyExtractRequest is the body of POST /extract.
type TavilyExtractRequest struct {
	URLs              interface{} `json:"urls"` // string or []string, as supplied
	IncludeImages     bool        `json:"include_images"`
	ExtractDepth      string      `json:"extract_depth"`
	IncludeRawContent bool        `json:"include_raw_content"`
}

// NewTavilyExtractRequest builds the request body from validated arguments.
func NewTavilyExtractRequest(a Args) TavilyExtractRequest {
	return TavilyExtractRequest{
		URLs:              a.Value("urls"),
		IncludeImages:     a.Bool("options.includeImages"),
		ExtractDepth:      a.String("options.extractDepth"),
		IncludeRawContent: a.Bool("options.includeRawContent"),
	}
}

var tavilySearchOptions = []ParamSpec{
	{Name: "topic", Type: TypeEnum, Enum: []string{"general", "news"}, Default: "general", Description: "Search category"},
	{Name: "searchDepth", Type: TypeEnum, Enum: []string{"basic", "advanced"}, Default: "basic", Description: "Search depth"},
	{Name: "maxResults", Type: TypeNumber, Integer: true, Default: float64(5), Min: Bound(0), Max: Bound(20), Description: "Maximum number of results (0-20)"},
	{Name: "timeRange", Type: TypeEnum, Enum: []string{"day", "week", "month", "year", "d", "w", "m", "y"}, Description: "Time range filter"},
	{Name: "days", Type: TypeNumber, Integer: true, Default: float64(3), Description: "Days back from today, for the news topic"},
	{Name: "includeAnswer", Type: TypeBoolOrEnum, Enum: []string{"basic", "advanced"}, Default: false, Description: "Include a generated answer: true/false or basic/advanced"},
	{Name: "includeRawContent", Type: TypeBoolean, Default: false, Description: "Include the raw content of each result"},
	{Name: "includeImages", Type: TypeBoolean, Default: false, Description: "Include image results"},
	{Name: "includeImageDescriptions", Type: TypeBoolean, Default: false, Description: "Include descriptions for images"},
	{Name: "includeDomains", Type: TypeStringList, Default: []string{}, Description: "Domains to include"},
	{Name: "excludeDomains", Type: TypeStringList, Default: []string{}, Description: "Domains to exclude"},
}

var tavilyExtractOptions = []ParamSpec{
	{Name: "includeImages", Type: TypeBoolean, Default: false, Description: "Include images found on the pages"},
	{Name: "extractDepth", Type: TypeEnum, Enum: []string{"basic", "advanced"}, Default: "basic", Description: "Extraction depth"},
	{Name: "includeRawContent", Type: TypeBoolean, Default: false, Description: "Include raw page content"},
}

// TavilySearch runs a Tavily web search.
func TavilySearch(cfg config.TavilyConfig) Descriptor {
	return Descriptor{
		Name:        "tavily_search",
		Description: "Search the web via Tavily and return the JSON results.",
		Params: []ParamSpec{
			{Name: "query", Type: TypeString, Required: true, Description: "Search query", RequiredMessage: "Search query is required"},
			{Name: "token", Type: TypeString, Description: "Tavily API key; the configured key is used when omitted"},
			{Name: "options", Type: TypeObject, Fields: tavilySearchOptions, Description: "Search options"},
		},
		Service:  "Tavily Search API",
		Upstream: "tavily_search",
		Method:   http.MethodPost,
		Endpoint: func(a Args) (string, error) {
			return strings.TrimRight(cfg.BaseURL, "/") + "/search", nil
		},
		Body: func(a Args) interface{} {
			return NewTavilySearchRequest(a)
		},
		Auth:          AuthRequired,
		TokenParam:    "token",
		FallbackToken: cfg.APIKey,
		MissingToken:  "API key is required for Tavily Search API",
		Shape:         ShapeJSON,
	}
}

// TavilyExtract extracts content from one or more URLs via Tavily.
func TavilyExtract(cfg config.TavilyConfig) Descriptor {
	return Descriptor{
		Name:        "tavily_extract",
		Description: "Extract content from one or more URLs via Tavily and return the JSON results.",
		Params: []ParamSpec{
			{Name: "urls", Type: TypeStringOrList, Required: true, Description: "URL or list of URLs to extract", RequiredMessage: "URLs are required"},
			{Name: "token", Type: TypeString, Description: "Tavily API key; the configured key is used when omitted"},
			{Name: "options", Type: TypeObject, Fields: tavilyExtractOptions, Description: "Extract options"},
		},
		Service:  "Tavily Extract API",
		Upstream: "tavily_extract",
		Method:   http.MethodPost,
		Endpoint: func(a Args) (string, error) {
			return strings.TrimRight(cfg.BaseURL, "/") + "/extract", nil
		},
		Body: func(a Args) interface{} {
			return NewTavilyExtractRequest(a)
		},
		Auth:          AuthRequired,
		TokenParam:    "token",
		FallbackToken: cfg.APIKey,
		MissingToken:  "API key is required for Tavily Extract API",
		Shape:         ShapeJSON,
	}
}
