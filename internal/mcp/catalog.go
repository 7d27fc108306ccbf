package mcp

import (
	"github.com/bobmcallan/toolgate/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
)

// BuildMCPTool converts a gateway tool into an mcp.Tool with the matching
// input schema.
func BuildMCPTool(def tools.ToolDefinition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
	for _, p := range def.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(def.Name, opts...)
}

// buildParamOption maps a ParamSpec to the appropriate mcp-go tool option.
func buildParamOption(p tools.ParamSpec) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case tools.TypeNumber:
		if n, ok := p.Default.(float64); ok {
			opts = append(opts, mcp.DefaultNumber(n))
		}
		if p.Min != nil {
			opts = append(opts, mcp.Min(*p.Min))
		}
		if p.Max != nil {
			opts = append(opts, mcp.Max(*p.Max))
		}
		if p.Integer {
			opts = append(opts, func(schema map[string]any) { schema["type"] = "integer" })
		}
		return mcp.WithNumber(p.Name, opts...)
	case tools.TypeBoolean:
		if b, ok := p.Default.(bool); ok {
			opts = append(opts, mcp.DefaultBool(b))
		}
		return mcp.WithBoolean(p.Name, opts...)
	case tools.TypeStringList:
		opts = append([]mcp.PropertyOption{mcp.WithStringItems()}, opts...)
		if list, ok := p.Default.([]string); ok {
			opts = append(opts, mcp.DefaultArray(list))
		}
		return mcp.WithArray(p.Name, opts...)
	case tools.TypeObject:
		opts = append(opts, mcp.Properties(objectProperties(p.Fields)))
		return mcp.WithObject(p.Name, opts...)
	case tools.TypeStringOrList, tools.TypeBoolOrEnum:
		opts = append(opts, withSchema(propertySchema(p)))
		return mcp.WithAny(p.Name, opts...)
	case tools.TypeEnum:
		opts = append(opts, mcp.Enum(p.Enum...))
		if s, ok := p.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(s))
		}
		return mcp.WithString(p.Name, opts...)
	default:
		if s, ok := p.Default.(string); ok {
			opts = append(opts, mcp.DefaultString(s))
		}
		return mcp.WithString(p.Name, opts...)
	}
}

// objectProperties builds the JSON schema properties of a nested object.
func objectProperties(fields []tools.ParamSpec) map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f.Name] = propertySchema(f)
	}
	return props
}

// propertySchema renders one ParamSpec as a JSON schema fragment.
func propertySchema(p tools.ParamSpec) map[string]any {
	schema := map[string]any{}
	if p.Description != "" {
		schema["description"] = p.Description
	}
	if p.Default != nil {
		schema["default"] = p.Default
	}

	switch p.Type {
	case tools.TypeNumber:
		schema["type"] = "number"
		if p.Integer {
			schema["type"] = "integer"
		}
		if p.Min != nil {
			schema["minimum"] = *p.Min
		}
		if p.Max != nil {
			schema["maximum"] = *p.Max
		}
	case tools.TypeBoolean:
		schema["type"] = "boolean"
	case tools.TypeStringList:
		schema["type"] = "array"
		schema["items"] = map[string]any{"type": "string"}
	case tools.TypeStringOrList:
		schema["anyOf"] = []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		}
	case tools.TypeBoolOrEnum:
		schema["anyOf"] = []any{
			map[string]any{"type": "boolean"},
			map[string]any{"type": "string", "enum": p.Enum},
		}
	case tools.TypeEnum:
		schema["type"] = "string"
		schema["enum"] = p.Enum
	case tools.TypeObject:
		schema["type"] = "object"
		schema["properties"] = objectProperties(p.Fields)
	default:
		schema["type"] = "string"
	}
	return schema
}

// withSchema copies a prebuilt schema fragment into a property.
func withSchema(fragment map[string]any) mcp.PropertyOption {
	return func(schema map[string]any) {
		for k, v := range fragment {
			if _, set := schema[k]; !set {
				schema[k] = v
			}
		}
	}
}
