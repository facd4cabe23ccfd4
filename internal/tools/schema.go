package tools

import (
	"fmt"
	"strings"

	"github.com/user/shopchat/internal/config"
	"github.com/user/shopchat/internal/llmtypes"
)

// SchemaMode selects how parameter schemas are attached to tool definitions
type SchemaMode string

const (
	// SchemaPerTool gives every tool an object schema with only its own params
	SchemaPerTool SchemaMode = "per_tool"

	// SchemaShared flattens every tool's params into one object schema that
	// all tools share. A later tool's param overwrites an earlier one with the
	// same name, and required is the union across tools.
	SchemaShared SchemaMode = "shared"
)

// ParseSchemaMode converts a config value, defaulting to SchemaPerTool
func ParseSchemaMode(s string) (SchemaMode, error) {
	switch SchemaMode(config.NormalizeSchemaMode(s)) {
	case SchemaPerTool:
		return SchemaPerTool, nil
	case SchemaShared:
		return SchemaShared, nil
	default:
		return "", fmt.Errorf("unsupported schema mode '%s' (supported: %s, %s)", s, SchemaPerTool, SchemaShared)
	}
}

// BuildDefinitions converts the registry into provider-facing tool definitions
func BuildDefinitions(reg *Registry, mode SchemaMode) []llmtypes.ToolDefinition {
	defs := make([]llmtypes.ToolDefinition, 0, reg.Len())

	var shared []Param
	var sharedRequired []string
	if mode == SchemaShared {
		shared, sharedRequired = flattenParams(reg)
	}

	for _, tool := range reg.tools {
		var schema map[string]interface{}
		if mode == SchemaShared {
			schema = objectSchema(shared, sharedRequired)
		} else {
			schema = objectSchema(tool.Params(), requiredNames(tool.Params()))
		}

		defs = append(defs, llmtypes.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  schema,
		})
	}

	return defs
}

// flattenParams merges all params in registry order. The surviving entry for
// a repeated name is the last one seen. required lists every name some tool
// requires, in first-seen order without duplicates.
func flattenParams(reg *Registry) ([]Param, []string) {
	var order []string
	merged := make(map[string]Param)
	var required []string
	isRequired := make(map[string]bool)

	for _, tool := range reg.tools {
		for _, p := range tool.Params() {
			if _, exists := merged[p.Name]; !exists {
				order = append(order, p.Name)
			}
			merged[p.Name] = p

			if p.Required && !isRequired[p.Name] {
				isRequired[p.Name] = true
				required = append(required, p.Name)
			}
		}
	}

	params := make([]Param, len(order))
	for i, name := range order {
		params[i] = merged[name]
	}
	return params, required
}

func requiredNames(params []Param) []string {
	var names []string
	for _, p := range params {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

func objectSchema(params []Param, required []string) map[string]interface{} {
	properties := make(map[string]interface{}, len(params))
	for _, p := range params {
		prop := map[string]interface{}{
			"type": string(p.Kind),
		}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
	}

	req := make([]string, len(required))
	copy(req, required)

	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"required":             req,
		"additionalProperties": false,
	}
}

// Enumerate renders the registry for prompts: "1. name(a, b) 2. other(c)"
func Enumerate(reg *Registry) string {
	parts := make([]string, len(reg.tools))
	for i, tool := range reg.tools {
		names := make([]string, len(tool.Params()))
		for j, p := range tool.Params() {
			names[j] = p.Name
		}
		parts[i] = fmt.Sprintf("%d. %s(%s)", i+1, tool.Name(), strings.Join(names, ", "))
	}
	return strings.Join(parts, " ")
}
