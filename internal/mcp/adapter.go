package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"varta/internal/function"
)

// AdaptTool turns a remote MCP tool into a registry definition. The name is
// namespaced "<server>_<tool>" to keep servers from colliding, and the
// provider's input schema is exposed raw: the server validates its own
// arguments, so local coercion stays out of the way.
func AdaptTool(client *Client, mcpTool *mcp.Tool) function.Definition {
	namespaced := fmt.Sprintf("%s_%s", client.Name(), mcpTool.Name)

	desc := mcpTool.Description
	if desc == "" {
		desc = fmt.Sprintf("MCP tool from %s server", client.Name())
	}

	return function.Definition{
		Name:        namespaced,
		Description: fmt.Sprintf("%s\n\n[MCP Server: %s]", desc, client.Name()),
		Category:    function.CategoryExternal,
		RawSchema:   inputSchema(mcpTool),
		Handler: function.HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			result, err := client.CallTool(ctx, mcpTool.Name, args)
			if err != nil {
				return nil, fmt.Errorf("MCP tool execution failed: %w", err)
			}
			if result.IsError {
				return nil, fmt.Errorf("%s", formatError(result))
			}

			return map[string]any{
				"output":     formatContent(result.Content),
				"mcp_server": client.Name(),
				"mcp_tool":   mcpTool.Name,
			}, nil
		}),
	}
}

// inputSchema converts the SDK's loosely-typed input schema to a map,
// falling back to an empty object schema.
func inputSchema(mcpTool *mcp.Tool) map[string]any {
	empty := map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}

	if mcpTool.InputSchema == nil {
		return empty
	}

	if schema, ok := mcpTool.InputSchema.(map[string]any); ok {
		return schema
	}

	schemaBytes, err := json.Marshal(mcpTool.InputSchema)
	if err != nil {
		return empty
	}

	var schema map[string]any
	if err := json.Unmarshal(schemaBytes, &schema); err != nil {
		return empty
	}
	return schema
}

// formatContent converts an MCP content array to text.
func formatContent(content []mcp.Content) string {
	var parts []string

	for _, item := range content {
		switch c := item.(type) {
		case *mcp.TextContent:
			parts = append(parts, c.Text)
		case *mcp.ImageContent:
			parts = append(parts, fmt.Sprintf("[Image: %s]", c.MIMEType))
		case *mcp.AudioContent:
			parts = append(parts, fmt.Sprintf("[Audio: %s]", c.MIMEType))
		default:
			data, err := json.Marshal(item)
			if err != nil {
				parts = append(parts, fmt.Sprintf("[Unknown content type: %T]", item))
			} else {
				parts = append(parts, string(data))
			}
		}
	}

	return strings.Join(parts, "\n")
}

func formatError(result *mcp.CallToolResult) string {
	if len(result.Content) > 0 {
		return formatContent(result.Content)
	}
	return "MCP tool returned an error"
}
