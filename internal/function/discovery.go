package function

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"varta/internal/llm"
)

// ParametersSchema serializes the definition's parameters into the standard
// tool-calling schema object:
//
//	{type: "object", properties: {<param>: {type, description, enum?}}, required: [...]}
//
// A definition carrying a RawSchema exposes it verbatim.
func (d Definition) ParametersSchema() map[string]any {
	if d.RawSchema != nil {
		return d.RawSchema
	}

	properties := make(map[string]any, len(d.Parameters))
	required := make([]string, 0, len(d.Parameters))

	for _, p := range d.Parameters {
		prop := map[string]any{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[p.Name] = prop

		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Specs serializes every enabled tool into a definition the model's
// function-calling protocol understands, in registration order.
func (r *Registry) Specs() []*llm.ToolDefinition {
	tools := r.ListEnabled()
	defs := make([]*llm.ToolDefinition, len(tools))

	for i, t := range tools {
		defs[i] = &llm.ToolDefinition{
			Type: "function",
			Function: &llm.FunctionDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.ParametersSchema(),
			},
		}
	}
	return defs
}

// compileSchema round-trips the schema map through the JSON Schema compiler.
// Registration-time sanity: a schema the compiler rejects would break the
// remote model's tool discovery.
func compileSchema(schemaMap map[string]any) error {
	data, err := json.Marshal(schemaMap)
	if err != nil {
		return err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	_, err = s.Resolve(nil)
	return err
}
