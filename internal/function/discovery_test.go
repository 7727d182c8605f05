package function

import (
	"context"
	"reflect"
	"testing"
)

func TestParametersSchema(t *testing.T) {
	def := Definition{
		Name:        "get_weather",
		Description: "current weather for a city",
		Parameters: []ParameterSchema{
			{Name: "location", Type: TypeString, Description: "city name", Required: true},
			{Name: "units", Type: TypeString, Description: "temperature units",
				Enum: []string{"celsius", "fahrenheit"}, Default: "celsius"},
		},
	}

	schema := def.ParametersSchema()

	if schema["type"] != "object" {
		t.Errorf("type = %v", schema["type"])
	}

	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties has type %T", schema["properties"])
	}

	location, ok := properties["location"].(map[string]any)
	if !ok {
		t.Fatal("location property missing")
	}
	if location["type"] != "string" || location["description"] != "city name" {
		t.Errorf("location property = %v", location)
	}
	if _, hasEnum := location["enum"]; hasEnum {
		t.Error("location should not carry an enum")
	}

	units := properties["units"].(map[string]any)
	if !reflect.DeepEqual(units["enum"], []string{"celsius", "fahrenheit"}) {
		t.Errorf("units enum = %v", units["enum"])
	}

	required, ok := schema["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "location" {
		t.Errorf("required = %v", schema["required"])
	}
}

func TestParametersSchema_NoRequired(t *testing.T) {
	def := Definition{
		Name: "ping",
		Parameters: []ParameterSchema{
			{Name: "tag", Type: TypeString, Description: "optional tag"},
		},
	}

	schema := def.ParametersSchema()
	if _, ok := schema["required"]; ok {
		t.Error("required key should be omitted when no parameter is required")
	}
}

func TestParametersSchema_RawPassthrough(t *testing.T) {
	raw := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path": map[string]any{"type": "string"},
		},
	}
	def := Definition{Name: "remote_read", RawSchema: raw}

	schema := def.ParametersSchema()
	if !reflect.DeepEqual(schema, raw) {
		t.Errorf("raw schema not passed through verbatim: %v", schema)
	}
}

func TestSpecs(t *testing.T) {
	registry := NewRegistry()
	handler := HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
		return nil, nil
	})

	defs := []Definition{
		{Name: "alpha", Description: "first", Category: CategoryUtility, Handler: handler},
		{Name: "beta", Description: "second", Category: CategoryUtility, Handler: handler,
			Parameters: []ParameterSchema{
				{Name: "q", Type: TypeString, Description: "query", Required: true},
			}},
		{Name: "gamma", Description: "third", Category: CategoryUtility, Handler: handler},
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			t.Fatalf("register %s failed: %v", def.Name, err)
		}
	}
	registry.Disable("gamma")

	specs := registry.Specs()
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2 (disabled tool excluded)", len(specs))
	}
	if specs[0].Function.Name != "alpha" || specs[1].Function.Name != "beta" {
		t.Errorf("specs out of registration order: %s, %s",
			specs[0].Function.Name, specs[1].Function.Name)
	}
	if specs[0].Type != "function" {
		t.Errorf("spec type = %q", specs[0].Type)
	}
	if specs[1].Function.Description != "second" {
		t.Errorf("description = %q", specs[1].Function.Description)
	}

	params := specs[1].Function.Parameters
	if params["type"] != "object" {
		t.Errorf("parameters schema = %v", params)
	}
}

func TestCompileSchema(t *testing.T) {
	valid := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"required": []string{"name"},
	}
	if err := compileSchema(valid); err != nil {
		t.Errorf("valid schema rejected: %v", err)
	}

	invalid := map[string]any{
		"type": 42,
	}
	if err := compileSchema(invalid); err == nil {
		t.Error("schema with a non-string type should be rejected")
	}
}
