package function

import (
	"context"
)

// ParamType is the closed set of wire types an argument may declare.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
	TypeObject  ParamType = "object"
	TypeNull    ParamType = "null"
)

// ParameterSchema describes one named, typed argument of a tool.
// Immutable after creation. If Enum is set, Type should be TypeString and a
// non-nil Default must be a member of Enum; Register rejects definitions that
// break this.
type ParameterSchema struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any
	Enum        []string
}

// Category groups tools for discovery and listing.
type Category string

const (
	CategoryUtility     Category = "utility"
	CategoryInformation Category = "information"
	CategorySearch      Category = "search"
	CategoryMedia       Category = "media"
	CategoryExternal    Category = "external"
)

// Handler performs a tool's actual work. Implementations receive validated,
// defaulted arguments and return a JSON-serializable value or an error.
// Blocking work must honor ctx; the executor never cares whether the handler
// computes inline or suspends on I/O.
type Handler interface {
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

func (f HandlerFunc) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return f(ctx, args)
}

// Definition is a named, described capability bound to a handler and a
// parameter schema list. Name is the registry lookup key.
type Definition struct {
	Name        string
	Description string
	Parameters  []ParameterSchema
	Category    Category
	Handler     Handler

	// RawSchema, when non-nil, is used verbatim as the tool's parameters
	// object and disables local argument coercion; the remote provider that
	// exported the tool owns validation. Mutually exclusive with Parameters.
	RawSchema map[string]any
}

// Call is a model-emitted request to invoke a tool by name.
type Call struct {
	Name      string
	Arguments map[string]any
	CallID    string
}

// Result is the outcome of one dispatch. Exactly one of Value and Error is
// meaningful depending on Success; CallID always echoes the request.
type Result struct {
	CallID  string
	Value   any
	Success bool
	Error   string
}

func failure(callID, msg string) *Result {
	return &Result{CallID: callID, Success: false, Error: msg}
}
