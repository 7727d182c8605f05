package function

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"varta/internal/hook"
	"varta/internal/llm"
)

func weatherDefinition(t *testing.T, called *atomic.Int64) Definition {
	t.Helper()
	return Definition{
		Name:        "get_weather",
		Description: "current weather for a city",
		Category:    CategoryInformation,
		Parameters: []ParameterSchema{
			{Name: "location", Type: TypeString, Description: "city name", Required: true},
			{Name: "units", Type: TypeString, Description: "temperature units",
				Enum: []string{"celsius", "fahrenheit"}, Default: "celsius"},
		},
		Handler: HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			if called != nil {
				called.Add(1)
			}
			return map[string]any{
				"location": args["location"],
				"units":    args["units"],
			}, nil
		}),
	}
}

func newTestExecutor(t *testing.T, defs ...Definition) (*Executor, *Registry) {
	t.Helper()
	registry := NewRegistry()
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			t.Fatalf("register %s failed: %v", def.Name, err)
		}
	}
	return NewExecutor(registry), registry
}

func TestDispatch_Success(t *testing.T) {
	executor, registry := newTestExecutor(t, weatherDefinition(t, nil))

	res := executor.Dispatch(context.Background(), Call{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "Mumbai"},
		CallID:    "c1",
	})

	if !res.Success {
		t.Fatalf("dispatch failed: %s", res.Error)
	}
	if res.CallID != "c1" {
		t.Errorf("call id = %q, want c1", res.CallID)
	}

	value, ok := res.Value.(map[string]any)
	if !ok {
		t.Fatalf("unexpected value type %T", res.Value)
	}
	if value["location"] != "Mumbai" {
		t.Errorf("location = %v", value["location"])
	}
	if value["units"] != "celsius" {
		t.Errorf("default units not injected: %v", value["units"])
	}

	tool, _ := registry.Get("get_weather")
	if tool.UsageCount() != 1 {
		t.Errorf("usage count = %d, want 1", tool.UsageCount())
	}
}

func TestDispatch_UnknownFunction(t *testing.T) {
	executor, _ := newTestExecutor(t)

	res := executor.Dispatch(context.Background(), Call{Name: "teleport", CallID: "c9"})

	if res.Success {
		t.Fatal("expected failure")
	}
	if res.CallID != "c9" {
		t.Errorf("call id must be echoed even on failure, got %q", res.CallID)
	}
	if !strings.Contains(res.Error, "unknown function") || !strings.Contains(res.Error, "teleport") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestDispatch_DisabledTool(t *testing.T) {
	var called atomic.Int64
	executor, registry := newTestExecutor(t, weatherDefinition(t, &called))
	registry.Disable("get_weather")

	res := executor.Dispatch(context.Background(), Call{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "Pune"},
		CallID:    "c2",
	})

	if res.Success {
		t.Fatal("disabled tool must not dispatch")
	}
	if !strings.Contains(res.Error, "function is disabled") {
		t.Errorf("error = %q", res.Error)
	}
	if called.Load() != 0 {
		t.Error("handler ran despite disabled state")
	}

	tool, _ := registry.Get("get_weather")
	if tool.UsageCount() != 0 {
		t.Errorf("usage count advanced on a refused call: %d", tool.UsageCount())
	}
}

func TestDispatch_ValidationFailure(t *testing.T) {
	var called atomic.Int64
	executor, registry := newTestExecutor(t, weatherDefinition(t, &called))

	res := executor.Dispatch(context.Background(), Call{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "Delhi", "units": "kelvin"},
		CallID:    "c3",
	})

	if res.Success {
		t.Fatal("invalid enum value must fail validation")
	}
	if !strings.Contains(res.Error, "units") {
		t.Errorf("error should name the offending parameter, got %q", res.Error)
	}
	if called.Load() != 0 {
		t.Error("handler must not run when validation fails")
	}

	tool, _ := registry.Get("get_weather")
	if tool.UsageCount() != 0 {
		t.Error("failed validation must not consume rate budget")
	}
}

func TestDispatch_RateLimit(t *testing.T) {
	executor, registry := newTestExecutor(t, weatherDefinition(t, nil))
	registry.SetRateLimit("get_weather", 1)

	first := executor.Dispatch(context.Background(), Call{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "Chennai"},
		CallID:    "c4",
	})
	if !first.Success {
		t.Fatalf("first call blocked: %s", first.Error)
	}

	second := executor.Dispatch(context.Background(), Call{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "Chennai"},
		CallID:    "c5",
	})
	if second.Success {
		t.Fatal("second call within the window must be rate-limited")
	}
	if !strings.Contains(second.Error, "rate limit exceeded") {
		t.Errorf("error = %q", second.Error)
	}

	tool, _ := registry.Get("get_weather")
	if tool.UsageCount() != 1 {
		t.Errorf("usage count = %d, want 1", tool.UsageCount())
	}
}

func TestDispatch_FailedInvocationKeepsRateBudget(t *testing.T) {
	failing := Definition{
		Name:        "flaky",
		Description: "always fails",
		Category:    CategoryUtility,
		Handler: HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("backend unavailable")
		}),
	}
	executor, registry := newTestExecutor(t, failing)
	registry.SetRateLimit("flaky", 1)

	for i := 0; i < 3; i++ {
		res := executor.Dispatch(context.Background(), Call{Name: "flaky", CallID: "f"})
		if res.Success {
			t.Fatal("expected handler failure")
		}
		if strings.Contains(res.Error, "rate limit") {
			t.Fatal("failed invocations must not consume the rate window")
		}
	}

	tool, _ := registry.Get("flaky")
	if tool.UsageCount() != 0 {
		t.Errorf("usage count = %d after only failed calls", tool.UsageCount())
	}
}

func TestDispatch_HandlerPanicRecovered(t *testing.T) {
	panicky := Definition{
		Name:        "detonate",
		Description: "panics on invoke",
		Category:    CategoryUtility,
		Handler: HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			panic("boom")
		}),
	}
	executor, _ := newTestExecutor(t, panicky)

	res := executor.Dispatch(context.Background(), Call{Name: "detonate", CallID: "c6"})

	if res.Success {
		t.Fatal("panicking handler must yield a failed result")
	}
	if !strings.Contains(res.Error, "handler panic") || !strings.Contains(res.Error, "boom") {
		t.Errorf("error = %q", res.Error)
	}
	if res.CallID != "c6" {
		t.Errorf("call id = %q", res.CallID)
	}
}

func TestDispatch_NilArguments(t *testing.T) {
	optional := Definition{
		Name:        "ping",
		Description: "no required parameters",
		Category:    CategoryUtility,
		Parameters: []ParameterSchema{
			{Name: "tag", Type: TypeString, Description: "optional tag"},
		},
		Handler: HandlerFunc(func(ctx context.Context, args map[string]any) (any, error) {
			return "pong", nil
		}),
	}
	executor, _ := newTestExecutor(t, optional)

	res := executor.Dispatch(context.Background(), Call{Name: "ping", CallID: "c7"})
	if !res.Success {
		t.Fatalf("nil arguments with no required params should succeed: %s", res.Error)
	}
}

type denyHook struct{ message string }

func (h *denyHook) Name() string             { return "deny" }
func (h *denyHook) Points() []hook.HookPoint { return []hook.HookPoint{hook.BeforeDispatch} }
func (h *denyHook) Priority() int            { return 100 }
func (h *denyHook) Handle(ctx context.Context, data *hook.HookData) (*hook.Feedback, error) {
	return hook.DenyFeedback(h.message), nil
}

func TestDispatch_HookDenial(t *testing.T) {
	var called atomic.Int64
	executor, registry := newTestExecutor(t, weatherDefinition(t, &called))

	manager := hook.NewManager()
	manager.Register(&denyHook{message: "not today"})
	executor.SetHookManager(manager)

	res := executor.Dispatch(context.Background(), Call{
		Name:      "get_weather",
		Arguments: map[string]any{"location": "Goa"},
		CallID:    "c8",
	})

	if res.Success {
		t.Fatal("denied dispatch must fail")
	}
	if !strings.Contains(res.Error, "dispatch denied") || !strings.Contains(res.Error, "not today") {
		t.Errorf("error = %q", res.Error)
	}
	if called.Load() != 0 {
		t.Error("handler ran despite hook denial")
	}

	tool, _ := registry.Get("get_weather")
	if tool.UsageCount() != 0 {
		t.Error("denied dispatch must not consume rate budget")
	}
}

func TestDispatchAll_PreservesOrder(t *testing.T) {
	executor, _ := newTestExecutor(t, weatherDefinition(t, nil))

	calls := []Call{
		{Name: "get_weather", Arguments: map[string]any{"location": "Mumbai"}, CallID: "a"},
		{Name: "teleport", CallID: "b"},
		{Name: "get_weather", Arguments: map[string]any{"location": "Delhi"}, CallID: "c"},
	}

	results := executor.DispatchAll(context.Background(), calls)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].CallID != want {
			t.Errorf("position %d: call id %q, want %q", i, results[i].CallID, want)
		}
	}
	if !results[0].Success || results[1].Success || !results[2].Success {
		t.Error("per-call outcomes mixed up across the batch")
	}
}

func TestDispatchToolCalls(t *testing.T) {
	executor, _ := newTestExecutor(t, weatherDefinition(t, nil))

	toolCalls := []*llm.ToolCall{
		{ID: "tc1", Type: "function", Function: &llm.FunctionCall{
			Name:      "get_weather",
			Arguments: `{"location": "Jaipur", "units": "fahrenheit"}`,
		}},
		{ID: "tc2", Type: "function", Function: &llm.FunctionCall{
			Name:      "get_weather",
			Arguments: `{"location":`,
		}},
		{ID: "tc3", Type: "function", Function: &llm.FunctionCall{
			Name: "get_weather",
		}},
	}

	results := executor.DispatchToolCalls(context.Background(), toolCalls)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}

	if !results[0].Success {
		t.Errorf("well-formed call failed: %s", results[0].Error)
	}
	value := results[0].Value.(map[string]any)
	if value["units"] != "fahrenheit" {
		t.Errorf("units = %v", value["units"])
	}

	if results[1].Success {
		t.Error("malformed JSON payload must fail individually")
	}
	if !strings.Contains(results[1].Error, "invalid arguments payload") {
		t.Errorf("error = %q", results[1].Error)
	}
	if results[1].CallID != "tc2" {
		t.Errorf("call id = %q", results[1].CallID)
	}

	if results[2].Success {
		t.Error("empty payload is missing the required location")
	}
}
