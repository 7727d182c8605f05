package function

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"varta/internal/hook"
	"varta/internal/llm"
	"varta/internal/logger"
)

// Executor turns a model-emitted function call into a validated, rate-limited,
// safely-executed Result. It never panics and never returns an error from a
// dispatch: every failure mode is encoded in the Result.
type Executor struct {
	registry    *Registry
	hookManager *hook.Manager
	log         *logger.Logger
}

// NewExecutor creates an executor over the given registry. The registry is
// passed in explicitly; there is no ambient shared instance.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// SetHookManager installs dispatch lifecycle hooks.
func (e *Executor) SetHookManager(manager *hook.Manager) {
	e.hookManager = manager
}

// SetLogger installs a logger for dispatch tracing.
func (e *Executor) SetLogger(log *logger.Logger) {
	e.log = log
}

// Dispatch runs one function call through the pipeline: lookup, enabled
// check, rate check, validation, invocation, usage update. Usage advances
// only on a fully successful invocation, so failed calls never consume
// rate-limit budget.
func (e *Executor) Dispatch(ctx context.Context, call Call) *Result {
	start := time.Now()

	t, ok := e.registry.Get(call.Name)
	if !ok {
		return e.finish(call, failure(call.CallID, fmt.Sprintf("%s: %s", ErrUnknownFunction, call.Name)), start)
	}

	if !t.Enabled() {
		return e.finish(call, failure(call.CallID, fmt.Sprintf("%s: %s", ErrFunctionDisabled, call.Name)), start)
	}

	if !e.registry.CheckRateLimit(call.Name) {
		return e.finish(call, failure(call.CallID, fmt.Sprintf("%s for %s", ErrRateLimited, call.Name)), start)
	}

	if e.hookManager != nil {
		data := hook.NewHookData(hook.BeforeDispatch, call.Name).
			Set("arguments", call.Arguments).
			Set("call_id", call.CallID)

		feedback, err := e.hookManager.Trigger(ctx, data)
		if err != nil {
			return e.finish(call, failure(call.CallID, fmt.Sprintf("hook error: %v", err)), start)
		}
		if !feedback.Allow {
			return e.finish(call, failure(call.CallID, fmt.Sprintf("dispatch denied: %s", feedback.Message)), start)
		}
	}

	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	// Tools adapted from an external provider carry a raw schema; the
	// provider validates its own arguments.
	if t.RawSchema == nil {
		validated, err := ValidateArguments(args, t.Parameters)
		if err != nil {
			return e.finish(call, failure(call.CallID, err.Error()), start)
		}
		args = validated
	}

	value, err := e.invoke(ctx, t.Handler, args)
	if err != nil {
		return e.finish(call, failure(call.CallID, err.Error()), start)
	}

	e.registry.RecordUsage(call.Name)

	return e.finish(call, &Result{CallID: call.CallID, Value: value, Success: true}, start)
}

// invoke runs the handler, converting a panic into an ordinary handler
// failure so a misbehaving tool cannot crash the dispatch pipeline.
func (e *Executor) invoke(ctx context.Context, h Handler, args map[string]any) (value any, err error) {
	defer func() {
		if p := recover(); p != nil {
			value = nil
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return h.Invoke(ctx, args)
}

// finish logs the outcome and fires the after-dispatch hook. After hooks are
// observational and cannot block.
func (e *Executor) finish(call Call, res *Result, start time.Time) *Result {
	duration := time.Since(start)

	if e.log != nil {
		e.log.FunctionResult(call.Name, res.Success, res.Error, duration)
	}

	if e.hookManager != nil {
		data := hook.NewHookData(hook.AfterDispatch, call.Name).
			Set("call_id", call.CallID).
			Set("success", res.Success).
			Set("duration", duration)
		_, _ = e.hookManager.Trigger(context.Background(), data)
	}

	return res
}

// DispatchAll runs the calls concurrently and returns results in request
// order. Calls are independent: there is no chaining and no dependency
// analysis between them.
func (e *Executor) DispatchAll(ctx context.Context, calls []Call) []*Result {
	results := make([]*Result, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(idx int, c Call) {
			defer wg.Done()
			results[idx] = e.Dispatch(ctx, c)
		}(i, call)
	}
	wg.Wait()

	return results
}

// DispatchToolCalls decodes the wire-format tool calls emitted by the LLM
// backend and dispatches them. A call whose argument payload is not valid
// JSON fails individually; the batch never aborts.
func (e *Executor) DispatchToolCalls(ctx context.Context, toolCalls []*llm.ToolCall) []*Result {
	calls := make([]Call, 0, len(toolCalls))
	results := make([]*Result, len(toolCalls))
	indexes := make([]int, 0, len(toolCalls))

	for i, tc := range toolCalls {
		args := map[string]any{}
		if raw := tc.Function.Arguments; raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				results[i] = failure(tc.ID, fmt.Sprintf("invalid arguments payload: %v", err))
				continue
			}
		}

		if e.log != nil {
			e.log.FunctionCall(tc.Function.Name, tc.Function.Arguments)
		}

		calls = append(calls, Call{Name: tc.Function.Name, Arguments: args, CallID: tc.ID})
		indexes = append(indexes, i)
	}

	for i, res := range e.DispatchAll(ctx, calls) {
		results[indexes[i]] = res
	}
	return results
}
