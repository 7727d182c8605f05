package function

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Tool is a registry entry: a Definition plus mutable runtime state. The
// state is owned by the Registry and mutated only through its methods; the
// accessors here are read-side snapshots.
type Tool struct {
	Definition

	mu         sync.Mutex
	enabled    bool
	rateLimit  int // calls per minute, 0 means unlimited
	limiter    *rate.Limiter
	lastUsed   time.Time
	usageCount int64
}

// Enabled reports whether the tool is administratively enabled.
func (t *Tool) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// RateLimit returns the configured cadence in calls per minute, 0 if none.
func (t *Tool) RateLimit() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rateLimit
}

// UsageCount returns the number of successful invocations.
func (t *Tool) UsageCount() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.usageCount
}

// LastUsed returns the time of the last successful invocation; ok is false
// if the tool has never been used.
func (t *Tool) LastUsed() (used time.Time, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastUsed, !t.lastUsed.IsZero()
}

func (t *Tool) setEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

func (t *Tool) setRateLimit(perMinute int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if perMinute <= 0 {
		t.rateLimit = 0
		t.limiter = nil
		return
	}
	t.rateLimit = perMinute
	// Burst of one: the tool may fire again only after 60/perMinute seconds
	// have refilled the bucket.
	t.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1)
}

// ready reports whether the rate-limit window allows another invocation.
// It does not consume the slot; recordUsage does, so failed dispatches never
// spend rate-limit budget.
func (t *Tool) ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.limiter == nil {
		return true
	}
	return t.limiter.Tokens() >= 1
}

func (t *Tool) recordUsage() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.limiter != nil {
		t.limiter.Allow()
	}
	t.lastUsed = time.Now()
	t.usageCount++
}

// Registry is an indexed collection of tools, also indexed by category.
// Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	tools      map[string]*Tool
	order      []string
	categories map[Category][]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:      make(map[string]*Tool),
		categories: make(map[Category][]string),
	}
}

// Register adds a tool for the definition. A duplicate name is rejected with
// ErrDuplicateTool; replacing a tool requires an explicit Unregister first,
// which keeps the category index consistent. The definition's serialized
// parameter schema is compiled up front so malformed tools fail here, not at
// dispatch time.
func (r *Registry) Register(def Definition) error {
	if err := checkDefinition(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, def.Name)
	}

	r.tools[def.Name] = &Tool{Definition: def, enabled: true}
	r.order = append(r.order, def.Name)
	r.categories[def.Category] = append(r.categories[def.Category], def.Name)
	return nil
}

// Unregister removes the tool and its category-index entry. No-op if absent.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, exists := r.tools[name]
	if !exists {
		return
	}

	delete(r.tools, name)
	r.order = removeName(r.order, name)
	r.categories[t.Category] = removeName(r.categories[t.Category], name)
	if len(r.categories[t.Category]) == 0 {
		delete(r.categories, t.Category)
	}
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// ListAll returns every tool in registration order.
func (r *Registry) ListAll() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// ListEnabled returns enabled tools in registration order.
func (r *Registry) ListEnabled() []*Tool {
	var out []*Tool
	for _, t := range r.ListAll() {
		if t.Enabled() {
			out = append(out, t)
		}
	}
	return out
}

// ListByCategory returns the category's tools in registration order.
func (r *Registry) ListByCategory(category Category) []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.categories[category]
	out := make([]*Tool, 0, len(names))
	for _, name := range names {
		out = append(out, r.tools[name])
	}
	return out
}

// Enable marks the tool dispatchable. No-op if absent.
func (r *Registry) Enable(name string) {
	if t, ok := r.Get(name); ok {
		t.setEnabled(true)
	}
}

// Disable blocks dispatch to the tool without unregistering it. No-op if
// absent.
func (r *Registry) Disable(name string) {
	if t, ok := r.Get(name); ok {
		t.setEnabled(false)
	}
}

// SetRateLimit configures the tool's cadence in calls per minute; zero or
// negative clears the limit. No-op if absent.
func (r *Registry) SetRateLimit(name string, perMinute int) {
	if t, ok := r.Get(name); ok {
		t.setRateLimit(perMinute)
	}
}

// CheckRateLimit reports whether the tool may fire now. Permissive for
// unknown names: existence is the executor's gate, not this one.
func (r *Registry) CheckRateLimit(name string) bool {
	t, ok := r.Get(name)
	if !ok {
		return true
	}
	return t.ready()
}

// RecordUsage consumes the tool's rate-limit slot, stamps last-used, and
// increments the usage count. No-op if absent.
func (r *Registry) RecordUsage(name string) {
	if t, ok := r.Get(name); ok {
		t.recordUsage()
	}
}

func checkDefinition(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %s: handler cannot be nil", def.Name)
	}
	if def.RawSchema != nil && len(def.Parameters) > 0 {
		return fmt.Errorf("tool %s: raw schema and parameter list are mutually exclusive", def.Name)
	}

	for _, p := range def.Parameters {
		if p.Name == "" {
			return fmt.Errorf("tool %s: parameter name cannot be empty", def.Name)
		}
		if len(p.Enum) > 0 {
			if p.Type != TypeString {
				return fmt.Errorf("tool %s: parameter %s: enum requires string type", def.Name, p.Name)
			}
			if p.Default != nil {
				d, ok := p.Default.(string)
				if !ok || !containsString(p.Enum, d) {
					return fmt.Errorf("tool %s: parameter %s: default %v is not in enum %v",
						def.Name, p.Name, p.Default, p.Enum)
				}
			}
		}
	}

	if err := compileSchema(def.ParametersSchema()); err != nil {
		return fmt.Errorf("tool %s: invalid parameter schema: %w", def.Name, err)
	}
	return nil
}

func removeName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
