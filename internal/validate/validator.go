// Package validate implements the validation pipeline: it resolves the
// effective rule set for a record's current values, hands it to the
// engine, and normalizes the outcome.
package validate

import (
	"github.com/google/uuid"

	"record-validate/internal/ruledef"
)

// Record is the narrow capability the core needs from its host: a
// readable snapshot of current field values and a way to hook into the
// host's validation trigger. The core never sees the host's full type.
type Record interface {
	// Fields returns a snapshot of the current field values.
	Fields() map[string]any
	// OnValidate registers a hook the host invokes when validation is
	// triggered, passing an intent tag.
	OnValidate(hook Hook)
}

// Hook is a validation entry point. The intent tag is carried through to
// the Context untouched; it is an extension point for hosts, not
// interpreted here. A nil ErrorMap means the run passed.
type Hook func(intent string) (ErrorMap, error)

// Context is the ephemeral state of one run: the value snapshot the
// conditions and the engine both read, the active locale, and the intent
// the hook was triggered with. Discarded when the run returns.
type Context struct {
	RunID  string
	Intent string
	Locale string
	Values map[string]any
}

// Validator binds a rule store to a record and registers itself on the
// record's validation hook. One validator per record instance.
type Validator struct {
	store  *ruledef.Store
	runner *Runner
	record Record
}

// New attaches a validator to record. A nil store starts empty; rules are
// added incrementally afterwards.
func New(record Record, store *ruledef.Store, runner *Runner) *Validator {
	if store == nil {
		store = ruledef.NewStore()
	}
	v := &Validator{store: store, runner: runner, record: record}
	record.OnValidate(v.Run)
	return v
}

// AddRule appends a rule expression to a field's rules.
func (v *Validator) AddRule(field string, expr any) {
	v.store.AddRule(field, expr)
}

// AddRules registers a field→rule-expression map.
func (v *Validator) AddRules(rules map[string]any) {
	v.store.AddRules(rules)
}

// If registers a conditional rule group.
func (v *Validator) If(cond ruledef.Condition, then, els map[string]any) {
	v.store.If(cond, then, els)
}

// IfExpr registers an expression-conditioned rule group.
func (v *Validator) IfExpr(expression string, then, els map[string]any) {
	v.store.IfExpr(expression, then, els)
}

// Store exposes the underlying rule store.
func (v *Validator) Store() *ruledef.Store {
	return v.store
}

// Run is the hook entry point: snapshot the record, resolve the effective
// rule set, evaluate it, and normalize the result. Returns the nil
// sentinel when every rule passes. Errors are structural (bad condition
// expression, failed check registration) and abort the run; per-field
// failures never surface here.
func (v *Validator) Run(intent string) (ErrorMap, error) {
	ctx := &Context{
		RunID:  uuid.NewString(),
		Intent: intent,
		Locale: v.runner.Locale(),
		Values: v.record.Fields(),
	}

	rules, err := Resolve(v.store, ctx)
	if err != nil {
		return nil, err
	}
	raw, err := v.runner.Run(rules, ctx)
	if err != nil {
		return nil, err
	}
	return NormalizeErrors(raw), nil
}
