// Package engine defines the validation-engine boundary the core calls
// into, plus a default implementation backed by go-playground/validator.
// The core never depends on a concrete engine: it receives a Factory and
// works against the interfaces here.
package engine

import "record-validate/internal/ruledef"

// RawErrors is an engine's raw per-field output: zero or more failure
// messages per field, in the order the field's rules failed. A nil map
// means the run passed.
type RawErrors map[string][]string

// CheckFunc is an atomic check: true means the value passes. params are
// the rule's positional parameters as written in the RuleSpec.
type CheckFunc func(value any, params []string) bool

// Engine is a single evaluation run, constructed over a snapshot of the
// record's field values.
type Engine interface {
	// SetRules supplies the resolved rule set for this run.
	SetRules(rules ruledef.RuleSet)
	// Evaluate runs every rule and reports whether all passed.
	Evaluate() bool
	// Errors returns the raw failures of the last Evaluate call.
	Errors() RawErrors
}

// Registry is the registration surface for custom rule types.
type Registry interface {
	// Register installs a named check with its default failure-message
	// template. Registering an existing name replaces it, so
	// re-registration after a locale change is idempotent.
	Register(name string, fn CheckFunc, message string) error
}

// Factory carries the engine's process-wide state (active locale and the
// custom-check registry) and constructs per-run Engines.
type Factory interface {
	Registry
	// Locale returns the active message-localization setting.
	Locale() string
	// New constructs an engine over a field-value snapshot.
	New(values map[string]any) Engine
}
