package ruledef

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Condition maps field names to expected values. All pairs must hold
// (loose comparison against the record's live values) for the condition
// to pass; an empty condition always passes.
type Condition map[string]any

// ConditionalRule is one if/then/else registration. Exactly one of
// Condition or Expr is set: Condition for field/value equality pairs,
// Expr for an expression evaluated against the record snapshot. Rules are
// appended in registration order and never mutated afterwards; they are
// re-evaluated on every run because field values change between runs.
type ConditionalRule struct {
	ID        string    `json:"id"`
	Condition Condition `json:"if,omitempty"`
	Expr      string    `json:"if_expr,omitempty"`
	Then      RuleSet   `json:"then,omitempty"`
	Else      RuleSet   `json:"else,omitempty"`

	// Compiled holds the expression program, set once at registration so
	// concurrent runs only ever read it. CompileErr records a failed
	// compile; resolving such a rule aborts the run.
	Compiled   any   `json:"-"`
	CompileErr error `json:"-"`
}

// compileCondition compiles a condition expression to a boolean program.
func compileCondition(expression string) (any, error) {
	prog, err := expr.Compile(expression, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", expression, err)
	}
	return prog, nil
}
