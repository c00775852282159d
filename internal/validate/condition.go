package validate

import (
	"fmt"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"record-validate/internal/ruledef"
)

// EvalCondition reports whether every (field, expected) pair of cond
// matches the record values under loose equality. An empty condition is
// trivially satisfied.
func EvalCondition(cond ruledef.Condition, values map[string]any) bool {
	for field, want := range cond {
		if !looseEqual(values[field], want) {
			return false
		}
	}
	return true
}

// looseEqual compares with numeric/string coercion, so a condition
// {age: 5} matches a record holding "5".
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, aok := toFloat64(a); aok {
		if bf, bok := toFloat64(b); bok {
			return af == bf
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// toFloat64 converts numeric types, numeric strings and bools to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint, uint32, uint64:
		return toFloat64(fmt.Sprintf("%d", n))
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// evalConditional decides which branch of a conditional rule applies.
// Expression conditions were compiled at registration; this only reads
// the program, so concurrent runs never write to the rule. Compile and
// run failures are structural and abort the run.
func evalConditional(cr *ruledef.ConditionalRule, values map[string]any) (bool, error) {
	if cr.Expr == "" {
		return EvalCondition(cr.Condition, values), nil
	}

	if cr.CompileErr != nil {
		return false, cr.CompileErr
	}
	prog, ok := cr.Compiled.(*vm.Program)
	if !ok || prog == nil {
		return false, fmt.Errorf("condition %q was not compiled at registration", cr.Expr)
	}

	result, err := expr.Run(prog, map[string]any{"record": values})
	if err != nil {
		return false, fmt.Errorf("evaluate condition: %w", err)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not yield a boolean", cr.Expr)
	}
	return matched, nil
}
