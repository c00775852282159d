package ruledef

import (
	"fmt"
	"strconv"
)

// RuleSpec is the canonical form of one atomic check: a rule name, its
// positional parameters, and an optional message override. Every rule
// expression a caller hands to a Store is normalized to this shape before
// it is kept.
type RuleSpec struct {
	Name    string   `json:"name"`
	Params  []string `json:"params,omitempty"`
	Message string   `json:"message,omitempty"`
}

// FieldRules is the ordered list of checks for one field. Order matters:
// the engine runs rules in order and error normalization keeps the last
// failing message per field.
type FieldRules []RuleSpec

// RuleSet maps field names to their rule lists.
type RuleSet map[string]FieldRules

// Clone returns a deep copy. Resolving conditional rules merges into a
// clone so the stored base set is never mutated by a run.
func (rs RuleSet) Clone() RuleSet {
	if rs == nil {
		return RuleSet{}
	}
	out := make(RuleSet, len(rs))
	for field, rules := range rs {
		copied := make(FieldRules, len(rules))
		copy(copied, rules)
		out[field] = copied
	}
	return out
}

// Normalize converts a caller-supplied rule expression into FieldRules.
//
// Accepted shapes:
//   - a bare rule name: "required"
//   - a RuleSpec or FieldRules (already canonical, returned copied)
//   - a flat list whose first element is the rule name and whose remaining
//     elements are positional parameters, with an optional trailing
//     {"message": ...} entry: ["lengthBetween", 3, 10]; a []string reads
//     the same way, so []string{"min", "3"} is one parameterized rule
//   - a list mixing any of the above, one element per rule:
//     ["required", ["min", 3]]
//
// A flat all-scalar list is read as a single parameterized rule, so two
// bare rules for one field must be declared as separate elements or
// separate AddRule calls. Unknown rule names are not checked here; the
// engine reports them when it cannot find the rule.
//
// Normalize panics on shapes outside the list above — from Go code those
// are programming errors. Input that arrives as data (the rule loader's
// JSONB definitions) goes through the checked normalize variant instead,
// so a bad row is an error, not a crash.
func Normalize(expr any) FieldRules {
	rules, err := normalize(expr)
	if err != nil {
		panic("ruledef: " + err.Error())
	}
	return rules
}

func normalize(expr any) (FieldRules, error) {
	switch v := expr.(type) {
	case nil:
		return nil, nil
	case string:
		return FieldRules{{Name: v}}, nil
	case RuleSpec:
		return FieldRules{v}, nil
	case FieldRules:
		out := make(FieldRules, len(v))
		copy(out, v)
		return out, nil
	case []RuleSpec:
		out := make(FieldRules, len(v))
		copy(out, v)
		return out, nil
	case []string:
		elems := make([]any, len(v))
		for i, s := range v {
			elems[i] = s
		}
		return normalizeList(elems)
	case []any:
		return normalizeList(v)
	default:
		return nil, fmt.Errorf("cannot normalize rule expression of type %T", expr)
	}
}

func normalizeList(list []any) (FieldRules, error) {
	if len(list) == 0 {
		return nil, nil
	}
	if name, ok := list[0].(string); ok && isFlatRule(list) {
		return FieldRules{specFrom(name, list[1:])}, nil
	}
	var out FieldRules
	for _, elem := range list {
		rules, err := normalize(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, rules...)
	}
	return out, nil
}

// isFlatRule reports whether a list is a single parameterized rule rather
// than a list of rules. Any nested list or RuleSpec after the head means a
// rule list; a trailing message map does not.
func isFlatRule(list []any) bool {
	for i, elem := range list[1:] {
		switch elem.(type) {
		case []any, []string, RuleSpec, FieldRules, []RuleSpec:
			return false
		case map[string]any:
			if i != len(list)-2 {
				return false
			}
		}
	}
	return true
}

func specFrom(name string, rest []any) RuleSpec {
	spec := RuleSpec{Name: name}
	for i, elem := range rest {
		if m, ok := elem.(map[string]any); ok && i == len(rest)-1 {
			if msg, ok := m["message"].(string); ok {
				spec.Message = msg
			}
			continue
		}
		spec.Params = append(spec.Params, paramString(elem))
	}
	return spec
}

// paramString renders a positional parameter for the engine's tag syntax.
// Floats that carry no fraction print as integers so JSON-decoded numbers
// round-trip the way callers wrote them.
func paramString(v any) string {
	switch p := v.(type) {
	case string:
		return p
	case float64:
		if p == float64(int64(p)) {
			return strconv.FormatInt(int64(p), 10)
		}
		return strconv.FormatFloat(p, 'f', -1, 64)
	case int:
		return strconv.Itoa(p)
	case int64:
		return strconv.FormatInt(p, 10)
	case bool:
		return strconv.FormatBool(p)
	default:
		return fmt.Sprintf("%v", p)
	}
}

// NormalizeMap normalizes a field→rule-expression map into a RuleSet.
// Like Normalize, it panics on impossible shapes.
func NormalizeMap(rules map[string]any) RuleSet {
	out, err := normalizeMap(rules)
	if err != nil {
		panic("ruledef: " + err.Error())
	}
	return out
}

func normalizeMap(rules map[string]any) (RuleSet, error) {
	if len(rules) == 0 {
		return RuleSet{}, nil
	}
	out := make(RuleSet, len(rules))
	for field, expr := range rules {
		fr, err := normalize(expr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field, err)
		}
		if len(fr) > 0 {
			out[field] = fr
		}
	}
	return out, nil
}
