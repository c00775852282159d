package engine

import (
	"strings"
	"testing"

	"record-validate/internal/ruledef"
)

func TestPlayground_BuiltinChecks(t *testing.T) {
	p := NewPlayground("en")

	run := p.New(map[string]any{"email": "nope", "age": 16})
	run.SetRules(ruledef.RuleSet{
		"email": {{Name: "email"}},
		"age":   {{Name: "min", Params: []string{"18"}}},
	})

	if run.Evaluate() {
		t.Fatal("expected failures for invalid email and low age")
	}
	errs := run.Errors()
	if len(errs["email"]) != 1 || len(errs["age"]) != 1 {
		t.Fatalf("expected one failure per field, got %v", errs)
	}
}

func TestPlayground_PassingRun(t *testing.T) {
	p := NewPlayground("en")

	run := p.New(map[string]any{"email": "a@b.co"})
	run.SetRules(ruledef.RuleSet{"email": {{Name: "required"}, {Name: "email"}}})

	if !run.Evaluate() {
		t.Fatalf("expected pass, got %v", run.Errors())
	}
	if run.Errors() != nil {
		t.Fatalf("expected nil errors after pass, got %v", run.Errors())
	}
}

func TestPlayground_MultipleFailuresKeepRuleOrder(t *testing.T) {
	p := NewPlayground("en")

	run := p.New(map[string]any{"email": ""})
	run.SetRules(ruledef.RuleSet{"email": {
		{Name: "required", Message: "first"},
		{Name: "email", Message: "second"},
	}})

	if run.Evaluate() {
		t.Fatal("expected empty email to fail both rules")
	}
	msgs := run.Errors()["email"]
	if len(msgs) != 2 || msgs[0] != "first" || msgs[1] != "second" {
		t.Fatalf("expected ordered messages [first second], got %v", msgs)
	}
}

func TestPlayground_AbsentFieldOnlyFailsRequired(t *testing.T) {
	p := NewPlayground("en")

	run := p.New(map[string]any{})
	run.SetRules(ruledef.RuleSet{"nickname": {{Name: "email"}}})
	if !run.Evaluate() {
		t.Fatalf("non-required rules must skip absent fields, got %v", run.Errors())
	}

	run = p.New(map[string]any{})
	run.SetRules(ruledef.RuleSet{"nickname": {{Name: "required"}}})
	if run.Evaluate() {
		t.Fatal("required must fail for an absent field")
	}
}

func TestPlayground_CustomCheck(t *testing.T) {
	p := NewPlayground("en")
	err := p.Register("even", func(value any, _ []string) bool {
		n, ok := value.(int)
		return ok && n%2 == 0
	}, "%s must be even")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	run := p.New(map[string]any{"count": 3})
	run.SetRules(ruledef.RuleSet{"count": {{Name: "even"}}})
	if run.Evaluate() {
		t.Fatal("expected custom check to fail for 3")
	}
	if got := run.Errors()["count"][0]; got != "count must be even" {
		t.Fatalf("expected templated custom message, got %q", got)
	}
}

func TestPlayground_CustomCheckReceivesParams(t *testing.T) {
	p := NewPlayground("en")
	var seen []string
	err := p.Register("withparams", func(value any, params []string) bool {
		seen = params
		return true
	}, "%s failed")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	run := p.New(map[string]any{"x": "v"})
	run.SetRules(ruledef.RuleSet{"x": {{Name: "withparams", Params: []string{"a", "b"}}}})
	run.Evaluate()

	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Fatalf("expected params [a b], got %v", seen)
	}
}

func TestPlayground_UnknownRule(t *testing.T) {
	p := NewPlayground("en")

	run := p.New(map[string]any{"x": "v"})
	run.SetRules(ruledef.RuleSet{"x": {{Name: "no_such_rule"}}})

	if run.Evaluate() {
		t.Fatal("expected unknown rule to surface as a failure")
	}
	msgs := run.Errors()["x"]
	if len(msgs) != 1 {
		t.Fatalf("expected one unknown-rule failure, got %v", run.Errors())
	}
	if !strings.Contains(msgs[0], "unknown rule") {
		t.Fatalf("expected an unknown-rule message, got %q", msgs[0])
	}
}

func TestPlayground_BadParamsNotReportedAsUnknown(t *testing.T) {
	p := NewPlayground("en")

	// min is a real rule; the parameter cannot be parsed against a
	// numeric value. That must read as a parameter problem, not as an
	// unknown rule.
	run := p.New(map[string]any{"age": 5})
	run.SetRules(ruledef.RuleSet{"age": {{Name: "min", Params: []string{"abc"}}}})

	if run.Evaluate() {
		t.Fatal("expected unparseable parameter to surface as a failure")
	}
	msgs := run.Errors()["age"]
	if len(msgs) != 1 {
		t.Fatalf("expected one failure, got %v", run.Errors())
	}
	if !strings.Contains(msgs[0], "invalid parameters") {
		t.Fatalf("expected an invalid-parameters message, got %q", msgs[0])
	}
	if strings.Contains(msgs[0], "unknown rule") {
		t.Fatalf("parameter problem misreported as unknown rule: %q", msgs[0])
	}
}

func TestTagFor(t *testing.T) {
	if got := tagFor(ruledef.RuleSpec{Name: "required"}); got != "required" {
		t.Fatalf("expected bare tag, got %q", got)
	}
	if got := tagFor(ruledef.RuleSpec{Name: "min", Params: []string{"3"}}); got != "min=3" {
		t.Fatalf("expected min=3, got %q", got)
	}
	if got := tagFor(ruledef.RuleSpec{Name: "between", Params: []string{"3", "10"}}); got != "between=3 10" {
		t.Fatalf("expected space-joined params, got %q", got)
	}
}
